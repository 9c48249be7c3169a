// Package mqtt subscribes to the configured broker topics and caches the last
// payload seen per topic for the HTTP API to read.
package mqtt

import (
	"fmt"
	"sort"
	"sync"

	"mqwatch/logger"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Client wraps a paho MQTT client with a last-value cache. The cache is read
// concurrently by the HTTP server.
type Client struct {
	address  string
	port     int
	username string
	password string
	topics   []string

	client paho.Client

	mu     sync.RWMutex
	values map[string]string
}

func NewClient(address string, port int, username string, password string, topics []string) *Client {
	return &Client{
		address:  address,
		port:     port,
		username: username,
		password: password,
		topics:   topics,
		values:   make(map[string]string),
	}
}

// Run connects to the broker and starts receiving. Subscriptions are
// re-established on every (re)connect.
func (c *Client) Run() error {
	opts := paho.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", c.address, c.port)).
		SetClientID("mqwatch-" + uuid.NewString()).
		SetUsername(c.username).
		SetPassword(c.password).
		SetAutoReconnect(true)

	opts.OnConnect = func(client paho.Client) {
		logger.Info("Connected to MQTT broker")
		c.subscribe(client)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		logger.Warning("MQTT connection lost:", err)
	}

	c.client = paho.NewClient(opts)
	token := c.client.Connect()
	token.Wait()
	return token.Error()
}

// Stop disconnects from the broker.
func (c *Client) Stop() {
	if c.client != nil {
		c.client.Disconnect(250)
	}
}

func (c *Client) subscribe(client paho.Client) {
	filters := make(map[string]byte, len(c.topics))
	for _, topic := range c.topics {
		filters[topic] = 0
	}
	token := client.SubscribeMultiple(filters, c.onMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		logger.Warning("MQTT subscribe failed:", err)
	}
}

func (c *Client) onMessage(_ paho.Client, msg paho.Message) {
	c.mu.Lock()
	c.values[msg.Topic()] = string(msg.Payload())
	c.mu.Unlock()
	logger.Debugf("topic %s = %s", msg.Topic(), string(msg.Payload()))
}

// GetValue returns the last payload seen on topic. The second result is
// false when the topic was never observed.
func (c *Client) GetValue(topic string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.values[topic]
	return value, ok
}

// ListTopics returns the names of all topics observed so far, sorted.
func (c *Client) ListTopics() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	topics := make([]string, 0, len(c.values))
	for topic := range c.values {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}
