// Package bridge provides the read-only client for the value bridge, the HTTP
// front end caching the last observed value of every telemetry topic.
package bridge

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrTopicNotFound is returned by GetValue when the bridge has never observed
// the topic.
var ErrTopicNotFound = errors.New("topic not found")

// Client is a stateless read-through client for the value bridge. Safe for
// concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(host string, port int) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://%s:%d", host, port),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ListTopics returns the topic names the bridge currently knows. An empty
// response body means no topics.
func (c *Client) ListTopics() ([]string, error) {
	body, status, err := c.get(c.baseURL + "/list_topics")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("list_topics: unexpected status %d", status)
	}
	if body == "" {
		return nil, nil
	}
	return strings.Split(body, ","), nil
}

// GetValue returns the latest known value of topic as text.
func (c *Client) GetValue(topic string) (string, error) {
	query := url.Values{}
	query.Set("topic", topic)
	body, status, err := c.get(c.baseURL + "/get_value?" + query.Encode())
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound {
		return "", ErrTopicNotFound
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("get_value: unexpected status %d", status)
	}
	return body, nil
}

func (c *Client) get(url string) (string, int, error) {
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}
	return string(body), resp.StatusCode, nil
}
