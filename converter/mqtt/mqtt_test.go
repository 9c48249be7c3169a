package mqtt

import (
	"os"
	"reflect"
	"testing"

	"mqwatch/logger"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/op/go-logging"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "mqwatch-mqtt-test")
	if err != nil {
		panic(err)
	}

	os.Setenv("MQW_LOG_FOLDER", dir)
	logger.InitLogger(logging.DEBUG)

	code := m.Run()

	os.RemoveAll(dir)
	os.Exit(code)
}

// fakeMessage implements paho.Message for feeding onMessage directly.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 0 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 0 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

var _ paho.Message = (*fakeMessage)(nil)

func TestCacheKeepsLastValue(t *testing.T) {
	client := NewClient("127.0.0.1", 1883, "", "", nil)

	client.onMessage(nil, &fakeMessage{topic: "garage/temp", payload: []byte("20.1")})
	client.onMessage(nil, &fakeMessage{topic: "garage/temp", payload: []byte("21.5")})

	value, ok := client.GetValue("garage/temp")
	if !ok {
		t.Fatal("GetValue() reported topic as unknown")
	}
	if value != "21.5" {
		t.Errorf("GetValue() = %q, expected the last payload %q", value, "21.5")
	}
}

func TestGetValueUnknownTopic(t *testing.T) {
	client := NewClient("127.0.0.1", 1883, "", "", nil)

	if _, ok := client.GetValue("never/seen"); ok {
		t.Error("GetValue() reported presence for an unobserved topic")
	}
}

func TestListTopicsSorted(t *testing.T) {
	client := NewClient("127.0.0.1", 1883, "", "", nil)

	client.onMessage(nil, &fakeMessage{topic: "b/two", payload: []byte("2")})
	client.onMessage(nil, &fakeMessage{topic: "a/one", payload: []byte("1")})
	client.onMessage(nil, &fakeMessage{topic: "c/three", payload: []byte("3")})

	topics := client.ListTopics()
	expected := []string{"a/one", "b/two", "c/three"}
	if !reflect.DeepEqual(topics, expected) {
		t.Errorf("ListTopics() = %v, expected %v", topics, expected)
	}
}

func TestListTopicsEmpty(t *testing.T) {
	client := NewClient("127.0.0.1", 1883, "", "", nil)

	if topics := client.ListTopics(); len(topics) != 0 {
		t.Errorf("ListTopics() = %v, expected none", topics)
	}
}
