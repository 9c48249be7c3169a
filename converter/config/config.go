// Package config provides environment-sourced configuration for the
// converter service.
package config

import (
	"os"
	"strconv"
	"strings"
)

// GetMqttAddress returns the MQTT broker host.
func GetMqttAddress() string {
	address := os.Getenv("MQTT_ADDRESS")
	if address == "" {
		address = "127.0.0.1"
	}
	return address
}

// GetMqttPort returns the MQTT broker port.
func GetMqttPort() int {
	port, err := strconv.Atoi(os.Getenv("MQTT_PORT"))
	if err != nil || port <= 0 {
		return 1883
	}
	return port
}

// GetMqttUsername returns the MQTT username. Empty when unset.
func GetMqttUsername() string {
	return os.Getenv("MQTT_USERNAME")
}

// GetMqttPassword returns the MQTT password. Empty when unset.
func GetMqttPassword() string {
	return os.Getenv("MQTT_PASSWORD")
}

// GetMqttTopics parses MQTT_TOPICS, a comma-separated list of topic filters
// to subscribe to.
func GetMqttTopics() []string {
	raw := os.Getenv("MQTT_TOPICS")
	if raw == "" {
		return nil
	}
	var topics []string
	for _, part := range strings.Split(raw, ",") {
		topic := strings.TrimSpace(part)
		if topic != "" {
			topics = append(topics, topic)
		}
	}
	return topics
}

// GetListenPort returns the HTTP API port.
func GetListenPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil || port <= 0 {
		return 8080
	}
	return port
}
