// Package main is the entry point for the converter service: it bridges MQTT
// topics to the HTTP surface the bot polls.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"mqwatch/converter/api"
	"mqwatch/converter/config"
	"mqwatch/converter/mqtt"
	"mqwatch/logger"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	logger.InitLogger(logging.INFO)

	client := mqtt.NewClient(
		config.GetMqttAddress(),
		config.GetMqttPort(),
		config.GetMqttUsername(),
		config.GetMqttPassword(),
		config.GetMqttTopics(),
	)
	if err := client.Run(); err != nil {
		log.Fatalf("Failed to connect to MQTT broker: %v", err)
	}

	server := api.NewServer(config.GetListenPort(), client)
	go func() {
		if err := server.Start(); err != nil {
			logger.Warning("bridge API stopped:", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	server.Stop()
	client.Stop()
	logger.CloseLogger()
}
