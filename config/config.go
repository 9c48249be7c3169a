package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("MQW_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("MQW_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("MQW_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/mqwatch"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("MQW_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

// GetBotToken returns the Telegram bot API token. Empty when unset.
func GetBotToken() string {
	return os.Getenv("BOT_TOKEN")
}

// GetAdminIds parses ADMIN_IDS, a comma-separated list of Telegram chat ids.
// Malformed entries are skipped.
func GetAdminIds() []int64 {
	raw := os.Getenv("ADMIN_IDS")
	if raw == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// GetBridgeAddress returns the value bridge host.
func GetBridgeAddress() string {
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = "127.0.0.1"
	}
	return address
}

// GetBridgePort returns the value bridge port.
func GetBridgePort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil || port <= 0 {
		return 8080
	}
	return port
}

// GetPollInterval returns the seconds between polling passes.
func GetPollInterval() int {
	timeout, err := strconv.Atoi(os.Getenv("SERVER_TIMEOUT"))
	if err != nil || timeout <= 0 {
		return 60
	}
	return timeout
}
