package service

import (
	"os"
	"path/filepath"
	"testing"

	"mqwatch/database"
	"mqwatch/logger"

	"github.com/op/go-logging"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "mqwatch-service-test")
	if err != nil {
		panic(err)
	}

	os.Setenv("MQW_LOG_FOLDER", dir)
	logger.InitLogger(logging.DEBUG)

	if err := database.InitDB(filepath.Join(dir, "test.db")); err != nil {
		panic(err)
	}

	code := m.Run()

	database.CloseDB()
	os.RemoveAll(dir)
	os.Exit(code)
}
