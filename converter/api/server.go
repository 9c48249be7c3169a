// Package api exposes the last-value cache over the bridge HTTP surface
// consumed by the bot.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mqwatch/logger"

	"github.com/gin-gonic/gin"
)

// ValueSource is the topic cache the server reads. Implemented by the MQTT
// client.
type ValueSource interface {
	ListTopics() []string
	GetValue(topic string) (string, bool)
}

// Server serves GET /list_topics and GET /get_value?topic= over the cache.
type Server struct {
	port       int
	source     ValueSource
	httpServer *http.Server
}

func NewServer(port int, source ValueSource) *Server {
	return &Server{
		port:   port,
		source: source,
	}
}

func (s *Server) router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/list_topics", s.listTopics)
	router.GET("/get_value", s.getValue)
	return router
}

// Start starts the HTTP server. Blocks until the server stops.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	router := s.router()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Infof("Bridge API listening on port %d", s.port)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() {
	if s.httpServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Warning("bridge API shutdown:", err)
	}
}

// listTopics responds with the known topic names, comma-separated. An empty
// body means no topics.
func (s *Server) listTopics(c *gin.Context) {
	c.String(http.StatusOK, strings.Join(s.source.ListTopics(), ","))
}

// getValue responds with the latest value of the requested topic as plain
// text, or 404 when the topic was never observed.
func (s *Server) getValue(c *gin.Context) {
	topic := c.Query("topic")
	value, ok := s.source.GetValue(topic)
	if !ok {
		c.String(http.StatusNotFound, "Topic %q not found", topic)
		return
	}
	c.String(http.StatusOK, value)
}
