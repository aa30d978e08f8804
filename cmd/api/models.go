package main

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/cam-hm/vietnamese-tts/internal/data"
	"github.com/cam-hm/vietnamese-tts/internal/speech"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type ValidationResponse struct {
	Detail []speech.FieldError `json:"detail"`
}

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
	Environment     string
	AllowedOrigins  []string
	StaticDir       string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

type Server struct {
	config   *ServerConfig
	router   *gin.Engine
	provider speech.Provider
	repo     *data.Repository
	logger   *log.Logger
	metrics  *Metrics
}

type Metrics struct {
	RequestCount   atomic.Int64
	ErrorCount     atomic.Int64
	SynthesisCount atomic.Int64
}

type MetricsSnapshot struct {
	RequestCount   int64 `json:"request_count"`
	ErrorCount     int64 `json:"error_count"`
	SynthesisCount int64 `json:"synthesis_count"`
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		RequestCount:   m.RequestCount.Load(),
		ErrorCount:     m.ErrorCount.Load(),
		SynthesisCount: m.SynthesisCount.Load(),
	}
}

func LoadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            GetEnvWithDefault("PORT", ":8080"),
		ShutdownTimeout: time.Duration(GetEnvAsIntWithDefault("SHUTDOWN_TIMEOUT_SECONDS", 5)) * time.Second,
		Environment:     GetEnvWithDefault("ENVIRONMENT", "development"),
		AllowedOrigins:  GetEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		StaticDir:       GetEnvWithDefault("STATIC_DIR", "./static"),
		ReadTimeout:     time.Duration(GetEnvAsIntWithDefault("READ_TIMEOUT_SECONDS", 5)) * time.Second,
		WriteTimeout:    time.Duration(GetEnvAsIntWithDefault("WRITE_TIMEOUT_SECONDS", 60)) * time.Second,
		IdleTimeout:     time.Duration(GetEnvAsIntWithDefault("IDLE_TIMEOUT_SECONDS", 120)) * time.Second,
	}
}

// repo may be nil, in which case synthesis history is disabled.
func NewServer(config *ServerConfig, provider speech.Provider, repo *data.Repository, logger *log.Logger) *Server {
	if config.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:   config,
		router:   gin.New(),
		provider: provider,
		repo:     repo,
		logger:   logger,
		metrics:  &Metrics{},
	}

	s.SetupMiddleware()
	s.SetupRoutes()

	return s
}
