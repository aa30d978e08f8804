package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cam-hm/vietnamese-tts/internal/data"
	"github.com/cam-hm/vietnamese-tts/internal/speech"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	config := LoadServerConfig()
	logger := InitLogger(config.Environment)

	provider, err := speech.NewProvider(context.Background(), GetEnvWithDefault("TTS_PROVIDER", "cartesia"))
	if err != nil {
		logger.Fatal("provider initialization failed: ", err)
	}

	var repo *data.Repository
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			logger.Fatal("database connection failed: ", err)
		}

		repo = data.NewRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			logger.Fatal("database migration failed: ", err)
		}
	} else {
		logger.Println("DATABASE_URL not set, synthesis history disabled")
	}

	server := NewServer(config, provider, repo, logger)
	srv := &http.Server{
		Addr:         config.Port,
		Handler:      server.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	go func() {
		logger.Printf("server starting on port %s with provider %s", config.Port, provider.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server startup failed: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Printf("shutdown signal received: %v", sig)

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown: ", err)
	}

	logger.Println("server stopped")
}
