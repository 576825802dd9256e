package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatroom/internal/config"
	"chatroom/internal/dbmongo"
	"chatroom/internal/logger"
	"chatroom/internal/media"
)

func main() {
	cfg := config.LoadConfig()

	closer, err := logger.Init(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer closer.Close()

	mongoClient, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Close(context.Background())

	srv := &http.Server{
		Addr:         ":" + cfg.Server.MediaServicePort,
		Handler:      media.NewHTTPServer(dbmongo.NewMediaStorage(mongoClient)),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Media HTTP server starting on port %s", cfg.Server.MediaServicePort)
		log.Printf("Serving files at: %s/{fileId}", cfg.Server.MediaBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Media server stopped")
}
