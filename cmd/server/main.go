package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/infrastructure/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "Boot file (.yaml, .toml or .json); overrides "+config.FileEnv)
	port := flag.String("port", "", "Server port; overrides PORT")
	dev := flag.Bool("dev", false, "Development logging")
	flag.Parse()

	if *configPath != "" {
		if err := os.Setenv(config.FileEnv, *configPath); err != nil {
			log.Fatalf("Failed to set %s: %v", config.FileEnv, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutting down gracefully...")
	case err := <-errChan:
		if err != nil {
			log.Printf("Server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	if err := srv.Close(); err != nil {
		log.Printf("Error during close: %v", err)
	}
}
