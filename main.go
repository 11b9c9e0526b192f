package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"worldstats/internal/config"
	"worldstats/internal/container"

	"github.com/joho/godotenv"
)

func main() {
	forceEmail := flag.Bool("force-email", false, "Force send email regardless of the send interval")
	flag.Parse()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	c, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("World Analytics Production Service started at %s", time.Now().Format("2006-01-02 15:04:05"))

	result, err := c.Production.Run(ctx, c.AggregationRequest(), *forceEmail)
	if err != nil {
		log.Printf("Analytics processing failed: %v", err)
		stop()
		os.Exit(1)
	}

	status := 0
	if result.EmailErr != nil {
		log.Println("Production service completed with email issues.")
		status = 1
	} else {
		log.Println("Production service completed successfully.")
	}
	log.Printf("Finished at %s", time.Now().Format("2006-01-02 15:04:05"))
	stop()
	os.Exit(status)
}
