package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calmpulse-backend/internal/aggregator"
	"calmpulse-backend/internal/database"
	"calmpulse-backend/internal/mqtt"
	"calmpulse-backend/internal/services"
	"calmpulse-backend/internal/storage"
	"calmpulse-backend/pkg/config"
)

func main() {
	log.Println("Starting CalmPulse Activity Backend...")

	// Load configuration
	cfg := config.Load()

	// Initialize the durable activity log (reloads an existing snapshot)
	writer, err := storage.NewActivityLogWriter(cfg.ActivityLogPath)
	if err != nil {
		log.Fatalf("Failed to initialize activity log: %v", err)
	}

	// Initialize optional ClickHouse archive
	var archive *database.ClickHouseDB
	if cfg.ClickHouseEnabled {
		archive, err = database.NewClickHouseDB(
			cfg.ClickHouseAddr,
			cfg.ClickHouseDB,
			cfg.ClickHouseUser,
			cfg.ClickHousePass,
		)
		if err != nil {
			log.Fatalf("Failed to initialize ClickHouse: %v", err)
		}
		defer archive.Close()

		if err := archive.InitSchema(); err != nil {
			log.Fatalf("Failed to initialize ClickHouse schema: %v", err)
		}
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === Initialize Activity Pipeline ===
	log.Println("Initializing activity pipeline...")
	classifier := aggregator.NewClassifier(aggregator.Thresholds{
		StandingMin: cfg.StandingMin,
		WalkingMin:  cfg.WalkingMin,
		RunningMin:  cfg.RunningMin,
	})

	serviceConfig := services.DefaultActivityServiceConfig()
	serviceConfig.BufferCapacity = cfg.SampleRate
	serviceConfig.SecondWindowSize = cfg.SecondWindowSize
	serviceConfig.BlockWindowSize = cfg.BlockWindowSize
	serviceConfig.TickInterval = time.Duration(cfg.TickSeconds) * time.Second

	activityService := services.NewActivityService(classifier, writer, archive, serviceConfig)

	// === Initialize MQTT Client ===
	log.Println("Connecting to MQTT broker...")
	mqttClient, err := mqtt.NewClient(mqtt.ClientConfig{
		Broker:   cfg.MQTTBroker,
		ClientID: cfg.MQTTClientID,
		Username: cfg.MQTTUsername,
		Password: cfg.MQTTPassword,
	})
	if err != nil {
		log.Fatalf("Failed to initialize MQTT client: %v", err)
	}
	defer mqttClient.Close()

	// === Initialize MQTT Subscriber ===
	subscriber := mqtt.NewSubscriber(
		mqttClient.NativeClient(),
		mqtt.SubscriberConfig{MotionTopic: cfg.MQTTTopicMotion},
		activityService.SampleChan,
	)
	if err := subscriber.Subscribe(); err != nil {
		log.Fatalf("Failed to subscribe to MQTT topics: %v", err)
	}

	// === Initialize MQTT Publisher ===
	publisher := mqtt.NewPublisher(
		mqttClient.NativeClient(),
		mqtt.PublisherConfig{ActivityTopic: cfg.MQTTTopicActivity},
		activityService.EntryChan,
	)
	go publisher.Start(ctx)

	// === Start Activity Pipeline ===
	pipelineDone := make(chan struct{})
	go func() {
		activityService.Start(ctx)
		close(pipelineDone)
	}()

	// === Log startup info ===
	log.Println("=== CalmPulse Activity Backend is running ===")
	log.Printf("Sample rate: %d Hz, tick: %ds, windows: %d seconds -> block, %d blocks -> minute",
		cfg.SampleRate, cfg.TickSeconds, cfg.SecondWindowSize, cfg.BlockWindowSize)
	log.Printf("Classification thresholds: standing>=%.2f, walking>=%.2f, running>=%.2f",
		cfg.StandingMin, cfg.WalkingMin, cfg.RunningMin)
	log.Printf("MQTT Topics:")
	log.Printf("  - Motion samples: %s", cfg.MQTTTopicMotion)
	log.Printf("  - Activity state: %s", cfg.MQTTTopicActivity)
	log.Printf("Activity log: %s", cfg.ActivityLogPath)
	if cfg.ClickHouseEnabled {
		log.Printf("ClickHouse archive: %s/%s", cfg.ClickHouseAddr, cfg.ClickHouseDB)
	}
	log.Println("Press Ctrl+C to exit...")

	// === Wait for interrupt signal ===
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// === Graceful shutdown ===
	log.Println("Shutdown signal received, stopping pipeline...")
	cancel()

	// Wait for the in-flight tick and any pending log write to finish
	<-pipelineDone

	log.Println("Shutdown complete. Goodbye!")
}
