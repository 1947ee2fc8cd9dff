package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"calmpulse-backend/internal/models"
)

// Publisher republishes each finalized minute entry on the activity state
// topic so live consumers (dashboards) can follow the log without reading
// the snapshot file.
type Publisher struct {
	client mqtt.Client

	// Input channel (read by publisher, written by the activity service)
	EntryChan chan *models.MinuteLogEntry

	activityTopic string
}

// PublisherConfig holds configuration for the MQTT publisher
type PublisherConfig struct {
	ActivityTopic string // e.g., "activity/state"
}

// NewPublisher creates a new MQTT publisher reading from entryChan
func NewPublisher(client mqtt.Client, config PublisherConfig, entryChan chan *models.MinuteLogEntry) *Publisher {
	return &Publisher{
		client:        client,
		EntryChan:     entryChan,
		activityTopic: config.ActivityTopic,
	}
}

// Start begins publishing minute entries from the channel.
// Runs until the context is cancelled or the channel is closed.
func (p *Publisher) Start(ctx context.Context) {
	log.Println("MQTT Publisher: Starting...")

	for {
		select {
		case <-ctx.Done():
			log.Println("MQTT Publisher: Context cancelled, shutting down...")
			return

		case entry, ok := <-p.EntryChan:
			if !ok {
				log.Println("MQTT Publisher: Entry channel closed, shutting down...")
				return
			}

			if err := p.publishEntry(entry); err != nil {
				log.Printf("Error publishing minute entry: %v", err)
			}
		}
	}
}

// publishEntry publishes one minute entry as JSON
func (p *Publisher) publishEntry(entry *models.MinuteLogEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal minute entry: %w", err)
	}

	token := p.client.Publish(p.activityTopic, 1, false, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to publish minute entry: %w", token.Error())
	}

	log.Printf("Published %s minute entry to topic: %s", entry.Activity, p.activityTopic)
	return nil
}
