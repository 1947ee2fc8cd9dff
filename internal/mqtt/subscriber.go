package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"calmpulse-backend/internal/models"
)

// Subscriber consumes raw motion samples from the sensor topic and writes
// them to a channel read by the activity service. One message carries one
// sample; malformed messages are logged and dropped without touching
// pipeline state.
type Subscriber struct {
	client mqtt.Client

	// Output channel (written by subscriber, read by the activity service)
	SampleChan chan *models.MotionSample

	motionTopic string
}

// SubscriberConfig holds configuration for the MQTT subscriber
type SubscriberConfig struct {
	MotionTopic string // e.g., "sensor/motion"
}

// NewSubscriber creates a new MQTT subscriber writing to sampleChan
func NewSubscriber(client mqtt.Client, config SubscriberConfig, sampleChan chan *models.MotionSample) *Subscriber {
	return &Subscriber{
		client:      client,
		SampleChan:  sampleChan,
		motionTopic: config.MotionTopic,
	}
}

// Subscribe subscribes to the motion sample topic
func (s *Subscriber) Subscribe() error {
	token := s.client.Subscribe(s.motionTopic, 1, s.handleMotion)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to motion topic: %w", token.Error())
	}
	log.Printf("Subscribed to motion topic: %s", s.motionTopic)
	return nil
}

// handleMotion parses a motion sample message and writes it to the channel
func (s *Subscriber) handleMotion(client mqtt.Client, msg mqtt.Message) {
	sample, err := ParseMotionSample(msg.Payload())
	if err != nil {
		log.Printf("Dropping malformed motion sample: %v", err)
		return
	}

	// Write to channel (non-blocking with timeout)
	select {
	case s.SampleChan <- sample:
		// Successfully sent
	case <-time.After(1 * time.Second):
		log.Printf("Warning: Sample channel full, dropping motion sample")
	}
}

// ParseMotionSample decodes a message payload into a motion sample. Both the
// {"x":..,"y":..,"z":..} object form and a bare three-element array are
// accepted; non-finite components are rejected.
func ParseMotionSample(payload []byte) (*models.MotionSample, error) {
	var sample models.MotionSample
	if err := json.Unmarshal(payload, &sample); err != nil {
		var vec []float64
		if arrErr := json.Unmarshal(payload, &vec); arrErr != nil || len(vec) != 3 {
			return nil, fmt.Errorf("failed to parse motion sample: %w", err)
		}
		sample = models.MotionSample{X: vec[0], Y: vec[1], Z: vec[2]}
	}

	for _, v := range []float64{sample.X, sample.Y, sample.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("motion sample has non-finite component: %v", v)
		}
	}

	return &sample, nil
}
