package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// MQTT Configuration
	MQTTBroker   string
	MQTTClientID string
	MQTTUsername string
	MQTTPassword string

	// Topics
	MQTTTopicMotion   string
	MQTTTopicActivity string

	// Pipeline Configuration
	SampleRate       int     // expected samples per second = buffer capacity
	TickSeconds      int     // classification interval
	SecondWindowSize int     // second labels per 10-second block
	BlockWindowSize  int     // block labels per minute
	StandingMin      float64 // classification thresholds (inclusive lower bounds)
	WalkingMin       float64
	RunningMin       float64

	// Activity Log Configuration
	ActivityLogPath string

	// ClickHouse Configuration (optional archive)
	ClickHouseEnabled bool
	ClickHouseAddr    string
	ClickHouseDB      string
	ClickHouseUser    string
	ClickHousePass    string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		// MQTT Configuration
		MQTTBroker:   getEnv("MQTT_BROKER", "tcp://localhost:1883"),
		MQTTClientID: getEnv("MQTT_CLIENT_ID", "calmpulse-backend"),
		MQTTUsername: getEnv("MQTT_USERNAME", ""),
		MQTTPassword: getEnv("MQTT_PASSWORD", ""),

		// Topics
		MQTTTopicMotion:   getEnv("MQTT_TOPIC_MOTION", "sensor/motion"),
		MQTTTopicActivity: getEnv("MQTT_TOPIC_ACTIVITY", "activity/state"),

		// Pipeline Configuration
		SampleRate:       getEnvInt("SAMPLE_RATE", 10),
		TickSeconds:      getEnvInt("TICK_SECONDS", 1),
		SecondWindowSize: getEnvInt("SECOND_WINDOW_SIZE", 10),
		BlockWindowSize:  getEnvInt("BLOCK_WINDOW_SIZE", 6),
		StandingMin:      getEnvFloat("THRESHOLD_STANDING_MIN", 0.5),
		WalkingMin:       getEnvFloat("THRESHOLD_WALKING_MIN", 2.0),
		RunningMin:       getEnvFloat("THRESHOLD_RUNNING_MIN", 6.0),

		// Activity Log Configuration
		ActivityLogPath: getEnv("ACTIVITY_LOG_PATH", "activity_log.json"),

		// ClickHouse Configuration
		ClickHouseEnabled: getEnvBool("CLICKHOUSE_ENABLED", false),
		ClickHouseAddr:    getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDB:      getEnv("CLICKHOUSE_DB", "calmpulse"),
		ClickHouseUser:    getEnv("CLICKHOUSE_USER", "default"),
		ClickHousePass:    getEnv("CLICKHOUSE_PASS", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: failed to parse %s as int, using default: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Warning: failed to parse %s as float, using default: %v", key, err)
		return defaultValue
	}
	return floatValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: failed to parse %s as bool, using default: %v", key, err)
		return defaultValue
	}
	return boolValue
}
