package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"calmpulse-backend/internal/models"
)

// ClickHouseDB is the optional analytic archive for classified activity.
// The JSON snapshot stays the authoritative durable log; archive failures are
// warnings, never pipeline failures.
type ClickHouseDB struct {
	conn driver.Conn
}

// NewClickHouseDB creates a new ClickHouse database connection
func NewClickHouseDB(addr, database, username, password string) (*ClickHouseDB, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout: 5 * time.Second,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// InitSchema creates the archive tables if they do not exist
func (db *ClickHouseDB) InitSchema() error {
	ctx := context.Background()

	for _, tableSQL := range AllTables() {
		if err := db.conn.Exec(ctx, tableSQL); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	log.Println("Database schema initialized successfully")
	return nil
}

// SaveSecondLabel archives one classified second
func (db *ClickHouseDB) SaveSecondLabel(timestamp time.Time, label models.ActivityLabel, meanMagnitude float64, sampleCount int) error {
	ctx := context.Background()

	query := `
		INSERT INTO activity_seconds (timestamp, label, mean_magnitude, sample_count)
		VALUES (?, ?, ?, ?)
	`

	err := db.conn.Exec(ctx, query,
		timestamp,
		string(label),
		meanMagnitude,
		uint32(sampleCount),
	)

	if err != nil {
		return fmt.Errorf("failed to insert second label: %w", err)
	}

	return nil
}

// SaveMinuteEntry archives one finalized minute entry
func (db *ClickHouseDB) SaveMinuteEntry(timestamp time.Time, label models.ActivityLabel) error {
	ctx := context.Background()

	query := `
		INSERT INTO activity_minutes (timestamp, label)
		VALUES (?, ?)
	`

	err := db.conn.Exec(ctx, query,
		timestamp,
		string(label),
	)

	if err != nil {
		return fmt.Errorf("failed to insert minute entry: %w", err)
	}

	return nil
}

// Close closes the database connection
func (db *ClickHouseDB) Close() error {
	return db.conn.Close()
}
