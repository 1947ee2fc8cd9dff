package database

// SQL schemas for the ClickHouse activity archive tables

const (
	// ActivitySecondsTableSQL creates the activity_seconds table
	ActivitySecondsTableSQL = `
		CREATE TABLE IF NOT EXISTS activity_seconds (
			timestamp DateTime64(3),
			label String,
			mean_magnitude Float64,
			sample_count UInt32
		) ENGINE = MergeTree()
		ORDER BY timestamp
		PARTITION BY toYYYYMM(timestamp)
	`

	// ActivityMinutesTableSQL creates the activity_minutes table
	ActivityMinutesTableSQL = `
		CREATE TABLE IF NOT EXISTS activity_minutes (
			timestamp DateTime64(3),
			label String
		) ENGINE = MergeTree()
		ORDER BY timestamp
		PARTITION BY toYYYYMM(timestamp)
	`
)

// AllTables returns all table creation SQL statements
func AllTables() []string {
	return []string{
		ActivitySecondsTableSQL,
		ActivityMinutesTableSQL,
	}
}
