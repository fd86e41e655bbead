package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered schema history. Entries are append-only.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_analysis_runs",
		SQL: `
			CREATE TABLE IF NOT EXISTS analysis_runs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL DEFAULT '',
				route_path TEXT NOT NULL DEFAULT '',
				raster_path TEXT NOT NULL,
				segment_length REAL NOT NULL,
				slope_threshold REAL NOT NULL,
				buffer_offset REAL NOT NULL,
				attribute_field TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'pending',
				error_message TEXT NOT NULL DEFAULT '',
				routes_total INTEGER NOT NULL DEFAULT 0,
				routes_analyzed INTEGER NOT NULL DEFAULT 0,
				routes_skipped INTEGER NOT NULL DEFAULT 0,
				routes_failed INTEGER NOT NULL DEFAULT 0,
				total_length REAL NOT NULL DEFAULT 0,
				acceptable_length REAL NOT NULL DEFAULT 0,
				warning_length REAL NOT NULL DEFAULT 0,
				steep_length REAL NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)
		`,
	},
	{
		Version: 2,
		Name:    "create_run_segments",
		SQL: `
			CREATE TABLE IF NOT EXISTS run_segments (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_id INTEGER NOT NULL,
				route_index INTEGER NOT NULL,
				seq INTEGER NOT NULL,
				segment_key TEXT NOT NULL,
				start_x REAL NOT NULL,
				start_y REAL NOT NULL,
				end_x REAL NOT NULL,
				end_y REAL NOT NULL,
				mid_x REAL NOT NULL,
				mid_y REAL NOT NULL,
				length_meters REAL NOT NULL,
				elevation_delta REAL NOT NULL,
				slope_ratio REAL NOT NULL,
				grade_label TEXT NOT NULL,
				category TEXT NOT NULL,
				attribute TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (run_id) REFERENCES analysis_runs(id) ON DELETE CASCADE
			)
		`,
	},
	{
		Version: 3,
		Name:    "index_run_segments_run",
		SQL: `
			CREATE INDEX IF NOT EXISTS idx_run_segments_run
				ON run_segments(run_id, route_index, seq)
		`,
	},
	{
		Version: 4,
		Name:    "index_run_segments_category",
		SQL: `
			CREATE INDEX IF NOT EXISTS idx_run_segments_category
				ON run_segments(run_id, category)
		`,
	},
}

// Migrate applies all pending migrations to the database.
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		if _, err := db.Exec(m.SQL); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := db.Exec(
			"INSERT INTO migrations (version, name) VALUES (?, ?)",
			m.Version, m.Name,
		); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}

		log.Printf("[Migrate] Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}
