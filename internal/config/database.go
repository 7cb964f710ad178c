package config

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB) error {
	// Create users table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			surname VARCHAR(255) NOT NULL DEFAULT '',
			patronymic VARCHAR(255) NOT NULL DEFAULT '',
			password VARCHAR(255) NOT NULL,
			role VARCHAR(10) NOT NULL,
			rating INT,
			blocked BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create products table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) UNIQUE NOT NULL,
			measure VARCHAR(10) NOT NULL,
			amount BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create harvest_rates table. Old rows are kept: the newest row per
	// product is the active quota.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS harvest_rates (
			id VARCHAR(36) PRIMARY KEY,
			product_id VARCHAR(36) NOT NULL REFERENCES products(id),
			amount BIGINT NOT NULL CHECK (amount >= 0),
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create records table (append-only collection ledger)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id),
			product_id VARCHAR(36) NOT NULL REFERENCES products(id),
			amount BIGINT NOT NULL CHECK (amount > 0),
			date DATE NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_records_user_id ON records(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_records_date ON records(date)",
		"CREATE INDEX IF NOT EXISTS idx_harvest_rates_product ON harvest_rates(product_id, created_at)",
	}

	for _, idx := range indexes {
		_, err = db.Exec(idx)
		if err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
			// Don't return error here, indexes are not critical
		}
	}

	return nil
}
