package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema DDL per driver.  Statements are idempotent so CreateSchema can run
// on every start; there is no migration step.
var schemaDDL = map[string][]string{
	"sqlite": {
		`CREATE TABLE IF NOT EXISTS movies (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title VARCHAR(200) NOT NULL,
    year INTEGER NOT NULL,
    genre VARCHAR(50) NOT NULL,
    poster VARCHAR(500) NOT NULL,
    plot TEXT NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS reviews (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    movie_id INTEGER NOT NULL REFERENCES movies(id),
    reviewer_name VARCHAR(100) NOT NULL,
    rating INTEGER NOT NULL,
    comment TEXT NOT NULL,
    created_at DATETIME NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_movie_id ON reviews(movie_id)`,
	},
	"mysql": {
		`CREATE TABLE IF NOT EXISTS movies (
    id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
    title VARCHAR(200) NOT NULL,
    year INT NOT NULL,
    genre VARCHAR(50) NOT NULL,
    poster VARCHAR(500) NOT NULL,
    plot TEXT NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS reviews (
    id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
    movie_id BIGINT NOT NULL,
    reviewer_name VARCHAR(100) NOT NULL,
    rating INT NOT NULL,
    comment TEXT NOT NULL,
    created_at DATETIME(6) NOT NULL,
    INDEX idx_reviews_movie_id (movie_id),
    CONSTRAINT fk_reviews_movie FOREIGN KEY (movie_id) REFERENCES movies(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},
}

// CreateSchema creates the movies and reviews tables if they are absent.
func CreateSchema(ctx context.Context, db *sqlx.DB) error {
	stmts, ok := schemaDDL[db.DriverName()]
	if !ok {
		return fmt.Errorf("no schema for driver %q", db.DriverName())
	}
	for _, ddl := range stmts {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
