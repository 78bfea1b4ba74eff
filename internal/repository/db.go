package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGINT AUTO_INCREMENT PRIMARY KEY,
	name          VARCHAR(255) NOT NULL,
	email         VARCHAR(255) NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS tasks (
	id          CHAR(36) PRIMARY KEY,
	user_id     BIGINT NOT NULL,
	title       VARCHAR(255) NOT NULL,
	description TEXT NOT NULL,
	priority    VARCHAR(16) NOT NULL,
	status      VARCHAR(16) NOT NULL,
	deadline    DATETIME NOT NULL,
	completed   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	INDEX idx_tasks_user_deadline (user_id, deadline)
);
CREATE TABLE IF NOT EXISTS snippets (
	id         CHAR(36) PRIMARY KEY,
	user_id    BIGINT NOT NULL,
	title      VARCHAR(255) NOT NULL,
	category   VARCHAR(255) NOT NULL,
	language   VARCHAR(64) NOT NULL,
	snippet    TEXT NOT NULL,
	views      BIGINT NOT NULL DEFAULT 0,
	downloads  BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	INDEX idx_snippets_user (user_id)
);`

// NewDB creates a new MySQL database connection pool with the given DSN.
// The DSN must include parseTime=true so DATETIME columns scan into time.Time.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return db, nil
}

// createTables creates the schema if it does not exist. MySQL executes one
// statement per Exec call, so the schema is split on statement boundaries.
func createTables(db *sql.DB) error {
	for _, stmt := range splitStatements(schema) {
		if _, err := db.ExecContext(context.Background(), stmt); err != nil {
			return err
		}
	}
	return nil
}

func splitStatements(s string) []string {
	var stmts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ';' {
			if stmt := s[start:i]; len(stmt) > 1 {
				stmts = append(stmts, stmt)
			}
			start = i + 1
		}
	}
	return stmts
}
