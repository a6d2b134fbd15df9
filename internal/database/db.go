package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// Bootstrap creates the two generic sheet relations the MySQL row store
// runs on.  Both statements are idempotent; rows carry JSON cells keyed by
// header name so the column set stays as dynamic as the spreadsheet's.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sheet_headers (
			tbl     VARCHAR(64) NOT NULL PRIMARY KEY,
			headers JSON        NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sheet_rows (
			tbl  VARCHAR(64) NOT NULL,
			pos  INT         NOT NULL,
			data JSON        NOT NULL,
			PRIMARY KEY (tbl, pos)
		)`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
	}
	return nil
}
