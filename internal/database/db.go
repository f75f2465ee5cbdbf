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

// schema lists idempotent DDL for every table the service uses. Statements
// run one by one at startup so a fresh database is usable without external
// migration tooling.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(50)  NOT NULL,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS magazines (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name        VARCHAR(100) NOT NULL,
		description VARCHAR(255) NOT NULL,
		base_price  DOUBLE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS plans (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title          VARCHAR(100) NOT NULL,
		description    VARCHAR(255) NOT NULL,
		renewal_period INT NOT NULL,
		tier           INT NOT NULL,
		discount       DOUBLE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id      BIGINT UNSIGNED NOT NULL,
		magazine_id  BIGINT UNSIGNED NOT NULL,
		plan_id      BIGINT UNSIGNED NOT NULL,
		renewal_date DATE NOT NULL,
		price        DOUBLE NOT NULL,
		is_active    BOOLEAN NOT NULL DEFAULT TRUE,
		CONSTRAINT fk_sub_user     FOREIGN KEY (user_id)     REFERENCES users(id),
		CONSTRAINT fk_sub_magazine FOREIGN KEY (magazine_id) REFERENCES magazines(id),
		CONSTRAINT fk_sub_plan     FOREIGN KEY (plan_id)     REFERENCES plans(id)
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL UNIQUE,
		expires_at DATETIME NULL,
		revoked_at DATETIME NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_rt_user FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
}

// EnsureSchema creates any missing tables.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
