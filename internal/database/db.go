package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/fivec-menu/internal/config"
)

// Open connects to MySQL and verifies the connection.
func Open(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	auth := cfg.User
	if cfg.Pass != "" {
		auth = fmt.Sprintf("%s:%s", cfg.User, cfg.Pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, cfg.Host, cfg.Port, cfg.Name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// the audit log is low traffic
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const auditSchema = `CREATE TABLE IF NOT EXISTS admin_audit (
	id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	event_id    CHAR(36)     NOT NULL,
	action      VARCHAR(16)  NOT NULL,
	resource    VARCHAR(16)  NOT NULL,
	resource_id BIGINT       NOT NULL DEFAULT 0,
	hall_id     VARCHAR(64)  NOT NULL DEFAULT '',
	summary     VARCHAR(255) NOT NULL DEFAULT '',
	occurred_at DATETIME     NOT NULL,
	UNIQUE KEY uq_admin_audit_event (event_id),
	KEY idx_admin_audit_occurred (occurred_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// EnsureSchema creates the admin_audit table when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, auditSchema); err != nil {
		return fmt.Errorf("create admin_audit: %w", err)
	}
	return nil
}
