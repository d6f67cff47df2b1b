package repository // repository holds data access logic for the admin audit log

import (
    "context"
    "database/sql"

    "github.com/iliyamo/fivec-menu/internal/model"
)

// AuditRepo reads and writes the admin_audit table.
type AuditRepo struct {
    db *sql.DB
}

// NewAuditRepo constructs an AuditRepo with the given DB handle.
func NewAuditRepo(db *sql.DB) *AuditRepo {
    return &AuditRepo{db: db}
}

// Record inserts one entry.  event_id is unique, so redelivered queue
// messages are ignored rather than duplicated.
func (r *AuditRepo) Record(ctx context.Context, e model.AuditEntry) error {
    if r == nil || r.db == nil {
        return ErrNoStore
    }
    const q = `INSERT IGNORE INTO admin_audit (event_id, action, resource, resource_id, hall_id, summary, occurred_at)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
    _, err := r.db.ExecContext(ctx, q, e.EventID, e.Action, e.Resource, e.ResourceID, e.HallID, e.Summary, e.OccurredAt.UTC())
    return err
}

// Recent returns up to limit entries, newest first.
func (r *AuditRepo) Recent(ctx context.Context, limit int) ([]model.AuditEntry, error) {
    if r == nil || r.db == nil {
        return nil, ErrNoStore
    }
    if limit <= 0 || limit > 500 {
        limit = 100
    }
    const q = `SELECT id, event_id, action, resource, resource_id, hall_id, summary, occurred_at
               FROM admin_audit ORDER BY occurred_at DESC, id DESC LIMIT ?`
    rows, err := r.db.QueryContext(ctx, q, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []model.AuditEntry
    for rows.Next() {
        var e model.AuditEntry
        if err := rows.Scan(&e.ID, &e.EventID, &e.Action, &e.Resource, &e.ResourceID, &e.HallID, &e.Summary, &e.OccurredAt); err != nil {
            return nil, err
        }
        out = append(out, e)
    }
    return out, rows.Err()
}
