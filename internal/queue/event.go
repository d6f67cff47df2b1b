// Package queue defines the admin audit event and the consumer that stores
// it.  Every change an administrator makes through the console is
// published as an AdminChangeEvent so the activity page can show who
// changed what without asking the API.
package queue

import (
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/fivec-menu/internal/model"
)

// AuditQueueName is the durable queue carrying AdminChangeEvent messages.
const AuditQueueName = "admin.changes"

// Actions and resources used in events.
const (
    ActionCreate = "create"
    ActionUpdate = "update"
    ActionDelete = "delete"

    ResourceHours    = "hours"
    ResourceOverride = "override"
)

// AdminChangeEvent is published after a successful admin write.  Session
// is the SHA-256 of the admin session, never the raw cookie.
type AdminChangeEvent struct {
    ID         string    `json:"id"`
    Action     string    `json:"action"`
    Resource   string    `json:"resource"`
    ResourceID int64     `json:"resource_id"`
    HallID     string    `json:"hall_id"`
    Summary    string    `json:"summary"`
    Session    string    `json:"session"`
    OccurredAt time.Time `json:"occurred_at"`
}

// NewAdminChangeEvent stamps a fresh id and the current UTC time.
func NewAdminChangeEvent(action, resource string, resourceID int64, hallID, summary, sessionHash string) AdminChangeEvent {
    return AdminChangeEvent{
        ID:         uuid.NewString(),
        Action:     action,
        Resource:   resource,
        ResourceID: resourceID,
        HallID:     hallID,
        Summary:    summary,
        Session:    sessionHash,
        OccurredAt: time.Now().UTC(),
    }
}

// Entry converts the event to the stored form.
func (e AdminChangeEvent) Entry() model.AuditEntry {
    return model.AuditEntry{
        EventID:    e.ID,
        Action:     e.Action,
        Resource:   e.Resource,
        ResourceID: e.ResourceID,
        HallID:     e.HallID,
        Summary:    e.Summary,
        OccurredAt: e.OccurredAt,
    }
}
