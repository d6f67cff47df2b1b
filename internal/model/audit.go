package model

import "time"

// AuditEntry models a row in the `admin_audit` table.  One row is written
// for every change an administrator makes through the console.
//
// EventID is the UUID of the originating event and is unique, so a
// redelivered message does not add a second row.  ResourceID is the
// upstream id of the changed hours or override row, 0 when unknown.
type AuditEntry struct {
    ID         uint64    // admin_audit.id
    EventID    string    // admin_audit.event_id
    Action     string    // admin_audit.action
    Resource   string    // admin_audit.resource
    ResourceID int64     // admin_audit.resource_id
    HallID     string    // admin_audit.hall_id
    Summary    string    // admin_audit.summary
    OccurredAt time.Time // admin_audit.occurred_at
}
