package queue

import (
    "context"
    "fmt"
    "os"
    "path/filepath"
    "sync"
    "time"

    "github.com/iliyamo/fivec-menu/internal/model"
)

// FileSink appends audit entries to a log file, one line each, and keeps
// the most recent entries in memory for the activity page.  It is used
// when no database is configured.
type FileSink struct {
    path string
    keep int

    mu     sync.Mutex
    seen   map[string]bool
    recent []model.AuditEntry
}

// NewFileSink creates the parent directory of path.
func NewFileSink(path string, keep int) (*FileSink, error) {
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
    }
    if keep <= 0 {
        keep = 100
    }
    return &FileSink{path: path, keep: keep, seen: map[string]bool{}}, nil
}

// Record appends e unless its EventID was already recorded by this sink.
func (s *FileSink) Record(_ context.Context, e model.AuditEntry) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    if s.seen[e.EventID] {
        return nil
    }

    f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open audit log: %w", err)
    }
    defer f.Close()

    line := fmt.Sprintf("[%s] %s %s | id=%d | hall=%q | event=%s | %s\n",
        e.OccurredAt.UTC().Format(time.RFC3339), e.Action, e.Resource, e.ResourceID, e.HallID, e.EventID, e.Summary)
    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write audit log: %w", err)
    }

    s.seen[e.EventID] = true
    s.recent = append(s.recent, e)
    if len(s.recent) > s.keep {
        drop := s.recent[0]
        delete(s.seen, drop.EventID)
        s.recent = s.recent[1:]
    }
    return nil
}

// Recent returns up to limit entries, newest first.
func (s *FileSink) Recent(_ context.Context, limit int) ([]model.AuditEntry, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    n := len(s.recent)
    if limit <= 0 || limit > n {
        limit = n
    }
    out := make([]model.AuditEntry, 0, limit)
    for i := n - 1; i >= n-limit; i-- {
        out = append(out, s.recent[i])
    }
    return out, nil
}
