package queue

import (
    "context"
    "encoding/json"
    "errors"
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/fivec-menu/internal/model"
)

type memSink struct {
    entries []model.AuditEntry
    err     error
}

func (m *memSink) Record(_ context.Context, e model.AuditEntry) error {
    if m.err != nil {
        return m.err
    }
    m.entries = append(m.entries, e)
    return nil
}

func TestHandleMessageRecords(t *testing.T) {
    ev := NewAdminChangeEvent(ActionCreate, ResourceHours, 12, "frank", "Frank Mon lunch 11:00-13:30", "abc")
    body, err := json.Marshal(ev)
    require.NoError(t, err)

    sink := &memSink{}
    require.NoError(t, HandleMessage(context.Background(), body, sink))
    require.Len(t, sink.entries, 1)
    got := sink.entries[0]
    assert.Equal(t, ev.ID, got.EventID)
    assert.Equal(t, int64(12), got.ResourceID)
    assert.Equal(t, "frank", got.HallID)
    assert.True(t, ev.OccurredAt.Equal(got.OccurredAt))
}

func TestHandleMessageRejects(t *testing.T) {
    assert.Error(t, HandleMessage(context.Background(), []byte("{"), &memSink{}))
    assert.Error(t, HandleMessage(context.Background(), []byte(`{"action":"create"}`), &memSink{}))

    body, _ := json.Marshal(NewAdminChangeEvent(ActionDelete, ResourceOverride, 1, "hoch", "x", ""))
    assert.Error(t, HandleMessage(context.Background(), body, &memSink{err: errors.New("db down")}))
}

func TestNewAdminChangeEventUniqueIDs(t *testing.T) {
    a := NewAdminChangeEvent(ActionUpdate, ResourceHours, 1, "frank", "", "")
    b := NewAdminChangeEvent(ActionUpdate, ResourceHours, 1, "frank", "", "")
    assert.NotEqual(t, a.ID, b.ID)
    assert.Len(t, a.ID, 36)
}

func TestFileSink(t *testing.T) {
    path := filepath.Join(t.TempDir(), "logs", "admin.log")
    sink, err := NewFileSink(path, 2)
    require.NoError(t, err)
    ctx := context.Background()

    e1 := NewAdminChangeEvent(ActionCreate, ResourceHours, 1, "frank", "first", "").Entry()
    e2 := NewAdminChangeEvent(ActionUpdate, ResourceHours, 1, "frank", "second", "").Entry()
    e3 := NewAdminChangeEvent(ActionDelete, ResourceHours, 1, "frank", "third", "").Entry()
    require.NoError(t, sink.Record(ctx, e1))
    require.NoError(t, sink.Record(ctx, e1))
    require.NoError(t, sink.Record(ctx, e2))
    require.NoError(t, sink.Record(ctx, e3))

    recent, err := sink.Recent(ctx, 10)
    require.NoError(t, err)
    require.Len(t, recent, 2)
    assert.Equal(t, "third", recent[0].Summary)
    assert.Equal(t, "second", recent[1].Summary)

    raw, err := os.ReadFile(path)
    require.NoError(t, err)
    lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
    assert.Len(t, lines, 3)
    assert.Contains(t, lines[0], "create hours")
}
