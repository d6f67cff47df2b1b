package snapshot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/iliyamo/fivec-menu/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	mu        sync.Mutex
	halls     []model.Hall
	open      []model.OpenHall
	hallsErr  error
	openErr   error
	hallCalls int
	openCalls int
}

func (f *fakeSource) ListHalls(ctx context.Context) ([]model.Hall, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hallCalls++
	if f.hallsErr != nil {
		return nil, f.hallsErr
	}
	return append([]model.Hall(nil), f.halls...), nil
}

func (f *fakeSource) ListOpenNow(ctx context.Context) ([]model.OpenHall, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openCalls++
	if f.openErr != nil {
		return nil, f.openErr
	}
	return append([]model.OpenHall(nil), f.open...), nil
}

func (f *fakeSource) set(fn func(*fakeSource)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeSource) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hallCalls, f.openCalls
}

func TestOpenIsNilBeforeFirstRefresh(t *testing.T) {
	p := New(&fakeSource{}, 0, 0, nil)
	assert.Nil(t, p.Open())
}

func TestHallsFetchesSynchronouslyWhenEmpty(t *testing.T) {
	src := &fakeSource{halls: []model.Hall{{ID: "frank"}}}
	p := New(src, time.Hour, time.Hour, nil)

	halls, err := p.Halls(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Hall{{ID: "frank"}}, halls)

	_, err = p.Halls(context.Background())
	require.NoError(t, err)
	hc, _ := src.calls()
	assert.Equal(t, 1, hc)
}

func TestHallsPropagatesFirstFetchError(t *testing.T) {
	p := New(&fakeSource{hallsErr: errors.New("down")}, 0, 0, nil)
	_, err := p.Halls(context.Background())
	assert.Error(t, err)
}

func TestFailedRefreshKeepsPreviousSnapshot(t *testing.T) {
	src := &fakeSource{
		halls: []model.Hall{{ID: "frank"}},
		open:  []model.OpenHall{{ID: "frank", CurrentMeal: "lunch"}},
	}
	p := New(src, 0, 0, nil)
	require.NoError(t, p.Refresh(context.Background()))

	src.set(func(f *fakeSource) {
		f.hallsErr = errors.New("boom")
		f.openErr = errors.New("boom")
	})
	assert.Error(t, p.Refresh(context.Background()))

	halls, err := p.Halls(context.Background())
	require.NoError(t, err)
	assert.Len(t, halls, 1)
	assert.Equal(t, "lunch", p.Open()[0].CurrentMeal)
}

func TestRunRefreshesAndStopsOnCancel(t *testing.T) {
	src := &fakeSource{open: []model.OpenHall{{ID: "a"}}}
	p := New(src, time.Hour, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, oc := src.calls()
		return oc >= 3
	}, time.Second, 2*time.Millisecond)

	src.set(func(f *fakeSource) { f.open = []model.OpenHall{{ID: "b"}} })
	require.Eventually(t, func() bool {
		o := p.Open()
		return len(o) == 1 && o[0].ID == "b"
	}, time.Second, 2*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	hc, _ := src.calls()
	assert.LessOrEqual(t, hc, 1)
}
