// Package snapshot keeps the hall list and the open-now statuses fresh in
// the background so page renders never wait on the API for them.
package snapshot

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/fivec-menu/internal/model"
)

// Source is the subset of the API client the poller needs.
type Source interface {
	ListHalls(ctx context.Context) ([]model.Hall, error)
	ListOpenNow(ctx context.Context) ([]model.OpenHall, error)
}

// Default refresh intervals.
const (
	DefaultHallsEvery = 5 * time.Minute
	DefaultOpenEvery  = 60 * time.Second
)

// Poller holds the most recent snapshots.  Each refresh replaces the whole
// slice; readers must treat what they get as read-only.
type Poller struct {
	src        Source
	hallsEvery time.Duration
	openEvery  time.Duration
	log        *zap.Logger

	halls atomic.Pointer[[]model.Hall]
	open  atomic.Pointer[[]model.OpenHall]
}

// New returns a Poller.  Zero intervals use the defaults.
func New(src Source, hallsEvery, openEvery time.Duration, log *zap.Logger) *Poller {
	if hallsEvery <= 0 {
		hallsEvery = DefaultHallsEvery
	}
	if openEvery <= 0 {
		openEvery = DefaultOpenEvery
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{src: src, hallsEvery: hallsEvery, openEvery: openEvery, log: log.Named("snapshot")}
}

// Run refreshes both snapshots immediately and then on their intervals
// until ctx is cancelled.  It always returns nil after cancellation;
// refresh failures are logged and the previous snapshot is kept.
func (p *Poller) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p.loop(ctx, p.hallsEvery, "halls", p.refreshHalls)
		return nil
	})
	g.Go(func() error {
		p.loop(ctx, p.openEvery, "open_now", p.refreshOpen)
		return nil
	})
	return g.Wait()
}

func (p *Poller) loop(ctx context.Context, every time.Duration, name string, refresh func(context.Context) error) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		if err := refresh(ctx); err != nil && ctx.Err() == nil {
			p.log.Warn("snapshot refresh failed", zap.String("snapshot", name), zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// Refresh reloads both snapshots once.
func (p *Poller) Refresh(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.refreshHalls(ctx) })
	g.Go(func() error { return p.refreshOpen(ctx) })
	return g.Wait()
}

func (p *Poller) refreshHalls(ctx context.Context) error {
	halls, err := p.src.ListHalls(ctx)
	if err != nil {
		return fmt.Errorf("list halls: %w", err)
	}
	p.halls.Store(&halls)
	return nil
}

func (p *Poller) refreshOpen(ctx context.Context) error {
	open, err := p.src.ListOpenNow(ctx)
	if err != nil {
		return fmt.Errorf("list open-now: %w", err)
	}
	p.open.Store(&open)
	return nil
}

// Halls returns the hall snapshot, fetching it synchronously when the
// poller has not produced one yet.
func (p *Poller) Halls(ctx context.Context) ([]model.Hall, error) {
	if h := p.halls.Load(); h != nil {
		return *h, nil
	}
	if err := p.refreshHalls(ctx); err != nil {
		return nil, err
	}
	return *p.halls.Load(), nil
}

// Open returns the open-now snapshot or nil when none has been loaded.
// A nil result means "nothing known to be open".
func (p *Poller) Open() []model.OpenHall {
	if o := p.open.Load(); o != nil {
		return *o
	}
	return nil
}
