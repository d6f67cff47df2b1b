// Package opennow derives the hall feed shown on the home page from the
// hall list and the open-now snapshot.  The two inputs are refreshed
// independently; derivation is a pure function of whatever snapshots the
// caller hands in and is recomputed on every request.
package opennow

import (
	"github.com/iliyamo/fivec-menu/internal/calendar"
	"github.com/iliyamo/fivec-menu/internal/model"
)

// View is the derived feed.
type View struct {
	// Halls is the list to render, in source order.
	Halls []model.Hall
	// Total is the size of the unfiltered hall list.
	Total int
	// Selected is the date the feed is for.
	Selected calendar.Date
	// IsToday is true when Selected is the reference today.
	IsToday bool
	// FilterEnabled mirrors the Open Now toggle.
	FilterEnabled bool

	open  map[string]bool
	meals map[string]string
}

// FilterApplied reports whether the open-now filter actually removed
// closed halls from Halls.
func (v View) FilterApplied() bool { return v.FilterEnabled && v.IsToday }

// FilterInert reports whether the toggle is on but has no effect because
// another date is selected.
func (v View) FilterInert() bool { return v.FilterEnabled && !v.IsToday }

// FilteredOut distinguishes "the filter excluded every hall" from "there
// are no halls at all".
func (v View) FilteredOut() bool { return len(v.Halls) == 0 && v.Total > 0 && v.FilterApplied() }

// IsOpen reports whether the hall is in the open-now snapshot.
func (v View) IsOpen(hallID string) bool { return v.open[hallID] }

// CurrentMeal returns the meal the hall is serving now, if any.
func (v View) CurrentMeal(hallID string) (string, bool) {
	m, ok := v.meals[hallID]
	return m, ok
}

// OpenCount is the number of distinct open halls in the snapshot.
func (v View) OpenCount() int { return len(v.open) }

// Derive builds the View.  A nil open snapshot is treated as "nothing is
// open".  The input slices are never modified.
func Derive(halls []model.Hall, open []model.OpenHall, selected, today calendar.Date, filterEnabled bool) View {
	v := View{
		Total:         len(halls),
		Selected:      selected,
		IsToday:       selected == today,
		FilterEnabled: filterEnabled,
		open:          make(map[string]bool, len(open)),
		meals:         make(map[string]string, len(open)),
	}
	for _, o := range open {
		v.open[o.ID] = true
		if o.CurrentMeal != "" {
			v.meals[o.ID] = o.CurrentMeal
		}
	}

	if !v.FilterApplied() {
		v.Halls = halls
		return v
	}
	out := make([]model.Hall, 0, len(halls))
	for _, h := range halls {
		if v.open[h.ID] {
			out = append(out, h)
		}
	}
	v.Halls = out
	return v
}

// Deriver binds Derive to the ambient clock.
type Deriver struct {
	Clock *calendar.Resolver
}

// DeriveFilteredHalls evaluates the filter against the reference today.
func (d Deriver) DeriveFilteredHalls(halls []model.Hall, open []model.OpenHall, selected calendar.Date, filterEnabled bool) View {
	return Derive(halls, open, selected, d.Clock.ReferenceToday(), filterEnabled)
}
