package opennow

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fivec-menu/internal/calendar"
	"github.com/iliyamo/fivec-menu/internal/model"
)

var (
	hallA = model.Hall{ID: "a", Name: "A", College: "hmc"}
	hallB = model.Hall{ID: "b", Name: "B", College: "cmc"}
	hallC = model.Hall{ID: "c", Name: "C", College: "pomona"}

	today    = calendar.Date{Year: 2026, Month: time.February, Day: 9}
	tomorrow = today.AddDays(1)
)

func ids(hs []model.Hall) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.ID
	}
	return out
}

func TestDeriveFilterDisabled(t *testing.T) {
	halls := []model.Hall{hallA, hallB, hallC}
	open := []model.OpenHall{{ID: "c", CurrentMeal: "lunch"}}

	for _, sel := range []calendar.Date{today, tomorrow} {
		v := Derive(halls, open, sel, today, false)
		if diff := cmp.Diff(halls, v.Halls); diff != "" {
			t.Errorf("halls changed for %s (-want +got):\n%s", sel, diff)
		}
		assert.False(t, v.FilterApplied())
		assert.False(t, v.FilterInert())
	}
}

func TestDeriveFilterInertOnOtherDate(t *testing.T) {
	halls := []model.Hall{hallA, hallB, hallC}
	v := Derive(halls, nil, tomorrow, today, true)

	assert.Equal(t, []string{"a", "b", "c"}, ids(v.Halls))
	assert.True(t, v.FilterInert())
	assert.False(t, v.FilterApplied())
	assert.False(t, v.FilteredOut())
}

func TestDeriveFilterPreservesOrder(t *testing.T) {
	halls := []model.Hall{hallA, hallB, hallC}
	open := []model.OpenHall{{ID: "c", CurrentMeal: "dinner"}, {ID: "a", CurrentMeal: "lunch"}}

	v := Derive(halls, open, today, today, true)

	assert.Equal(t, []string{"a", "c"}, ids(v.Halls))
	assert.Equal(t, 3, v.Total)
	assert.True(t, v.IsOpen("a"))
	assert.False(t, v.IsOpen("b"))
	meal, ok := v.CurrentMeal("c")
	assert.True(t, ok)
	assert.Equal(t, "dinner", meal)
	_, ok = v.CurrentMeal("b")
	assert.False(t, ok)
}

func TestDeriveDoesNotMutateInput(t *testing.T) {
	halls := []model.Hall{hallA, hallB, hallC}
	before := append([]model.Hall(nil), halls...)

	Derive(halls, []model.OpenHall{{ID: "b"}}, today, today, true)

	if diff := cmp.Diff(before, halls); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}
}

func TestDeriveAbsentSnapshot(t *testing.T) {
	v := Derive([]model.Hall{hallA, hallB}, nil, today, today, true)
	assert.Empty(t, v.Halls)
	assert.True(t, v.FilteredOut())
	assert.Equal(t, 0, v.OpenCount())
}

func TestDeriveNoHallsIsNotFilteredOut(t *testing.T) {
	v := Derive(nil, []model.OpenHall{{ID: "a"}}, today, today, true)
	assert.Empty(t, v.Halls)
	assert.False(t, v.FilteredOut())
	assert.Equal(t, 0, v.Total)
}

func TestDeriveIdempotent(t *testing.T) {
	halls := []model.Hall{hallA, hallB, hallC}
	open := []model.OpenHall{{ID: "b", CurrentMeal: "breakfast"}}
	first := Derive(halls, open, today, today, true)
	second := Derive(halls, open, today, today, true)
	assert.Equal(t, ids(first.Halls), ids(second.Halls))
	assert.Equal(t, first.Total, second.Total)
}

func TestDeriverUsesReferenceClock(t *testing.T) {
	// 23:30 PST on Feb 9 is already Feb 10 in UTC.
	at := time.Date(2026, 2, 10, 7, 30, 0, 0, time.UTC)
	r, err := calendar.NewResolver(calendar.WithClock(func() time.Time { return at }))
	require.NoError(t, err)
	d := Deriver{Clock: r}

	halls := []model.Hall{hallA, hallB}
	open := []model.OpenHall{{ID: "b"}}

	v := d.DeriveFilteredHalls(halls, open, today, true)
	assert.Equal(t, []string{"b"}, ids(v.Halls))

	v = d.DeriveFilteredHalls(halls, open, tomorrow, true)
	assert.Equal(t, []string{"a", "b"}, ids(v.Halls))
}
