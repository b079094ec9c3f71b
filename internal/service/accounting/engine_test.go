package accounting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubStore struct {
	occupied float64
	err      error
	lastRoom string
}

func (s *stubStore) ActiveRoomQuantity(_ context.Context, room string, _ primitive.ObjectID) (float64, error) {
	s.lastRoom = room
	return s.occupied, s.err
}

func newTestEngine(occupied float64) (*Engine, *stubStore) {
	store := &stubStore{occupied: occupied}
	e := NewEngine(store)
	return e, store
}

func TestComputeDays(t *testing.T) {
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	e, _ := newTestEngine(0)
	e.now = func() time.Time { return base.Add(72 * time.Hour) }

	tests := []struct {
		name string
		in   time.Time
		out  *time.Time
		want int
	}{
		{"exact ten days", base, timePtr(base.Add(240 * time.Hour)), 10},
		{"partial day rounds up", base, timePtr(base.Add(25 * time.Hour)), 2},
		{"zero duration bills one day", base, timePtr(base), 1},
		{"sub-day stay bills one day", base, timePtr(base.Add(6 * time.Hour)), 1},
		{"nil out-date uses now", base, nil, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.ComputeDays(tc.in, tc.out))
		})
	}
}

func TestComputeDaysMonotonic(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	e, _ := newTestEngine(0)

	prev := 0
	for hours := 1; hours <= 96; hours += 7 {
		out := base.Add(time.Duration(hours) * time.Hour)
		days := e.ComputeDays(base, &out)
		require.GreaterOrEqual(t, days, prev, "days must not decrease as out-date advances")
		prev = days
	}
}

func TestComputeRent(t *testing.T) {
	e, _ := newTestEngine(0)

	assert.Equal(t, 10000.0, e.ComputeRent(500, 2, 10))
	assert.Equal(t, 0.0, e.ComputeRent(0, 2, 10))
	assert.Equal(t, 0.0, e.ComputeRent(500, 0, 10))
	assert.Equal(t, 37.5, e.ComputeRent(25, 0.5, 3))
}

func TestEntryRent(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	out := base.Add(10 * 24 * time.Hour)
	e, _ := newTestEngine(0)

	days, rent := e.EntryRent(base, &out, 500, 2)
	assert.Equal(t, 10, days)
	assert.Equal(t, 10000.0, rent)
}

func TestCheckRoomCapacity(t *testing.T) {
	ctx := context.Background()

	t.Run("fits exactly", func(t *testing.T) {
		e, _ := newTestEngine(4000)
		require.NoError(t, e.CheckRoomCapacity(ctx, "Room-1", 1000, primitive.NilObjectID))
	})

	t.Run("overflow reports headroom", func(t *testing.T) {
		e, _ := newTestEngine(4200)
		err := e.CheckRoomCapacity(ctx, "Room-1", 1000, primitive.NilObjectID)
		require.Error(t, err)

		var full *RoomFullError
		require.ErrorAs(t, err, &full)
		assert.Equal(t, "Room-1", full.Room)
		assert.Equal(t, 800.0, full.AvailableKg)
	})

	t.Run("unknown room bypasses the check", func(t *testing.T) {
		e, store := newTestEngine(999999)
		require.NoError(t, e.CheckRoomCapacity(ctx, "Annex", 50000, primitive.NilObjectID))
		assert.Empty(t, store.lastRoom, "store must not be queried for unmapped rooms")
	})

	t.Run("store failure propagates", func(t *testing.T) {
		e, store := newTestEngine(0)
		store.err = errors.New("connection reset")
		err := e.CheckRoomCapacity(ctx, "Room-2", 10, primitive.NilObjectID)
		require.Error(t, err)

		var full *RoomFullError
		assert.False(t, errors.As(err, &full))
	})
}

func timePtr(t time.Time) *time.Time { return &t }
