package accounting

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoomCapacitiesKg maps the three named rooms to their hard capacity limits.
// Entries placed in rooms outside this map are not capacity checked.
var RoomCapacitiesKg = map[string]float64{
	"Room-1": 5000,
	"Room-2": 5000,
	"Room-3": 3000,
}

// RoomFullError is returned when an entry would push a room past its
// capacity. AvailableKg is the remaining headroom at check time.
type RoomFullError struct {
	Room        string
	AvailableKg float64
}

func (e *RoomFullError) Error() string {
	return fmt.Sprintf("room %s is full, only %.0f kg available", e.Room, e.AvailableKg)
}

// ActiveQuantityStore supplies the active (not checked out) kilograms held in
// a room, excluding at most one entry id.
type ActiveQuantityStore interface {
	ActiveRoomQuantity(ctx context.Context, room string, exclude primitive.ObjectID) (float64, error)
}

// Engine computes billable storage durations, rent amounts and room
// headroom. It does not persist anything itself.
type Engine struct {
	store ActiveQuantityStore
	now   func() time.Time
}

// NewEngine wires an accounting engine over the given storage view.
func NewEngine(store ActiveQuantityStore) *Engine {
	return &Engine{store: store, now: time.Now}
}

// ComputeDays returns the billable whole days between the in-date and the
// out-date, using the current time for entries still in storage. Partial
// days round up, and even a zero-duration stay bills one day.
func (e *Engine) ComputeDays(storageDate time.Time, outDate *time.Time) int {
	end := e.now()
	if outDate != nil {
		end = *outDate
	}

	days := int(math.Ceil(end.Sub(storageDate).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// ComputeRent is quantity * rate * days with no rounding applied.
func (e *Engine) ComputeRent(quantityKg, ratePerKgDay float64, days int) float64 {
	return quantityKg * ratePerKgDay * float64(days)
}

// EntryRent computes days and rent for one entry in a single call.
func (e *Engine) EntryRent(storageDate time.Time, outDate *time.Time, quantityKg, ratePerKgDay float64) (int, float64) {
	days := e.ComputeDays(storageDate, outDate)
	return days, e.ComputeRent(quantityKg, ratePerKgDay, days)
}

// CheckRoomCapacity rejects an incoming quantity that would overflow a named
// room, reporting the remaining headroom. Pass a non-zero exclude id when
// re-validating an existing entry so it does not count against itself. Rooms
// outside the fixed map are accepted without a check.
func (e *Engine) CheckRoomCapacity(ctx context.Context, room string, incomingKg float64, exclude primitive.ObjectID) error {
	capacity, known := RoomCapacitiesKg[room]
	if !known {
		return nil
	}

	occupied, err := e.store.ActiveRoomQuantity(ctx, room, exclude)
	if err != nil {
		return fmt.Errorf("room occupancy for %s: %w", room, err)
	}

	if occupied+incomingKg > capacity {
		return &RoomFullError{Room: room, AvailableKg: capacity - occupied}
	}
	return nil
}
