package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ColdRoom describes one refrigerated room. The occupancy flag feeds the
// dashboard counts; capacity enforcement for storage entries uses the fixed
// room map in the accounting engine, not these documents.
type ColdRoom struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoomNumber string             `bson:"room_number" json:"roomNumber"`
	CapacityKg float64            `bson:"capacity_kg" json:"capacity"`
	IsOccupied bool               `bson:"is_occupied" json:"isOccupied"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CreateColdRoomRequest is the payload accepted by POST /coldrooms/add.
type CreateColdRoomRequest struct {
	RoomNumber string  `json:"roomNumber" binding:"required"`
	Capacity   float64 `json:"capacity" binding:"required,gt=0"`
	IsOccupied bool    `json:"isOccupied"`
}

// UpdateColdRoomRequest toggles occupancy or adjusts capacity.
type UpdateColdRoomRequest struct {
	Capacity   *float64 `json:"capacity" binding:"omitempty,gt=0"`
	IsOccupied *bool    `json:"isOccupied"`
}

// DashboardSummary aggregates the headline numbers shown on the admin UI.
type DashboardSummary struct {
	TotalFarmers      int64     `json:"totalFarmers"`
	TotalCustomers    int64     `json:"totalCustomers"`
	ActiveEntries     int64     `json:"activeEntries"`
	TotalKgStored     float64   `json:"totalKgStored"`
	OccupiedRooms     int64     `json:"occupiedRooms"`
	TotalRooms        int64     `json:"totalRooms"`
	TotalSalesRevenue float64   `json:"totalSalesRevenue"`
	TodayPurchases    int64     `json:"todayPurchases"`
	TodaySales        int64     `json:"todaySales"`
	GeneratedAt       time.Time `json:"generatedAt"`
}
