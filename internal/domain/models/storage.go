package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StorageEntry records a quantity of a farmer's product held in a room
// between an in-date and an optional out-date. A nil OutDate means the
// entry is still active; setting it closes the entry.
type StorageEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FarmerID    primitive.ObjectID `bson:"farmer_id" json:"farmerId"`
	Product     string             `bson:"product" json:"product"`
	QuantityKg  float64            `bson:"quantity_kg" json:"quantity"`
	StorageDate time.Time          `bson:"storage_date" json:"storageDate"`
	OutDate     *time.Time         `bson:"out_date,omitempty" json:"outDate,omitempty"`
	Room        string             `bson:"room,omitempty" json:"room,omitempty"`
	RatePerKg   float64            `bson:"rate_per_kg_day" json:"rate"`
	Remarks     string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Active reports whether the entry still occupies room capacity.
func (e StorageEntry) Active() bool {
	return e.OutDate == nil
}

// CreateStorageEntryRequest is the payload accepted by POST /storage/add.
// StorageDate defaults to the current time when omitted.
type CreateStorageEntryRequest struct {
	FarmerID    string     `json:"farmerId" binding:"required"`
	Product     string     `json:"product" binding:"required"`
	Quantity    float64    `json:"quantity" binding:"required,gt=0"`
	StorageDate *time.Time `json:"storageDate"`
	OutDate     *time.Time `json:"outDate"`
	Room        string     `json:"room"`
	Rate        float64    `json:"rate" binding:"gte=0"`
	Remarks     string     `json:"remarks"`
}

// UpdateStorageEntryRequest carries a partial storage-entry update.
type UpdateStorageEntryRequest struct {
	Product     string     `json:"product"`
	Quantity    *float64   `json:"quantity" binding:"omitempty,gt=0"`
	StorageDate *time.Time `json:"storageDate"`
	OutDate     *time.Time `json:"outDate"`
	Room        *string    `json:"room"`
	Rate        *float64   `json:"rate" binding:"omitempty,gte=0"`
	Remarks     *string    `json:"remarks"`
}

// FarmerRef is the denormalized farmer view embedded in storage listings.
type FarmerRef struct {
	ID      primitive.ObjectID `json:"id"`
	Name    string             `json:"name"`
	Phone   string             `json:"phone"`
	Email   string             `json:"email,omitempty"`
	Address string             `json:"address,omitempty"`
}

// StorageEntryView is a StorageEntry with its farmer reference populated
// and the billing fields computed at read time.
type StorageEntryView struct {
	StorageEntry
	Farmer     *FarmerRef `json:"farmer,omitempty"`
	DaysStored int        `json:"daysStored"`
	RentAmount float64    `json:"rentAmount"`
}
