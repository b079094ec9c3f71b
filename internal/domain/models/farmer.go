package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Farmer represents a produce owner renting cold-storage space.
// Phone is the identity key; aadhaar and email are optional but unique when set.
type Farmer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Phone     string             `bson:"phone" json:"phone"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	Aadhaar   string             `bson:"aadhaar,omitempty" json:"aadhaar,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CreateFarmerRequest is the payload accepted by POST /farmers/add.
type CreateFarmerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address"`
	Aadhaar string `json:"aadhaar"`
	Email   string `json:"email" binding:"omitempty,email"`
}

// UpdateFarmerRequest carries a partial update; empty fields are left untouched.
type UpdateFarmerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Aadhaar string `json:"aadhaar"`
	Email   string `json:"email" binding:"omitempty,email"`
}
