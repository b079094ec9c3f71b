package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer represents a buyer of stored produce.
type Customer struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Phone       string             `bson:"phone" json:"phone"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	City        string             `bson:"city,omitempty" json:"city,omitempty"`
	State       string             `bson:"state,omitempty" json:"state,omitempty"`
	GSTIN       string             `bson:"gstin,omitempty" json:"gstin,omitempty"`
	CreditLimit float64            `bson:"credit_limit" json:"creditLimit"`
	Remarks     string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CreateCustomerRequest is the payload accepted by POST /customers/add.
type CreateCustomerRequest struct {
	Name        string  `json:"name" binding:"required"`
	Phone       string  `json:"phone" binding:"required"`
	Email       string  `json:"email" binding:"omitempty,email"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	GSTIN       string  `json:"gstin"`
	CreditLimit float64 `json:"creditLimit" binding:"gte=0"`
	Remarks     string  `json:"remarks"`
}

// UpdateCustomerRequest carries a partial customer update.
type UpdateCustomerRequest struct {
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email" binding:"omitempty,email"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	GSTIN       string   `json:"gstin"`
	CreditLimit *float64 `json:"creditLimit" binding:"omitempty,gte=0"`
	Remarks     string   `json:"remarks"`
}
