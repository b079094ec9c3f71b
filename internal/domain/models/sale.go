package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sale records produce sold to a customer. CustomerName is a snapshot taken
// at creation time so historical sales survive customer renames. Amount is
// derived server-side from quantity and rate.
type Sale struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID   primitive.ObjectID `bson:"customer_id" json:"clientId"`
	CustomerName string             `bson:"customer_name" json:"customerName"`
	Product      string             `bson:"product" json:"product"`
	Quantity     float64            `bson:"quantity" json:"quantity"`
	Rate         float64            `bson:"rate" json:"rate"`
	Amount       float64            `bson:"amount" json:"amount"`
	SaleDate     time.Time          `bson:"sale_date" json:"saleDate"`
	Remarks      string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CreateSaleRequest is the payload accepted by POST /sales/add.
type CreateSaleRequest struct {
	ClientID string     `json:"clientId" binding:"required"`
	Product  string     `json:"product" binding:"required"`
	Quantity float64    `json:"quantity" binding:"required,gt=0"`
	Rate     float64    `json:"rate" binding:"gte=0"`
	SaleDate *time.Time `json:"saleDate"`
	Remarks  string     `json:"remarks"`
}

// SaleListing is a page of sales plus pagination metadata.
type SaleListing struct {
	Sales      []Sale `json:"sales"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}
