package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment records money received against a farmer's ledger.
type Payment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FarmerID  primitive.ObjectID `bson:"farmer_id" json:"farmerId"`
	Amount    float64            `bson:"amount" json:"amount"`
	Date      time.Time          `bson:"date" json:"date"`
	Remarks   string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// CreatePaymentRequest is the payload accepted by POST /payments/add.
// Date defaults to the current time when omitted.
type CreatePaymentRequest struct {
	FarmerID string     `json:"farmerId" binding:"required"`
	Amount   float64    `json:"amount" binding:"required,gte=0"`
	Date     *time.Time `json:"date"`
	Remarks  string     `json:"remarks"`
}

// FarmerLedger is the read-only rollup of what a farmer owes and has paid.
// Outstanding = (TotalRent + TotalPurchases) - TotalPaid.
type FarmerLedger struct {
	FarmerID       primitive.ObjectID `json:"farmerId"`
	FarmerName     string             `json:"farmerName"`
	TotalRent      float64            `json:"totalRent"`
	TotalPurchases float64            `json:"totalPurchases"`
	TotalPaid      float64            `json:"totalPaid"`
	Outstanding    float64            `json:"outstanding"`
	StorageEntries int                `json:"storageEntries"`
	Purchases      int                `json:"purchases"`
	Payments       int                `json:"payments"`
}
