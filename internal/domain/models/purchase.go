package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QualityGrade enumerates accepted produce grades.
type QualityGrade string

const (
	QualityA     QualityGrade = "A"
	QualityB     QualityGrade = "B"
	QualityC     QualityGrade = "C"
	QualityOther QualityGrade = "Other"
)

// Purchase records produce bought from a farmer. TotalWeight and Amount are
// derived server-side from bags, weight per bag and rate; client-supplied
// values for them are ignored.
type Purchase struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FarmerID     primitive.ObjectID `bson:"farmer_id" json:"farmerId"`
	PurchaseDate time.Time          `bson:"purchase_date" json:"purchaseDate"`
	Variety      string             `bson:"variety" json:"variety"`
	Bags         int                `bson:"bags" json:"bags"`
	WeightPerBag float64            `bson:"weight_per_bag" json:"weightPerBag"`
	TotalWeight  float64            `bson:"total_weight" json:"totalWeight"`
	RatePerKg    float64            `bson:"rate_per_kg" json:"ratePerKg"`
	Amount       float64            `bson:"amount" json:"amount"`
	Quality      QualityGrade       `bson:"quality" json:"quality"`
	Remarks      string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CreatePurchaseRequest is the payload accepted by POST /purchases.
type CreatePurchaseRequest struct {
	FarmerID     string       `json:"farmerId" binding:"required"`
	PurchaseDate *time.Time   `json:"purchaseDate"`
	Variety      string       `json:"variety" binding:"required"`
	Bags         int          `json:"bags" binding:"required,gte=1"`
	WeightPerBag float64      `json:"weightPerBag" binding:"required,gt=0"`
	RatePerKg    float64      `json:"ratePerKg" binding:"gte=0"`
	Quality      QualityGrade `json:"quality" binding:"omitempty,oneof=A B C Other"`
	Remarks      string       `json:"remarks"`
}

// PurchaseView is a Purchase with its farmer reference populated.
type PurchaseView struct {
	Purchase
	Farmer *FarmerRef `json:"farmer,omitempty"`
}
