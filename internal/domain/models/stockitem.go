package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultMinStockAlert is applied when a StockItem is auto-created by a
// purchase or storage-in event for an unseen product name.
const DefaultMinStockAlert = 100

// StockItem holds the authoritative running balance for one product name.
// The balance is driven by purchases (+) and sales (-); storage movements
// only feed the reporting summary.
type StockItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductName   string             `bson:"product_name" json:"productName"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	CurrentStock  float64            `bson:"current_stock" json:"currentStock"`
	MinStockAlert float64            `bson:"min_stock_alert" json:"minStockAlert"`
	LastUpdated   time.Time          `bson:"last_updated" json:"lastUpdated"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
}

// CreateStockItemRequest is the payload accepted by POST /stock/add.
type CreateStockItemRequest struct {
	ProductName   string  `json:"productName" binding:"required"`
	Description   string  `json:"description"`
	CurrentStock  float64 `json:"currentStock" binding:"gte=0"`
	MinStockAlert float64 `json:"minStockAlert" binding:"gte=0"`
}

// UpdateStockItemRequest adjusts the descriptive fields and alert threshold.
// The balance itself is only moved by purchase/sale events.
type UpdateStockItemRequest struct {
	Description   *string  `json:"description"`
	MinStockAlert *float64 `json:"minStockAlert" binding:"omitempty,gte=0"`
}

// ProductSummary is the reporting view over purchases, sales and storage
// movements for one product. Available = TotalIn - TotalOut; it is computed
// independently of StockItem.CurrentStock and the two may diverge.
type ProductSummary struct {
	ProductName string  `json:"productName"`
	TotalIn     float64 `json:"totalIn"`
	TotalOut    float64 `json:"totalOut"`
	Available   float64 `json:"available"`
}
