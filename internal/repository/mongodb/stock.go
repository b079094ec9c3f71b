package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/coldstore/internal/domain/models"
)

// CreateStockItem inserts a manually declared stock item. Duplicate product
// names are rejected by the unique index.
func (r *Repository) CreateStockItem(ctx context.Context, item *models.StockItem) error {
	now := time.Now().UTC()
	item.ID = primitive.NewObjectID()
	item.CreatedAt = now
	item.LastUpdated = now

	if _, err := r.collection(collStock).InsertOne(ctx, item); err != nil {
		return wrapWriteErr(err, "product_name")
	}
	return nil
}

// ListStockItems returns all stock items sorted by product name.
func (r *Repository) ListStockItems(ctx context.Context) ([]models.StockItem, error) {
	cursor, err := r.collection(collStock).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "product_name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	items := make([]models.StockItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode stock items: %w", err)
	}
	return items, nil
}

// FindStockItem fetches the stock item for a product name.
func (r *Repository) FindStockItem(ctx context.Context, productName string) (*models.StockItem, error) {
	var item models.StockItem
	err := r.collection(collStock).FindOne(ctx, bson.M{"product_name": productName}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find stock item: %w", err)
	}
	return &item, nil
}

// UpdateStockItem adjusts description and alert threshold by id.
func (r *Repository) UpdateStockItem(ctx context.Context, id primitive.ObjectID, req models.UpdateStockItemRequest) (*models.StockItem, error) {
	set := bson.M{"last_updated": time.Now().UTC()}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.MinStockAlert != nil {
		set["min_stock_alert"] = *req.MinStockAlert
	}

	var item models.StockItem
	err := r.collection(collStock).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update stock item: %w", err)
	}
	return &item, nil
}

// AddStock increments (or upserts) the balance for a product in one atomic
// write. New products get the default alert threshold.
func (r *Repository) AddStock(ctx context.Context, productName string, qty float64) error {
	now := time.Now().UTC()
	_, err := r.collection(collStock).UpdateOne(ctx,
		bson.M{"product_name": productName},
		bson.M{
			"$inc": bson.M{"current_stock": qty},
			"$set": bson.M{"last_updated": now},
			"$setOnInsert": bson.M{
				"min_stock_alert": float64(models.DefaultMinStockAlert),
				"created_at":      now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("add stock for %s: %w", productName, err)
	}
	return nil
}

// EnsureStockItem creates a zero-balance stock item for an unseen product
// name without touching an existing balance.
func (r *Repository) EnsureStockItem(ctx context.Context, productName string) error {
	now := time.Now().UTC()
	_, err := r.collection(collStock).UpdateOne(ctx,
		bson.M{"product_name": productName},
		bson.M{
			"$setOnInsert": bson.M{
				"current_stock":   float64(0),
				"min_stock_alert": float64(models.DefaultMinStockAlert),
				"created_at":      now,
				"last_updated":    now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("ensure stock item %s: %w", productName, err)
	}
	return nil
}

// DecrementStockIfSufficient atomically subtracts qty from a product balance
// when the balance covers it. Returns false when no document matched, i.e.
// the product is unknown or its balance is too low.
func (r *Repository) DecrementStockIfSufficient(ctx context.Context, productName string, qty float64) (bool, error) {
	res, err := r.collection(collStock).UpdateOne(ctx,
		bson.M{
			"product_name":  productName,
			"current_stock": bson.M{"$gte": qty},
		},
		bson.M{
			"$inc": bson.M{"current_stock": -qty},
			"$set": bson.M{"last_updated": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, fmt.Errorf("decrement stock for %s: %w", productName, err)
	}
	return res.MatchedCount > 0, nil
}

// IncrementStock adds qty back to a product balance. Used to compensate when
// a sale insert fails after its stock was already deducted.
func (r *Repository) IncrementStock(ctx context.Context, productName string, qty float64) error {
	_, err := r.collection(collStock).UpdateOne(ctx,
		bson.M{"product_name": productName},
		bson.M{
			"$inc": bson.M{"current_stock": qty},
			"$set": bson.M{"last_updated": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("increment stock for %s: %w", productName, err)
	}
	return nil
}

// LowStockItems returns items whose balance sits below their alert threshold.
func (r *Repository) LowStockItems(ctx context.Context) ([]models.StockItem, error) {
	cursor, err := r.collection(collStock).Find(ctx,
		bson.M{"$expr": bson.M{"$lt": bson.A{"$current_stock", "$min_stock_alert"}}},
		options.Find().SetSort(bson.D{{Key: "product_name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("low stock items: %w", err)
	}
	items := make([]models.StockItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode low stock items: %w", err)
	}
	return items, nil
}
