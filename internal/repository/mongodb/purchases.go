package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/coldstore/internal/domain/models"
)

// CreatePurchase inserts a purchase and fills in its id and timestamps.
func (r *Repository) CreatePurchase(ctx context.Context, purchase *models.Purchase) error {
	now := time.Now().UTC()
	purchase.ID = primitive.NewObjectID()
	purchase.CreatedAt = now
	purchase.UpdatedAt = now

	if _, err := r.collection(collPurchases).InsertOne(ctx, purchase); err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// ListPurchases returns all purchases, newest first.
func (r *Repository) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	cursor, err := r.collection(collPurchases).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "purchase_date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	purchases := make([]models.Purchase, 0)
	if err := cursor.All(ctx, &purchases); err != nil {
		return nil, fmt.Errorf("decode purchases: %w", err)
	}
	return purchases, nil
}

// PurchasesReport returns purchases within [from, to], optionally filtered by
// farmer. Zero time values disable the corresponding bound.
func (r *Repository) PurchasesReport(ctx context.Context, from, to time.Time, farmerID primitive.ObjectID) ([]models.Purchase, error) {
	filter := bson.M{}
	dateRange := bson.M{}
	if !from.IsZero() {
		dateRange["$gte"] = from
	}
	if !to.IsZero() {
		dateRange["$lte"] = to
	}
	if len(dateRange) > 0 {
		filter["purchase_date"] = dateRange
	}
	if !farmerID.IsZero() {
		filter["farmer_id"] = farmerID
	}

	cursor, err := r.collection(collPurchases).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "purchase_date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("purchases report: %w", err)
	}
	purchases := make([]models.Purchase, 0)
	if err := cursor.All(ctx, &purchases); err != nil {
		return nil, fmt.Errorf("decode purchases: %w", err)
	}
	return purchases, nil
}

// PurchasesByFarmer returns every purchase from the given farmer.
func (r *Repository) PurchasesByFarmer(ctx context.Context, farmerID primitive.ObjectID) ([]models.Purchase, error) {
	return r.PurchasesReport(ctx, time.Time{}, time.Time{}, farmerID)
}

// PurchaseTotalsByProduct sums total weight per variety.
func (r *Repository) PurchaseTotalsByProduct(ctx context.Context) (map[string]float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$variety", "total": bson.M{"$sum": "$total_weight"}}}},
	}
	cursor, err := r.collection(collPurchases).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("purchase totals: %w", err)
	}

	var rows []struct {
		Product string  `bson:"_id"`
		Total   float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode purchase totals: %w", err)
	}
	totals := make(map[string]float64, len(rows))
	for _, row := range rows {
		totals[row.Product] = row.Total
	}
	return totals, nil
}

// CountPurchasesSince counts purchases recorded on or after the given time.
func (r *Repository) CountPurchasesSince(ctx context.Context, since time.Time) (int64, error) {
	return r.collection(collPurchases).CountDocuments(ctx, bson.M{"purchase_date": bson.M{"$gte": since}})
}
