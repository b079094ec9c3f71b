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

// CreateStorageEntry inserts a storage entry and fills in its id and timestamps.
func (r *Repository) CreateStorageEntry(ctx context.Context, entry *models.StorageEntry) error {
	now := time.Now().UTC()
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if _, err := r.collection(collStorage).InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("insert storage entry: %w", err)
	}
	return nil
}

// ListStorageEntries returns all entries, newest storage date first.
func (r *Repository) ListStorageEntries(ctx context.Context) ([]models.StorageEntry, error) {
	cursor, err := r.collection(collStorage).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "storage_date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list storage entries: %w", err)
	}
	entries := make([]models.StorageEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode storage entries: %w", err)
	}
	return entries, nil
}

// GetStorageEntry fetches one entry by id.
func (r *Repository) GetStorageEntry(ctx context.Context, id primitive.ObjectID) (*models.StorageEntry, error) {
	var entry models.StorageEntry
	err := r.collection(collStorage).FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get storage entry: %w", err)
	}
	return &entry, nil
}

// StorageEntriesByFarmer returns every entry owned by the given farmer.
func (r *Repository) StorageEntriesByFarmer(ctx context.Context, farmerID primitive.ObjectID) ([]models.StorageEntry, error) {
	cursor, err := r.collection(collStorage).Find(ctx, bson.M{"farmer_id": farmerID})
	if err != nil {
		return nil, fmt.Errorf("storage entries by farmer: %w", err)
	}
	entries := make([]models.StorageEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode storage entries: %w", err)
	}
	return entries, nil
}

// UpdateStorageEntry applies the provided fields to an entry. Room may be set
// to the empty string (entry leaves its room) and OutDate set closes the entry.
func (r *Repository) UpdateStorageEntry(ctx context.Context, id primitive.ObjectID, req models.UpdateStorageEntryRequest) (*models.StorageEntry, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if req.Product != "" {
		set["product"] = req.Product
	}
	if req.Quantity != nil {
		set["quantity_kg"] = *req.Quantity
	}
	if req.StorageDate != nil {
		set["storage_date"] = req.StorageDate.UTC()
	}
	if req.OutDate != nil {
		set["out_date"] = req.OutDate.UTC()
	}
	if req.Room != nil {
		set["room"] = *req.Room
	}
	if req.Rate != nil {
		set["rate_per_kg_day"] = *req.Rate
	}
	if req.Remarks != nil {
		set["remarks"] = *req.Remarks
	}

	var entry models.StorageEntry
	err := r.collection(collStorage).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update storage entry: %w", err)
	}
	return &entry, nil
}

// DeleteStorageEntry hard-deletes a storage entry.
func (r *Repository) DeleteStorageEntry(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection(collStorage).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete storage entry: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ActiveRoomQuantity sums the quantity of active entries (no out-date) in a
// room, optionally excluding one entry id so updates do not count themselves.
func (r *Repository) ActiveRoomQuantity(ctx context.Context, room string, exclude primitive.ObjectID) (float64, error) {
	match := bson.M{
		"room":     room,
		"out_date": bson.M{"$exists": false},
	}
	if !exclude.IsZero() {
		match["_id"] = bson.M{"$ne": exclude}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$quantity_kg"}}}},
	}
	cursor, err := r.collection(collStorage).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("active room quantity: %w", err)
	}

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("decode room quantity: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// ActiveStorageStats returns the number of active entries and the total
// kilograms they hold, for the dashboard.
func (r *Repository) ActiveStorageStats(ctx context.Context) (int64, float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"out_date": bson.M{"$exists": false}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"kg":    bson.M{"$sum": "$quantity_kg"},
		}}},
	}
	cursor, err := r.collection(collStorage).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("active storage stats: %w", err)
	}

	var results []struct {
		Count int64   `bson:"count"`
		Kg    float64 `bson:"kg"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, 0, fmt.Errorf("decode storage stats: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, nil
	}
	return results[0].Count, results[0].Kg, nil
}

// StorageTotalsByProduct aggregates kilograms stored in (all entries) and
// taken out (entries with an out-date) per product name.
func (r *Repository) StorageTotalsByProduct(ctx context.Context) (map[string]float64, map[string]float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": "$product",
			"in":  bson.M{"$sum": "$quantity_kg"},
			"out": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$ifNull": bson.A{"$out_date", false}},
				"$quantity_kg",
				0,
			}}},
		}}},
	}
	cursor, err := r.collection(collStorage).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, nil, fmt.Errorf("storage totals: %w", err)
	}

	var rows []struct {
		Product string  `bson:"_id"`
		In      float64 `bson:"in"`
		Out     float64 `bson:"out"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, nil, fmt.Errorf("decode storage totals: %w", err)
	}

	in := make(map[string]float64, len(rows))
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		in[row.Product] = row.In
		out[row.Product] = row.Out
	}
	return in, out, nil
}
