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

var farmerUniqueFields = []string{"phone", "aadhaar", "email"}

// CreateFarmer inserts a farmer and fills in its id and timestamps.
func (r *Repository) CreateFarmer(ctx context.Context, farmer *models.Farmer) error {
	now := time.Now().UTC()
	farmer.ID = primitive.NewObjectID()
	farmer.CreatedAt = now
	farmer.UpdatedAt = now

	if _, err := r.collection(collFarmers).InsertOne(ctx, farmer); err != nil {
		return wrapWriteErr(err, farmerUniqueFields...)
	}
	return nil
}

// ListFarmers returns all farmers sorted by name.
func (r *Repository) ListFarmers(ctx context.Context) ([]models.Farmer, error) {
	cursor, err := r.collection(collFarmers).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list farmers: %w", err)
	}
	farmers := make([]models.Farmer, 0)
	if err := cursor.All(ctx, &farmers); err != nil {
		return nil, fmt.Errorf("decode farmers: %w", err)
	}
	return farmers, nil
}

// GetFarmer fetches one farmer by id.
func (r *Repository) GetFarmer(ctx context.Context, id primitive.ObjectID) (*models.Farmer, error) {
	var farmer models.Farmer
	err := r.collection(collFarmers).FindOne(ctx, bson.M{"_id": id}).Decode(&farmer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get farmer: %w", err)
	}
	return &farmer, nil
}

// FarmersByIDs fetches the given farmers in one round trip, keyed by id.
func (r *Repository) FarmersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Farmer, error) {
	out := make(map[primitive.ObjectID]models.Farmer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := r.collection(collFarmers).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("farmers by ids: %w", err)
	}
	var farmers []models.Farmer
	if err := cursor.All(ctx, &farmers); err != nil {
		return nil, fmt.Errorf("decode farmers: %w", err)
	}
	for _, f := range farmers {
		out[f.ID] = f
	}
	return out, nil
}

// UpdateFarmer applies the non-empty fields of the request to a farmer.
func (r *Repository) UpdateFarmer(ctx context.Context, id primitive.ObjectID, req models.UpdateFarmerRequest) (*models.Farmer, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Phone != "" {
		set["phone"] = req.Phone
	}
	if req.Address != "" {
		set["address"] = req.Address
	}
	if req.Aadhaar != "" {
		set["aadhaar"] = req.Aadhaar
	}
	if req.Email != "" {
		set["email"] = req.Email
	}

	var farmer models.Farmer
	err := r.collection(collFarmers).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&farmer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapWriteErr(err, farmerUniqueFields...)
	}
	return &farmer, nil
}

// DeleteFarmer hard-deletes a farmer document.
func (r *Repository) DeleteFarmer(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection(collFarmers).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete farmer: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountFarmers returns the total number of farmers.
func (r *Repository) CountFarmers(ctx context.Context) (int64, error) {
	return r.collection(collFarmers).CountDocuments(ctx, bson.M{})
}
