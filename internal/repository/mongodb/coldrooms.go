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

// CreateColdRoom inserts a cold room record.
func (r *Repository) CreateColdRoom(ctx context.Context, room *models.ColdRoom) error {
	now := time.Now().UTC()
	room.ID = primitive.NewObjectID()
	room.CreatedAt = now
	room.UpdatedAt = now

	if _, err := r.collection(collColdRooms).InsertOne(ctx, room); err != nil {
		return fmt.Errorf("insert cold room: %w", err)
	}
	return nil
}

// ListColdRooms returns all rooms sorted by room number.
func (r *Repository) ListColdRooms(ctx context.Context) ([]models.ColdRoom, error) {
	cursor, err := r.collection(collColdRooms).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "room_number", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list cold rooms: %w", err)
	}
	rooms := make([]models.ColdRoom, 0)
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("decode cold rooms: %w", err)
	}
	return rooms, nil
}

// UpdateColdRoom adjusts capacity or occupancy for a room.
func (r *Repository) UpdateColdRoom(ctx context.Context, id primitive.ObjectID, req models.UpdateColdRoomRequest) (*models.ColdRoom, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if req.Capacity != nil {
		set["capacity_kg"] = *req.Capacity
	}
	if req.IsOccupied != nil {
		set["is_occupied"] = *req.IsOccupied
	}

	var room models.ColdRoom
	err := r.collection(collColdRooms).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update cold room: %w", err)
	}
	return &room, nil
}

// ColdRoomOccupancy counts occupied rooms against the total.
func (r *Repository) ColdRoomOccupancy(ctx context.Context) (occupied int64, total int64, err error) {
	total, err = r.collection(collColdRooms).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, 0, fmt.Errorf("count cold rooms: %w", err)
	}
	occupied, err = r.collection(collColdRooms).CountDocuments(ctx, bson.M{"is_occupied": true})
	if err != nil {
		return 0, 0, fmt.Errorf("count occupied rooms: %w", err)
	}
	return occupied, total, nil
}
