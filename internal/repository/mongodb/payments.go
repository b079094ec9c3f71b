package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/coldstore/internal/domain/models"
)

// CreatePayment inserts a payment and fills in its id and timestamp.
func (r *Repository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	payment.ID = primitive.NewObjectID()
	payment.CreatedAt = time.Now().UTC()

	if _, err := r.collection(collPayments).InsertOne(ctx, payment); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// ListPayments returns all payments, newest first.
func (r *Repository) ListPayments(ctx context.Context) ([]models.Payment, error) {
	cursor, err := r.collection(collPayments).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	payments := make([]models.Payment, 0)
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}
	return payments, nil
}

// PaymentsByFarmer returns every payment received from the given farmer.
func (r *Repository) PaymentsByFarmer(ctx context.Context, farmerID primitive.ObjectID) ([]models.Payment, error) {
	cursor, err := r.collection(collPayments).Find(ctx, bson.M{"farmer_id": farmerID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("payments by farmer: %w", err)
	}
	payments := make([]models.Payment, 0)
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}
	return payments, nil
}
