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

// CreateCustomer inserts a customer and fills in its id and timestamps.
func (r *Repository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	now := time.Now().UTC()
	customer.ID = primitive.NewObjectID()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	if _, err := r.collection(collCustomers).InsertOne(ctx, customer); err != nil {
		return wrapWriteErr(err, "phone")
	}
	return nil
}

// ListCustomers returns all customers sorted by name.
func (r *Repository) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	cursor, err := r.collection(collCustomers).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	customers := make([]models.Customer, 0)
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, fmt.Errorf("decode customers: %w", err)
	}
	return customers, nil
}

// GetCustomer fetches one customer by id.
func (r *Repository) GetCustomer(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	var customer models.Customer
	err := r.collection(collCustomers).FindOne(ctx, bson.M{"_id": id}).Decode(&customer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &customer, nil
}

// UpdateCustomer applies the provided fields of the request to a customer.
func (r *Repository) UpdateCustomer(ctx context.Context, id primitive.ObjectID, req models.UpdateCustomerRequest) (*models.Customer, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Phone != "" {
		set["phone"] = req.Phone
	}
	if req.Email != "" {
		set["email"] = req.Email
	}
	if req.Address != "" {
		set["address"] = req.Address
	}
	if req.City != "" {
		set["city"] = req.City
	}
	if req.State != "" {
		set["state"] = req.State
	}
	if req.GSTIN != "" {
		set["gstin"] = req.GSTIN
	}
	if req.CreditLimit != nil {
		set["credit_limit"] = *req.CreditLimit
	}
	if req.Remarks != "" {
		set["remarks"] = req.Remarks
	}

	var customer models.Customer
	err := r.collection(collCustomers).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&customer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapWriteErr(err, "phone")
	}
	return &customer, nil
}

// DeleteCustomer hard-deletes a customer document.
func (r *Repository) DeleteCustomer(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection(collCustomers).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountCustomers returns the total number of customers.
func (r *Repository) CountCustomers(ctx context.Context) (int64, error) {
	return r.collection(collCustomers).CountDocuments(ctx, bson.M{})
}
