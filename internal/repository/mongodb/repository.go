package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a lookup by id matches no document.
var ErrNotFound = errors.New("document not found")

// DuplicateError reports a unique-index violation and names the offending field.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate value for %s", e.Field)
}

// Collection names, one per entity.
const (
	collFarmers   = "farmers"
	collCustomers = "customers"
	collStorage   = "storage_entries"
	collPurchases = "purchases"
	collSales     = "sales"
	collStock     = "stock_items"
	collPayments  = "payments"
	collColdRooms = "cold_rooms"
)

// Repository is the MongoDB-backed entity store. One document collection per
// entity, keyed by ObjectID.
type Repository struct {
	client *mongo.Client
	dbName string
}

// NewRepository connects to MongoDB, verifies the connection and creates the
// unique indexes the domain relies on.
func NewRepository(ctx context.Context, uri string, dbName string) (*Repository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	r := &Repository{client: client, dbName: dbName}
	if err := r.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return r, nil
}

func (r *Repository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

func (r *Repository) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	uniqueSparse := options.Index().SetUnique(true).SetSparse(true)

	indexes := map[string][]mongo.IndexModel{
		collFarmers: {
			{Keys: bson.D{{Key: "phone", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "aadhaar", Value: 1}}, Options: uniqueSparse},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: uniqueSparse},
		},
		collCustomers: {
			{Keys: bson.D{{Key: "phone", Value: 1}}, Options: unique},
		},
		collStock: {
			{Keys: bson.D{{Key: "product_name", Value: 1}}, Options: unique},
		},
		collStorage: {
			{Keys: bson.D{{Key: "room", Value: 1}, {Key: "out_date", Value: 1}}},
			{Keys: bson.D{{Key: "farmer_id", Value: 1}}},
		},
		collPurchases: {
			{Keys: bson.D{{Key: "farmer_id", Value: 1}, {Key: "purchase_date", Value: -1}}},
		},
		collSales: {
			{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "sale_date", Value: -1}}},
		},
		collPayments: {
			{Keys: bson.D{{Key: "farmer_id", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := r.collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("indexes for %s: %w", coll, err)
		}
	}
	return nil
}

// WithTransaction runs fn inside a MongoDB session transaction. Repository
// methods called with the provided context participate in the transaction.
func (r *Repository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// wrapWriteErr translates driver-level errors into domain errors. Unique
// index violations become DuplicateError naming the first of fields found in
// the error text.
func wrapWriteErr(err error, fields ...string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		msg := err.Error()
		for _, f := range fields {
			if strings.Contains(msg, f) {
				return &DuplicateError{Field: f}
			}
		}
		if len(fields) > 0 {
			return &DuplicateError{Field: fields[0]}
		}
	}
	return err
}
