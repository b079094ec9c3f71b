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

// saleSortFields whitelists the sortBy values accepted from the query string.
var saleSortFields = map[string]string{
	"saleDate": "sale_date",
	"amount":   "amount",
	"quantity": "quantity",
	"product":  "product",
}

// CreateSale inserts a sale and fills in its id and timestamps.
func (r *Repository) CreateSale(ctx context.Context, sale *models.Sale) error {
	now := time.Now().UTC()
	sale.ID = primitive.NewObjectID()
	sale.CreatedAt = now
	sale.UpdatedAt = now

	if _, err := r.collection(collSales).InsertOne(ctx, sale); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// ListSales returns one page of sales and the total count. Unknown sortBy
// values fall back to sale date; order is "asc" or "desc".
func (r *Repository) ListSales(ctx context.Context, page, limit int, sortBy, order string) ([]models.Sale, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	field, ok := saleSortFields[sortBy]
	if !ok {
		field = "sale_date"
	}
	direction := -1
	if order == "asc" {
		direction = 1
	}

	total, err := r.collection(collSales).CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: direction}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.collection(collSales).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	sales := make([]models.Sale, 0)
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, 0, fmt.Errorf("decode sales: %w", err)
	}
	return sales, total, nil
}

// SalesReport returns sales within [from, to], optionally filtered by customer.
func (r *Repository) SalesReport(ctx context.Context, from, to time.Time, customerID primitive.ObjectID) ([]models.Sale, error) {
	filter := bson.M{}
	dateRange := bson.M{}
	if !from.IsZero() {
		dateRange["$gte"] = from
	}
	if !to.IsZero() {
		dateRange["$lte"] = to
	}
	if len(dateRange) > 0 {
		filter["sale_date"] = dateRange
	}
	if !customerID.IsZero() {
		filter["customer_id"] = customerID
	}

	cursor, err := r.collection(collSales).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "sale_date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("sales report: %w", err)
	}
	sales := make([]models.Sale, 0)
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, fmt.Errorf("decode sales: %w", err)
	}
	return sales, nil
}

// SalesRevenue sums the amount across all sales.
func (r *Repository) SalesRevenue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}
	cursor, err := r.collection(collSales).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sales revenue: %w", err)
	}
	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("decode sales revenue: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// SaleTotalsByProduct sums sold quantity per product name.
func (r *Repository) SaleTotalsByProduct(ctx context.Context) (map[string]float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$product", "total": bson.M{"$sum": "$quantity"}}}},
	}
	cursor, err := r.collection(collSales).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("sale totals: %w", err)
	}
	var rows []struct {
		Product string  `bson:"_id"`
		Total   float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode sale totals: %w", err)
	}
	totals := make(map[string]float64, len(rows))
	for _, row := range rows {
		totals[row.Product] = row.Total
	}
	return totals, nil
}

// CountSalesSince counts sales recorded on or after the given time.
func (r *Repository) CountSalesSince(ctx context.Context, since time.Time) (int64, error) {
	return r.collection(collSales).CountDocuments(ctx, bson.M{"sale_date": bson.M{"$gte": since}})
}
