package stock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/coldstore/internal/domain/models"
)

// ErrProductNotFound is returned when a sale references a product that has
// never entered stock.
var ErrProductNotFound = errors.New("product not found in stock")

// ErrInsufficientStock is returned when a sale asks for more than the
// current balance. The sale must not be persisted in that case.
var ErrInsufficientStock = errors.New("insufficient stock")

// Store is the slice of the entity store the ledger needs.
type Store interface {
	AddStock(ctx context.Context, productName string, qty float64) error
	EnsureStockItem(ctx context.Context, productName string) error
	DecrementStockIfSufficient(ctx context.Context, productName string, qty float64) (bool, error)
	IncrementStock(ctx context.Context, productName string, qty float64) error
	FindStockItem(ctx context.Context, productName string) (*models.StockItem, error)
	LowStockItems(ctx context.Context) ([]models.StockItem, error)
	PurchaseTotalsByProduct(ctx context.Context) (map[string]float64, error)
	SaleTotalsByProduct(ctx context.Context) (map[string]float64, error)
	StorageTotalsByProduct(ctx context.Context) (map[string]float64, map[string]float64, error)
}

// Ledger maintains one running balance per product name, moved by purchases
// and sales. Storage movements only feed the reporting summary.
type Ledger struct {
	store  Store
	logger *zap.Logger
}

// NewLedger wires a stock ledger over the given store.
func NewLedger(store Store, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{store: store, logger: logger}
}

// OnPurchase upserts the product balance by the purchased total weight.
// Unseen product names get a new StockItem with the default alert threshold.
func (l *Ledger) OnPurchase(ctx context.Context, productName string, totalWeight float64) error {
	name := normalize(productName)
	if name == "" {
		return errors.New("product name must not be empty")
	}
	if err := l.store.AddStock(ctx, name, totalWeight); err != nil {
		return fmt.Errorf("stock increment on purchase: %w", err)
	}
	l.logger.Debug("stock increased", zap.String("product", name), zap.Float64("qty", totalWeight))
	return nil
}

// OnSale deducts the sold quantity with a single conditional update so the
// balance can never be driven negative by concurrent sales. Callers must run
// this before persisting the Sale document.
func (l *Ledger) OnSale(ctx context.Context, productName string, quantity float64) error {
	name := normalize(productName)

	ok, err := l.store.DecrementStockIfSufficient(ctx, name, quantity)
	if err != nil {
		return fmt.Errorf("stock decrement on sale: %w", err)
	}
	if ok {
		l.logger.Debug("stock decreased", zap.String("product", name), zap.Float64("qty", quantity))
		return nil
	}

	// Nothing matched: either the product is unknown or its balance is short.
	if _, err := l.store.FindStockItem(ctx, name); err != nil {
		return ErrProductNotFound
	}
	return ErrInsufficientStock
}

// ReverseSale puts a deducted quantity back after a failed sale insert.
func (l *Ledger) ReverseSale(ctx context.Context, productName string, quantity float64) error {
	return l.store.IncrementStock(ctx, normalize(productName), quantity)
}

// OnStorageIn makes sure a stock item exists for a product arriving in
// storage. The balance stays untouched: storage movements are tracked by the
// summary view, not the authoritative ledger.
func (l *Ledger) OnStorageIn(ctx context.Context, productName string) error {
	name := normalize(productName)
	if name == "" {
		return nil
	}
	return l.store.EnsureStockItem(ctx, name)
}

// Summarize builds the per-product movement report: purchases and storage
// arrivals count in, sales and storage departures count out. This is a read
// view over the raw records and can diverge from StockItem balances.
func (l *Ledger) Summarize(ctx context.Context) ([]models.ProductSummary, error) {
	purchases, err := l.store.PurchaseTotalsByProduct(ctx)
	if err != nil {
		return nil, fmt.Errorf("purchase totals: %w", err)
	}
	sales, err := l.store.SaleTotalsByProduct(ctx)
	if err != nil {
		return nil, fmt.Errorf("sale totals: %w", err)
	}
	storageIn, storageOut, err := l.store.StorageTotalsByProduct(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage totals: %w", err)
	}

	names := make(map[string]struct{})
	for n := range purchases {
		names[n] = struct{}{}
	}
	for n := range sales {
		names[n] = struct{}{}
	}
	for n := range storageIn {
		names[n] = struct{}{}
	}

	summaries := make([]models.ProductSummary, 0, len(names))
	for n := range names {
		in := purchases[n] + storageIn[n]
		out := sales[n] + storageOut[n]
		summaries = append(summaries, models.ProductSummary{
			ProductName: n,
			TotalIn:     in,
			TotalOut:    out,
			Available:   in - out,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ProductName < summaries[j].ProductName })
	return summaries, nil
}

// LowStock lists items sitting below their alert threshold.
func (l *Ledger) LowStock(ctx context.Context) ([]models.StockItem, error) {
	return l.store.LowStockItems(ctx)
}

func normalize(productName string) string {
	return strings.TrimSpace(productName)
}
