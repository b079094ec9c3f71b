package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/coldstore/internal/domain/models"
)

// mockStore keeps balances in memory and mirrors the conditional-update
// semantics of the MongoDB store.
type mockStore struct {
	items      map[string]*models.StockItem
	purchases  map[string]float64
	sales      map[string]float64
	storageIn  map[string]float64
	storageOut map[string]float64
}

func newMockStore() *mockStore {
	return &mockStore{
		items:      make(map[string]*models.StockItem),
		purchases:  make(map[string]float64),
		sales:      make(map[string]float64),
		storageIn:  make(map[string]float64),
		storageOut: make(map[string]float64),
	}
}

func (m *mockStore) AddStock(_ context.Context, name string, qty float64) error {
	if item, ok := m.items[name]; ok {
		item.CurrentStock += qty
		return nil
	}
	m.items[name] = &models.StockItem{
		ProductName:   name,
		CurrentStock:  qty,
		MinStockAlert: models.DefaultMinStockAlert,
	}
	return nil
}

func (m *mockStore) EnsureStockItem(_ context.Context, name string) error {
	if _, ok := m.items[name]; !ok {
		m.items[name] = &models.StockItem{ProductName: name, MinStockAlert: models.DefaultMinStockAlert}
	}
	return nil
}

func (m *mockStore) DecrementStockIfSufficient(_ context.Context, name string, qty float64) (bool, error) {
	item, ok := m.items[name]
	if !ok || item.CurrentStock < qty {
		return false, nil
	}
	item.CurrentStock -= qty
	return true, nil
}

func (m *mockStore) IncrementStock(_ context.Context, name string, qty float64) error {
	if item, ok := m.items[name]; ok {
		item.CurrentStock += qty
	}
	return nil
}

func (m *mockStore) FindStockItem(_ context.Context, name string) (*models.StockItem, error) {
	item, ok := m.items[name]
	if !ok {
		return nil, ErrProductNotFound
	}
	return item, nil
}

func (m *mockStore) LowStockItems(_ context.Context) ([]models.StockItem, error) {
	var out []models.StockItem
	for _, item := range m.items {
		if item.CurrentStock < item.MinStockAlert {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *mockStore) PurchaseTotalsByProduct(_ context.Context) (map[string]float64, error) {
	return m.purchases, nil
}

func (m *mockStore) SaleTotalsByProduct(_ context.Context) (map[string]float64, error) {
	return m.sales, nil
}

func (m *mockStore) StorageTotalsByProduct(_ context.Context) (map[string]float64, map[string]float64, error) {
	return m.storageIn, m.storageOut, nil
}

func TestPurchaseThenSaleRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	ledger := NewLedger(store, nil)

	require.NoError(t, ledger.OnPurchase(ctx, "Potato", 100))
	require.NoError(t, ledger.OnSale(ctx, "Potato", 40))

	item, err := store.FindStockItem(ctx, "Potato")
	require.NoError(t, err)
	assert.Equal(t, 60.0, item.CurrentStock)

	// Overselling is rejected and leaves the balance untouched.
	err = ledger.OnSale(ctx, "Potato", 100)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 60.0, item.CurrentStock)
}

func TestSaleUnknownProduct(t *testing.T) {
	ledger := NewLedger(newMockStore(), nil)
	err := ledger.OnSale(context.Background(), "Onion", 5)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestPurchaseAutoCreatesItem(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	ledger := NewLedger(store, nil)

	require.NoError(t, ledger.OnPurchase(ctx, "  Garlic ", 25))

	item, err := store.FindStockItem(ctx, "Garlic")
	require.NoError(t, err)
	assert.Equal(t, 25.0, item.CurrentStock)
	assert.Equal(t, float64(models.DefaultMinStockAlert), item.MinStockAlert)
}

func TestStorageInCreatesZeroBalance(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	ledger := NewLedger(store, nil)

	require.NoError(t, ledger.OnStorageIn(ctx, "Carrot"))

	item, err := store.FindStockItem(ctx, "Carrot")
	require.NoError(t, err)
	assert.Zero(t, item.CurrentStock)
}

func TestReverseSaleRestoresBalance(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	ledger := NewLedger(store, nil)

	require.NoError(t, ledger.OnPurchase(ctx, "Potato", 100))
	require.NoError(t, ledger.OnSale(ctx, "Potato", 30))
	require.NoError(t, ledger.ReverseSale(ctx, "Potato", 30))

	item, err := store.FindStockItem(ctx, "Potato")
	require.NoError(t, err)
	assert.Equal(t, 100.0, item.CurrentStock)
}

func TestSummarize(t *testing.T) {
	store := newMockStore()
	store.purchases = map[string]float64{"Potato": 900, "Onion": 200}
	store.sales = map[string]float64{"Potato": 300}
	store.storageIn = map[string]float64{"Potato": 500, "Carrot": 120}
	store.storageOut = map[string]float64{"Potato": 500}

	ledger := NewLedger(store, nil)
	summaries, err := ledger.Summarize(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	// Sorted by product name.
	assert.Equal(t, "Carrot", summaries[0].ProductName)
	assert.Equal(t, models.ProductSummary{ProductName: "Carrot", TotalIn: 120, TotalOut: 0, Available: 120}, summaries[0])
	assert.Equal(t, models.ProductSummary{ProductName: "Onion", TotalIn: 200, TotalOut: 0, Available: 200}, summaries[1])
	assert.Equal(t, models.ProductSummary{ProductName: "Potato", TotalIn: 1400, TotalOut: 800, Available: 600}, summaries[2])
}
