package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/coldstore/internal/domain/models"
	"github.com/mamadbah2/coldstore/internal/service/accounting"
)

type mockStore struct {
	farmers   map[primitive.ObjectID]*models.Farmer
	entries   map[primitive.ObjectID][]models.StorageEntry
	purchases map[primitive.ObjectID][]models.Purchase
	payments  map[primitive.ObjectID][]models.Payment

	farmerCount   int64
	customerCount int64
	activeEntries int64
	kgStored      float64
	occupied      int64
	totalRooms    int64
	revenue       float64
}

func newMockStore() *mockStore {
	return &mockStore{
		farmers:   make(map[primitive.ObjectID]*models.Farmer),
		entries:   make(map[primitive.ObjectID][]models.StorageEntry),
		purchases: make(map[primitive.ObjectID][]models.Purchase),
		payments:  make(map[primitive.ObjectID][]models.Payment),
	}
}

func (m *mockStore) GetFarmer(_ context.Context, id primitive.ObjectID) (*models.Farmer, error) {
	f, ok := m.farmers[id]
	if !ok {
		return nil, assert.AnError
	}
	return f, nil
}

func (m *mockStore) StorageEntriesByFarmer(_ context.Context, id primitive.ObjectID) ([]models.StorageEntry, error) {
	return m.entries[id], nil
}

func (m *mockStore) PurchasesByFarmer(_ context.Context, id primitive.ObjectID) ([]models.Purchase, error) {
	return m.purchases[id], nil
}

func (m *mockStore) PaymentsByFarmer(_ context.Context, id primitive.ObjectID) ([]models.Payment, error) {
	return m.payments[id], nil
}

func (m *mockStore) CountFarmers(context.Context) (int64, error)   { return m.farmerCount, nil }
func (m *mockStore) CountCustomers(context.Context) (int64, error) { return m.customerCount, nil }

func (m *mockStore) ActiveStorageStats(context.Context) (int64, float64, error) {
	return m.activeEntries, m.kgStored, nil
}

func (m *mockStore) ColdRoomOccupancy(context.Context) (int64, int64, error) {
	return m.occupied, m.totalRooms, nil
}

func (m *mockStore) SalesRevenue(context.Context) (float64, error) { return m.revenue, nil }

func (m *mockStore) CountPurchasesSince(context.Context, time.Time) (int64, error) { return 0, nil }
func (m *mockStore) CountSalesSince(context.Context, time.Time) (int64, error)     { return 0, nil }

// The accounting engine only consults its store for capacity checks, which
// the ledger rollup never performs.
type noopQuantityStore struct{}

func (noopQuantityStore) ActiveRoomQuantity(context.Context, string, primitive.ObjectID) (float64, error) {
	return 0, nil
}

func TestFarmerLedgerStorageRent(t *testing.T) {
	store := newMockStore()
	farmerID := primitive.NewObjectID()
	store.farmers[farmerID] = &models.Farmer{ID: farmerID, Name: "Ramesh"}

	in := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := in.Add(10 * 24 * time.Hour)
	store.entries[farmerID] = []models.StorageEntry{{
		FarmerID:    farmerID,
		Product:     "Potato",
		QuantityKg:  500,
		StorageDate: in,
		OutDate:     &out,
		Room:        "Room-1",
		RatePerKg:   2,
	}}

	svc := NewService(store, accounting.NewEngine(noopQuantityStore{}), nil)
	ledger, err := svc.FarmerLedger(context.Background(), farmerID)
	require.NoError(t, err)

	// 500 kg x 2/kg/day x 10 days.
	assert.Equal(t, 10000.0, ledger.TotalRent)
	assert.Equal(t, 10000.0, ledger.Outstanding)
	assert.Equal(t, "Ramesh", ledger.FarmerName)
	assert.Equal(t, 1, ledger.StorageEntries)
}

func TestFarmerLedgerCombinesSources(t *testing.T) {
	store := newMockStore()
	farmerID := primitive.NewObjectID()
	store.farmers[farmerID] = &models.Farmer{ID: farmerID, Name: "Suresh"}

	in := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	out := in.Add(5 * 24 * time.Hour)
	store.entries[farmerID] = []models.StorageEntry{{
		FarmerID: farmerID, Product: "Onion", QuantityKg: 100, StorageDate: in, OutDate: &out, RatePerKg: 1,
	}}
	store.purchases[farmerID] = []models.Purchase{{FarmerID: farmerID, Amount: 2500}}
	store.payments[farmerID] = []models.Payment{{FarmerID: farmerID, Amount: 1000}}

	svc := NewService(store, accounting.NewEngine(noopQuantityStore{}), nil)
	ledger, err := svc.FarmerLedger(context.Background(), farmerID)
	require.NoError(t, err)

	assert.Equal(t, 500.0, ledger.TotalRent)
	assert.Equal(t, 2500.0, ledger.TotalPurchases)
	assert.Equal(t, 1000.0, ledger.TotalPaid)
	assert.Equal(t, 2000.0, ledger.Outstanding)
}

func TestFarmerLedgerZeroRecords(t *testing.T) {
	store := newMockStore()
	farmerID := primitive.NewObjectID()
	store.farmers[farmerID] = &models.Farmer{ID: farmerID, Name: "Empty"}

	svc := NewService(store, accounting.NewEngine(noopQuantityStore{}), nil)
	ledger, err := svc.FarmerLedger(context.Background(), farmerID)
	require.NoError(t, err)

	assert.Zero(t, ledger.TotalRent)
	assert.Zero(t, ledger.TotalPurchases)
	assert.Zero(t, ledger.TotalPaid)
	assert.Zero(t, ledger.Outstanding)
}

func TestDashboard(t *testing.T) {
	store := newMockStore()
	store.farmerCount = 12
	store.customerCount = 7
	store.activeEntries = 30
	store.kgStored = 8400
	store.occupied = 2
	store.totalRooms = 3
	store.revenue = 125000

	svc := NewService(store, accounting.NewEngine(noopQuantityStore{}), nil)
	summary, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(12), summary.TotalFarmers)
	assert.Equal(t, int64(7), summary.TotalCustomers)
	assert.Equal(t, int64(30), summary.ActiveEntries)
	assert.Equal(t, 8400.0, summary.TotalKgStored)
	assert.Equal(t, int64(2), summary.OccupiedRooms)
	assert.Equal(t, int64(3), summary.TotalRooms)
	assert.Equal(t, 125000.0, summary.TotalSalesRevenue)
}
