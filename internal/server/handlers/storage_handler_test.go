package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/coldstore/internal/domain/models"
	"github.com/mamadbah2/coldstore/internal/repository/mongodb"
	"github.com/mamadbah2/coldstore/internal/service/accounting"
	"github.com/mamadbah2/coldstore/internal/service/stock"
)

type fakeStorageStore struct {
	farmers map[primitive.ObjectID]models.Farmer
	entries []models.StorageEntry

	stockItems map[string]float64
}

func newFakeStorageStore() *fakeStorageStore {
	return &fakeStorageStore{
		farmers:    make(map[primitive.ObjectID]models.Farmer),
		stockItems: make(map[string]float64),
	}
}

func (s *fakeStorageStore) CreateStorageEntry(_ context.Context, entry *models.StorageEntry) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now().UTC()
	entry.UpdatedAt = entry.CreatedAt
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *fakeStorageStore) ListStorageEntries(context.Context) ([]models.StorageEntry, error) {
	return s.entries, nil
}

func (s *fakeStorageStore) GetStorageEntry(_ context.Context, id primitive.ObjectID) (*models.StorageEntry, error) {
	for i := range s.entries {
		if s.entries[i].ID == id {
			entry := s.entries[i]
			return &entry, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

func (s *fakeStorageStore) UpdateStorageEntry(ctx context.Context, id primitive.ObjectID, req models.UpdateStorageEntryRequest) (*models.StorageEntry, error) {
	for i := range s.entries {
		if s.entries[i].ID != id {
			continue
		}
		if req.Room != nil {
			s.entries[i].Room = *req.Room
		}
		if req.Quantity != nil {
			s.entries[i].QuantityKg = *req.Quantity
		}
		if req.OutDate != nil {
			s.entries[i].OutDate = req.OutDate
		}
		entry := s.entries[i]
		return &entry, nil
	}
	return nil, mongodb.ErrNotFound
}

func (s *fakeStorageStore) DeleteStorageEntry(_ context.Context, id primitive.ObjectID) error {
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return mongodb.ErrNotFound
}

func (s *fakeStorageStore) GetFarmer(_ context.Context, id primitive.ObjectID) (*models.Farmer, error) {
	farmer, ok := s.farmers[id]
	if !ok {
		return nil, mongodb.ErrNotFound
	}
	return &farmer, nil
}

func (s *fakeStorageStore) FarmersByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Farmer, error) {
	out := make(map[primitive.ObjectID]models.Farmer, len(ids))
	for _, id := range ids {
		if farmer, ok := s.farmers[id]; ok {
			out[id] = farmer
		}
	}
	return out, nil
}

func (s *fakeStorageStore) ActiveRoomQuantity(_ context.Context, room string, exclude primitive.ObjectID) (float64, error) {
	var total float64
	for _, entry := range s.entries {
		if entry.Room == room && entry.Active() && entry.ID != exclude {
			total += entry.QuantityKg
		}
	}
	return total, nil
}

// The handler only touches EnsureStockItem; the rest satisfy stock.Store.
func (s *fakeStorageStore) EnsureStockItem(_ context.Context, productName string) error {
	if _, ok := s.stockItems[productName]; !ok {
		s.stockItems[productName] = 0
	}
	return nil
}

func (s *fakeStorageStore) AddStock(_ context.Context, productName string, qty float64) error {
	s.stockItems[productName] += qty
	return nil
}

func (s *fakeStorageStore) DecrementStockIfSufficient(_ context.Context, productName string, qty float64) (bool, error) {
	balance, ok := s.stockItems[productName]
	if !ok || balance < qty {
		return false, nil
	}
	s.stockItems[productName] = balance - qty
	return true, nil
}

func (s *fakeStorageStore) IncrementStock(_ context.Context, productName string, qty float64) error {
	s.stockItems[productName] += qty
	return nil
}

func (s *fakeStorageStore) FindStockItem(_ context.Context, productName string) (*models.StockItem, error) {
	if _, ok := s.stockItems[productName]; !ok {
		return nil, mongodb.ErrNotFound
	}
	return &models.StockItem{ProductName: productName, CurrentStock: s.stockItems[productName]}, nil
}

func (s *fakeStorageStore) LowStockItems(context.Context) ([]models.StockItem, error) {
	return nil, nil
}

func (s *fakeStorageStore) PurchaseTotalsByProduct(context.Context) (map[string]float64, error) {
	return map[string]float64{}, nil
}

func (s *fakeStorageStore) SaleTotalsByProduct(context.Context) (map[string]float64, error) {
	return map[string]float64{}, nil
}

func (s *fakeStorageStore) StorageTotalsByProduct(context.Context) (map[string]float64, map[string]float64, error) {
	return map[string]float64{}, map[string]float64{}, nil
}

func newStorageRouter(store *fakeStorageStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewStorageHandler(store, accounting.NewEngine(store), stock.NewLedger(store, nil), nil)

	r := gin.New()
	r.POST("/storage/add", handler.Add)
	r.GET("/storage/all", handler.All)
	r.PUT("/storage/update/:id", handler.Update)
	r.DELETE("/storage/:id", handler.Delete)
	return r
}

func seedFarmer(store *fakeStorageStore) primitive.ObjectID {
	id := primitive.NewObjectID()
	store.farmers[id] = models.Farmer{ID: id, Name: "Ravi Kumar", Phone: "9876500001"}
	return id
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestStorageAddCreatesEntryAndStockItem(t *testing.T) {
	store := newFakeStorageStore()
	farmerID := seedFarmer(store)
	r := newStorageRouter(store)

	rec := postJSON(t, r, "/storage/add", gin.H{
		"farmerId": farmerID.Hex(),
		"product":  "Potato",
		"quantity": 1200.0,
		"room":     "Room-1",
		"rate":     2.0,
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view models.StorageEntryView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "Potato", view.Product)
	assert.Equal(t, 1200.0, view.QuantityKg)
	assert.Equal(t, 1, view.DaysStored)
	assert.Equal(t, 2400.0, view.RentAmount)

	_, created := store.stockItems["Potato"]
	assert.True(t, created, "storage arrival should auto-create the stock item")
	assert.Zero(t, store.stockItems["Potato"], "auto-created item starts at zero balance")
}

func TestStorageAddCapacityEnforcement(t *testing.T) {
	store := newFakeStorageStore()
	farmerID := seedFarmer(store)
	r := newStorageRouter(store)

	rec := postJSON(t, r, "/storage/add", gin.H{
		"farmerId": farmerID.Hex(),
		"product":  "Onion",
		"quantity": 2200.0,
		"room":     "Room-3",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = postJSON(t, r, "/storage/add", gin.H{
		"farmerId": farmerID.Hex(),
		"product":  "Onion",
		"quantity": 1000.0,
		"room":     "Room-3",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Message     string  `json:"message"`
		AvailableKg float64 `json:"availableKg"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 800.0, resp.AvailableKg)
	assert.Contains(t, resp.Message, "Room-3")
	assert.Len(t, store.entries, 1, "rejected entry must not be persisted")
}

func TestStorageAddCheckedOutEntrySkipsCapacity(t *testing.T) {
	store := newFakeStorageStore()
	farmerID := seedFarmer(store)
	r := newStorageRouter(store)

	in := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := in.AddDate(0, 0, 5)
	rec := postJSON(t, r, "/storage/add", gin.H{
		"farmerId":    farmerID.Hex(),
		"product":     "Onion",
		"quantity":    9000.0,
		"room":        "Room-3",
		"storageDate": in,
		"outDate":     out,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestStorageAddRejectsOutDateBeforeStorageDate(t *testing.T) {
	store := newFakeStorageStore()
	farmerID := seedFarmer(store)
	r := newStorageRouter(store)

	in := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	out := in.AddDate(0, 0, -1)
	rec := postJSON(t, r, "/storage/add", gin.H{
		"farmerId":    farmerID.Hex(),
		"product":     "Onion",
		"quantity":    100.0,
		"storageDate": in,
		"outDate":     out,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStorageAddMissingFields(t *testing.T) {
	store := newFakeStorageStore()
	r := newStorageRouter(store)

	rec := postJSON(t, r, "/storage/add", gin.H{"product": "Potato"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStorageAddUnknownFarmer(t *testing.T) {
	store := newFakeStorageStore()
	r := newStorageRouter(store)

	rec := postJSON(t, r, "/storage/add", gin.H{
		"farmerId": primitive.NewObjectID().Hex(),
		"product":  "Potato",
		"quantity": 100.0,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStorageAllPopulatesFarmer(t *testing.T) {
	store := newFakeStorageStore()
	farmerID := seedFarmer(store)
	r := newStorageRouter(store)

	rec := postJSON(t, r, "/storage/add", gin.H{
		"farmerId": farmerID.Hex(),
		"product":  "Potato",
		"quantity": 500.0,
		"room":     "Room-1",
		"rate":     1.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/storage/all", nil)
	list := httptest.NewRecorder()
	r.ServeHTTP(list, req)
	require.Equal(t, http.StatusOK, list.Code)

	var views []models.StorageEntryView
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &views))
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Farmer)
	assert.Equal(t, "Ravi Kumar", views[0].Farmer.Name)
	assert.Equal(t, farmerID, views[0].Farmer.ID)
}

func TestStorageUpdateRechecksCapacityExcludingSelf(t *testing.T) {
	store := newFakeStorageStore()
	farmerID := seedFarmer(store)
	r := newStorageRouter(store)

	rec := postJSON(t, r, "/storage/add", gin.H{
		"farmerId": farmerID.Hex(),
		"product":  "Onion",
		"quantity": 2500.0,
		"room":     "Room-3",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := store.entries[0].ID.Hex()

	// Growing the same entry to the full room capacity is fine: the entry
	// does not count against itself.
	body, _ := json.Marshal(gin.H{"quantity": 3000.0})
	req := httptest.NewRequest(http.MethodPut, "/storage/update/"+id, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	upd := httptest.NewRecorder()
	r.ServeHTTP(upd, req)
	require.Equal(t, http.StatusOK, upd.Code, upd.Body.String())

	// Going past capacity is still rejected.
	body, _ = json.Marshal(gin.H{"quantity": 3100.0})
	req = httptest.NewRequest(http.MethodPut, "/storage/update/"+id, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	upd = httptest.NewRecorder()
	r.ServeHTTP(upd, req)
	assert.Equal(t, http.StatusBadRequest, upd.Code)
}

func TestStorageDelete(t *testing.T) {
	store := newFakeStorageStore()
	farmerID := seedFarmer(store)
	r := newStorageRouter(store)

	rec := postJSON(t, r, "/storage/add", gin.H{
		"farmerId": farmerID.Hex(),
		"product":  "Potato",
		"quantity": 100.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := store.entries[0].ID.Hex()

	req := httptest.NewRequest(http.MethodDelete, "/storage/"+id, nil)
	del := httptest.NewRecorder()
	r.ServeHTTP(del, req)
	assert.Equal(t, http.StatusOK, del.Code)
	assert.Empty(t, store.entries)
}

func TestStorageInvalidID(t *testing.T) {
	store := newFakeStorageStore()
	r := newStorageRouter(store)

	req := httptest.NewRequest(http.MethodDelete, "/storage/not-an-id", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
