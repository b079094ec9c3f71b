package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/coldstore/internal/domain/models"
	"github.com/mamadbah2/coldstore/internal/repository/mongodb"
)

type fakeCustomerStore struct {
	customers []models.Customer
}

func (s *fakeCustomerStore) CreateCustomer(_ context.Context, customer *models.Customer) error {
	for _, existing := range s.customers {
		if existing.Phone == customer.Phone {
			return &mongodb.DuplicateError{Field: "phone"}
		}
	}
	customer.ID = primitive.NewObjectID()
	s.customers = append(s.customers, *customer)
	return nil
}

func (s *fakeCustomerStore) ListCustomers(context.Context) ([]models.Customer, error) {
	return s.customers, nil
}

func (s *fakeCustomerStore) UpdateCustomer(_ context.Context, id primitive.ObjectID, req models.UpdateCustomerRequest) (*models.Customer, error) {
	for i := range s.customers {
		if s.customers[i].ID != id {
			continue
		}
		if req.Name != "" {
			s.customers[i].Name = req.Name
		}
		if req.Phone != "" {
			s.customers[i].Phone = req.Phone
		}
		customer := s.customers[i]
		return &customer, nil
	}
	return nil, mongodb.ErrNotFound
}

func (s *fakeCustomerStore) DeleteCustomer(_ context.Context, id primitive.ObjectID) error {
	for i := range s.customers {
		if s.customers[i].ID == id {
			s.customers = append(s.customers[:i], s.customers[i+1:]...)
			return nil
		}
	}
	return mongodb.ErrNotFound
}

func newCustomerRouter(store *fakeCustomerStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewCustomerHandler(store, nil)

	r := gin.New()
	r.POST("/customers/add", handler.Add)
	r.GET("/customers/all", handler.All)
	r.PUT("/customers/update/:id", handler.Update)
	r.DELETE("/customers/delete/:id", handler.Delete)
	return r
}

func TestCustomerAdd(t *testing.T) {
	store := &fakeCustomerStore{}
	r := newCustomerRouter(store)

	rec := postJSON(t, r, "/customers/add", gin.H{
		"name":  "Sharma Traders",
		"phone": "9876500002",
		"city":  "Agra",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var customer models.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customer))
	assert.False(t, customer.ID.IsZero())
	assert.Equal(t, "Agra", customer.City)
}

func TestCustomerAddDuplicatePhone(t *testing.T) {
	store := &fakeCustomerStore{}
	r := newCustomerRouter(store)

	rec := postJSON(t, r, "/customers/add", gin.H{"name": "A", "phone": "9876500002"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, r, "/customers/add", gin.H{"name": "B", "phone": "9876500002"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "phone")
	assert.Len(t, store.customers, 1)
}

func TestCustomerAddMissingPhone(t *testing.T) {
	r := newCustomerRouter(&fakeCustomerStore{})

	rec := postJSON(t, r, "/customers/add", gin.H{"name": "No Phone"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCustomerUpdateNotFound(t *testing.T) {
	r := newCustomerRouter(&fakeCustomerStore{})

	req := httptest.NewRequest(http.MethodPut, "/customers/update/"+primitive.NewObjectID().Hex(),
		bytes.NewReader([]byte(`{"name":"Renamed"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
