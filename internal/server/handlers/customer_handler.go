package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/coldstore/internal/domain/models"
)

// CustomerStore is the slice of the entity store the customer endpoints use.
type CustomerStore interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	UpdateCustomer(ctx context.Context, id primitive.ObjectID, req models.UpdateCustomerRequest) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id primitive.ObjectID) error
}

// CustomerHandler serves the customer registry endpoints.
type CustomerHandler struct {
	store  CustomerStore
	logger *zap.Logger
}

// NewCustomerHandler constructs the HTTP handler adapter.
func NewCustomerHandler(store CustomerStore, logger *zap.Logger) *CustomerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerHandler{store: store, logger: logger}
}

// Add creates a customer. A duplicate phone is a 400 naming the field.
func (h *CustomerHandler) Add(c *gin.Context) {
	var req models.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	customer := &models.Customer{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		GSTIN:       req.GSTIN,
		CreditLimit: req.CreditLimit,
		Remarks:     req.Remarks,
	}
	if err := h.store.CreateCustomer(c.Request.Context(), customer); err != nil {
		h.logger.Warn("create customer failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// All lists every customer.
func (h *CustomerHandler) All(c *gin.Context) {
	customers, err := h.store.ListCustomers(c.Request.Context())
	if err != nil {
		h.logger.Error("list customers failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// Update applies a partial update to a customer.
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}

	var req models.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	customer, err := h.store.UpdateCustomer(c.Request.Context(), id, req)
	if err != nil {
		h.logger.Warn("update customer failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Delete removes a customer.
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}

	if err := h.store.DeleteCustomer(c.Request.Context(), id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "customer deleted"})
}
