package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/coldstore/internal/domain/models"
)

// PaymentStore is the slice of the entity store the payment endpoints use.
type PaymentStore interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	ListPayments(ctx context.Context) ([]models.Payment, error)
	PaymentsByFarmer(ctx context.Context, farmerID primitive.ObjectID) ([]models.Payment, error)
	GetFarmer(ctx context.Context, id primitive.ObjectID) (*models.Farmer, error)
}

// PaymentHandler serves the farmer payment endpoints.
type PaymentHandler struct {
	store  PaymentStore
	logger *zap.Logger
}

// NewPaymentHandler constructs the HTTP handler adapter.
func NewPaymentHandler(store PaymentStore, logger *zap.Logger) *PaymentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentHandler{store: store, logger: logger}
}

// Add records a payment received against a farmer's ledger.
func (h *PaymentHandler) Add(c *gin.Context) {
	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	farmerID, ok := objectID(c, req.FarmerID)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.GetFarmer(ctx, farmerID); err != nil {
		writeStoreError(c, err)
		return
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}
	payment := &models.Payment{
		FarmerID: farmerID,
		Amount:   req.Amount,
		Date:     date,
		Remarks:  req.Remarks,
	}
	if err := h.store.CreatePayment(ctx, payment); err != nil {
		h.logger.Error("create payment failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// All lists every payment.
func (h *PaymentHandler) All(c *gin.Context) {
	payments, err := h.store.ListPayments(c.Request.Context())
	if err != nil {
		h.logger.Error("list payments failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// ByFarmer lists the payments received from one farmer.
func (h *PaymentHandler) ByFarmer(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}

	payments, err := h.store.PaymentsByFarmer(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("payments by farmer failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}
