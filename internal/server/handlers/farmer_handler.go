package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/coldstore/internal/domain/models"
	"github.com/mamadbah2/coldstore/internal/service/ledger"
)

// FarmerStore is the slice of the entity store the farmer endpoints use.
type FarmerStore interface {
	CreateFarmer(ctx context.Context, farmer *models.Farmer) error
	ListFarmers(ctx context.Context) ([]models.Farmer, error)
	GetFarmer(ctx context.Context, id primitive.ObjectID) (*models.Farmer, error)
	UpdateFarmer(ctx context.Context, id primitive.ObjectID, req models.UpdateFarmerRequest) (*models.Farmer, error)
	DeleteFarmer(ctx context.Context, id primitive.ObjectID) error
}

// FarmerHandler serves the farmer registry endpoints.
type FarmerHandler struct {
	store     FarmerStore
	ledgerSvc *ledger.Service
	logger    *zap.Logger
}

// NewFarmerHandler constructs the HTTP handler adapter.
func NewFarmerHandler(store FarmerStore, ledgerSvc *ledger.Service, logger *zap.Logger) *FarmerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FarmerHandler{store: store, ledgerSvc: ledgerSvc, logger: logger}
}

// Add creates a farmer. Duplicate phone/aadhaar/email is a 400.
func (h *FarmerHandler) Add(c *gin.Context) {
	var req models.CreateFarmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	farmer := &models.Farmer{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Aadhaar: req.Aadhaar,
		Email:   req.Email,
	}
	if err := h.store.CreateFarmer(c.Request.Context(), farmer); err != nil {
		h.logger.Warn("create farmer failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, farmer)
}

// All lists every farmer.
func (h *FarmerHandler) All(c *gin.Context) {
	farmers, err := h.store.ListFarmers(c.Request.Context())
	if err != nil {
		h.logger.Error("list farmers failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, farmers)
}

// Get fetches one farmer by id.
func (h *FarmerHandler) Get(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}

	farmer, err := h.store.GetFarmer(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, farmer)
}

// Update applies a partial update to a farmer.
func (h *FarmerHandler) Update(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}

	var req models.UpdateFarmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	farmer, err := h.store.UpdateFarmer(c.Request.Context(), id, req)
	if err != nil {
		h.logger.Warn("update farmer failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, farmer)
}

// Delete removes a farmer.
func (h *FarmerHandler) Delete(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}

	if err := h.store.DeleteFarmer(c.Request.Context(), id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "farmer deleted"})
}

// Ledger returns the rent/purchase/payment rollup for one farmer.
func (h *FarmerHandler) Ledger(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}

	summary, err := h.ledgerSvc.FarmerLedger(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("farmer ledger failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
