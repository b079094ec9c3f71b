package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/coldstore/internal/domain/models"
	"github.com/mamadbah2/coldstore/internal/service/stock"
)

// StockStore is the slice of the entity store the stock endpoints use.
type StockStore interface {
	CreateStockItem(ctx context.Context, item *models.StockItem) error
	ListStockItems(ctx context.Context) ([]models.StockItem, error)
	UpdateStockItem(ctx context.Context, id primitive.ObjectID, req models.UpdateStockItemRequest) (*models.StockItem, error)
}

// StockHandler serves the stock bookkeeping endpoints.
type StockHandler struct {
	store  StockStore
	ledger *stock.Ledger
	logger *zap.Logger
}

// NewStockHandler constructs the HTTP handler adapter.
func NewStockHandler(store StockStore, ledger *stock.Ledger, logger *zap.Logger) *StockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockHandler{store: store, ledger: ledger, logger: logger}
}

// Add declares a stock item manually. Duplicate product names are a 400.
func (h *StockHandler) Add(c *gin.Context) {
	var req models.CreateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	minAlert := req.MinStockAlert
	if minAlert == 0 {
		minAlert = models.DefaultMinStockAlert
	}
	item := &models.StockItem{
		ProductName:   req.ProductName,
		Description:   req.Description,
		CurrentStock:  req.CurrentStock,
		MinStockAlert: minAlert,
	}
	if err := h.store.CreateStockItem(c.Request.Context(), item); err != nil {
		h.logger.Warn("create stock item failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// All lists every stock item with its current balance.
func (h *StockHandler) All(c *gin.Context) {
	items, err := h.store.ListStockItems(c.Request.Context())
	if err != nil {
		h.logger.Error("list stock items failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Summary returns the per-product movement report. This is a view over raw
// purchase/sale/storage records, not the StockItem balances.
func (h *StockHandler) Summary(c *gin.Context) {
	summaries, err := h.ledger.Summarize(c.Request.Context())
	if err != nil {
		h.logger.Error("stock summary failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// Update adjusts a stock item's description or alert threshold.
func (h *StockHandler) Update(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}

	var req models.UpdateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	item, err := h.store.UpdateStockItem(c.Request.Context(), id, req)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Alerts lists items below their alert threshold.
func (h *StockHandler) Alerts(c *gin.Context) {
	items, err := h.ledger.LowStock(c.Request.Context())
	if err != nil {
		h.logger.Error("low stock lookup failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
