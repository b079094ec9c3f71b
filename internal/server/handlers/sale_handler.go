package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/coldstore/internal/domain/models"
	"github.com/mamadbah2/coldstore/internal/service/stock"
)

// SaleStore is the slice of the entity store the sales endpoints use.
type SaleStore interface {
	CreateSale(ctx context.Context, sale *models.Sale) error
	ListSales(ctx context.Context, page, limit int, sortBy, order string) ([]models.Sale, int64, error)
	SalesReport(ctx context.Context, from, to time.Time, customerID primitive.ObjectID) ([]models.Sale, error)
	GetCustomer(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
}

// SaleHandler serves the sales ledger endpoints.
type SaleHandler struct {
	store  SaleStore
	ledger *stock.Ledger
	logger *zap.Logger
}

// NewSaleHandler constructs the HTTP handler adapter.
func NewSaleHandler(store SaleStore, ledger *stock.Ledger, logger *zap.Logger) *SaleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleHandler{store: store, ledger: ledger, logger: logger}
}

// Add records a sale. The stock balance is deducted with a conditional
// update before the sale document is written, so an insufficient balance can
// never produce a persisted sale. A failed insert puts the stock back.
func (h *SaleHandler) Add(c *gin.Context) {
	var req models.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	customerID, ok := objectID(c, req.ClientID)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	customer, err := h.store.GetCustomer(ctx, customerID)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	if err := h.ledger.OnSale(ctx, req.Product, req.Quantity); err != nil {
		switch {
		case errors.Is(err, stock.ErrProductNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"message": "product not found in stock"})
		case errors.Is(err, stock.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"message": "insufficient stock for sale"})
		default:
			h.logger.Error("stock decrement failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		}
		return
	}

	saleDate := time.Now().UTC()
	if req.SaleDate != nil {
		saleDate = req.SaleDate.UTC()
	}
	sale := &models.Sale{
		CustomerID:   customerID,
		CustomerName: customer.Name,
		Product:      req.Product,
		Quantity:     req.Quantity,
		Rate:         req.Rate,
		Amount:       req.Quantity * req.Rate,
		SaleDate:     saleDate,
		Remarks:      req.Remarks,
	}
	if err := h.store.CreateSale(ctx, sale); err != nil {
		h.logger.Error("create sale failed, reversing stock", zap.Error(err))
		if revErr := h.ledger.ReverseSale(ctx, req.Product, req.Quantity); revErr != nil {
			h.logger.Error("stock reversal failed", zap.Error(revErr))
		}
		writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sale)
}

// All lists sales with pagination and sorting from the query string.
func (h *SaleHandler) All(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	sortBy := c.DefaultQuery("sortBy", "saleDate")
	order := c.DefaultQuery("order", "desc")

	sales, total, err := h.store.ListSales(c.Request.Context(), page, limit, sortBy, order)
	if err != nil {
		h.logger.Error("list sales failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}

	if limit <= 0 {
		limit = 20
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, models.SaleListing{
		Sales:      sales,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	})
}

// Report filters sales by date range and optional customer.
func (h *SaleHandler) Report(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	customerID := primitive.NilObjectID
	if raw := c.Query("customerId"); raw != "" {
		var idOK bool
		customerID, idOK = objectID(c, raw)
		if !idOK {
			return
		}
	}

	sales, err := h.store.SalesReport(c.Request.Context(), from, to, customerID)
	if err != nil {
		h.logger.Error("sales report failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}
