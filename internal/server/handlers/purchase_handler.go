package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/coldstore/internal/domain/models"
	"github.com/mamadbah2/coldstore/internal/service/stock"
)

// PurchaseStore is the slice of the entity store the purchase endpoints use.
type PurchaseStore interface {
	CreatePurchase(ctx context.Context, purchase *models.Purchase) error
	ListPurchases(ctx context.Context) ([]models.Purchase, error)
	PurchasesReport(ctx context.Context, from, to time.Time, farmerID primitive.ObjectID) ([]models.Purchase, error)
	GetFarmer(ctx context.Context, id primitive.ObjectID) (*models.Farmer, error)
	FarmersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Farmer, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PurchaseHandler serves the purchase ledger endpoints.
type PurchaseHandler struct {
	store  PurchaseStore
	ledger *stock.Ledger
	logger *zap.Logger
}

// NewPurchaseHandler constructs the HTTP handler adapter.
func NewPurchaseHandler(store PurchaseStore, ledger *stock.Ledger, logger *zap.Logger) *PurchaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseHandler{store: store, ledger: ledger, logger: logger}
}

// Add records a purchase. TotalWeight and Amount are recomputed server-side;
// the purchase insert and the stock increment commit as one transaction.
func (h *PurchaseHandler) Add(c *gin.Context) {
	var req models.CreatePurchaseRequest
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

	purchaseDate := time.Now().UTC()
	if req.PurchaseDate != nil {
		purchaseDate = req.PurchaseDate.UTC()
	}
	quality := req.Quality
	if quality == "" {
		quality = models.QualityOther
	}

	totalWeight := float64(req.Bags) * req.WeightPerBag
	purchase := &models.Purchase{
		FarmerID:     farmerID,
		PurchaseDate: purchaseDate,
		Variety:      req.Variety,
		Bags:         req.Bags,
		WeightPerBag: req.WeightPerBag,
		TotalWeight:  totalWeight,
		RatePerKg:    req.RatePerKg,
		Amount:       totalWeight * req.RatePerKg,
		Quality:      quality,
		Remarks:      req.Remarks,
	}

	err := h.store.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := h.store.CreatePurchase(txCtx, purchase); err != nil {
			return err
		}
		return h.ledger.OnPurchase(txCtx, purchase.Variety, purchase.TotalWeight)
	})
	if err != nil {
		h.logger.Error("create purchase failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, purchase)
}

// All lists every purchase.
func (h *PurchaseHandler) All(c *gin.Context) {
	purchases, err := h.store.ListPurchases(c.Request.Context())
	if err != nil {
		h.logger.Error("list purchases failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}

// Report filters purchases by date range and optional farmer, with the
// farmer name/phone populated.
func (h *PurchaseHandler) Report(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	farmerID := primitive.NilObjectID
	if raw := c.Query("farmerId"); raw != "" {
		var idOK bool
		farmerID, idOK = objectID(c, raw)
		if !idOK {
			return
		}
	}

	ctx := c.Request.Context()
	purchases, err := h.store.PurchasesReport(ctx, from, to, farmerID)
	if err != nil {
		h.logger.Error("purchases report failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(purchases))
	seen := make(map[primitive.ObjectID]struct{}, len(purchases))
	for _, p := range purchases {
		if _, dup := seen[p.FarmerID]; !dup {
			seen[p.FarmerID] = struct{}{}
			ids = append(ids, p.FarmerID)
		}
	}
	farmers, err := h.store.FarmersByIDs(ctx, ids)
	if err != nil {
		h.logger.Error("populate farmers failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}

	views := make([]models.PurchaseView, 0, len(purchases))
	for _, p := range purchases {
		view := models.PurchaseView{Purchase: p}
		if farmer, found := farmers[p.FarmerID]; found {
			view.Farmer = &models.FarmerRef{ID: farmer.ID, Name: farmer.Name, Phone: farmer.Phone}
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, views)
}

// dateRange parses the optional fromDate/toDate query params (2006-01-02).
// The to bound is pushed to the end of its day so the range is inclusive.
func dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	var from, to time.Time
	if raw := c.Query("fromDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "fromDate must be YYYY-MM-DD"})
			return from, to, false
		}
		from = parsed
	}
	if raw := c.Query("toDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "toDate must be YYYY-MM-DD"})
			return from, to, false
		}
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, true
}
