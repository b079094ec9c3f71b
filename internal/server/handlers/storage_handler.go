package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/coldstore/internal/domain/models"
	"github.com/mamadbah2/coldstore/internal/service/accounting"
	"github.com/mamadbah2/coldstore/internal/service/stock"
)

// StorageStore is the slice of the entity store the storage endpoints use.
type StorageStore interface {
	CreateStorageEntry(ctx context.Context, entry *models.StorageEntry) error
	ListStorageEntries(ctx context.Context) ([]models.StorageEntry, error)
	GetStorageEntry(ctx context.Context, id primitive.ObjectID) (*models.StorageEntry, error)
	UpdateStorageEntry(ctx context.Context, id primitive.ObjectID, req models.UpdateStorageEntryRequest) (*models.StorageEntry, error)
	DeleteStorageEntry(ctx context.Context, id primitive.ObjectID) error
	GetFarmer(ctx context.Context, id primitive.ObjectID) (*models.Farmer, error)
	FarmersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Farmer, error)
}

// StorageHandler serves the inbound/outbound storage tracking endpoints. It
// orchestrates the entity store, the accounting engine and the stock ledger.
type StorageHandler struct {
	store  StorageStore
	engine *accounting.Engine
	ledger *stock.Ledger
	logger *zap.Logger
}

// NewStorageHandler constructs the HTTP handler adapter.
func NewStorageHandler(store StorageStore, engine *accounting.Engine, ledger *stock.Ledger, logger *zap.Logger) *StorageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorageHandler{store: store, engine: engine, ledger: ledger, logger: logger}
}

// Add creates a storage entry. The room capacity check runs before the
// insert and a room overflow is a 400 carrying the remaining headroom.
func (h *StorageHandler) Add(c *gin.Context) {
	var req models.CreateStorageEntryRequest
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

	storageDate := time.Now().UTC()
	if req.StorageDate != nil {
		storageDate = req.StorageDate.UTC()
	}
	if req.OutDate != nil && req.OutDate.Before(storageDate) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "outDate must not be earlier than storageDate"})
		return
	}

	// Capacity counts active entries only; an entry created already checked
	// out never occupies the room.
	if req.OutDate == nil {
		if err := h.engine.CheckRoomCapacity(ctx, req.Room, req.Quantity, primitive.NilObjectID); err != nil {
			h.writeCapacityError(c, err)
			return
		}
	}

	entry := &models.StorageEntry{
		FarmerID:    farmerID,
		Product:     req.Product,
		QuantityKg:  req.Quantity,
		StorageDate: storageDate,
		OutDate:     req.OutDate,
		Room:        req.Room,
		RatePerKg:   req.Rate,
		Remarks:     req.Remarks,
	}
	if err := h.store.CreateStorageEntry(ctx, entry); err != nil {
		h.logger.Error("create storage entry failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}

	// Auto-create the stock item for unseen products. The entry itself is
	// already persisted; a failure here only loses the side effect.
	if err := h.ledger.OnStorageIn(ctx, entry.Product); err != nil {
		h.logger.Warn("stock item ensure failed", zap.String("product", entry.Product), zap.Error(err))
	}

	c.JSON(http.StatusCreated, h.view(entry, nil))
}

// All lists every entry with its farmer reference populated and the billing
// fields computed at read time.
func (h *StorageHandler) All(c *gin.Context) {
	ctx := c.Request.Context()
	entries, err := h.store.ListStorageEntries(ctx)
	if err != nil {
		h.logger.Error("list storage entries failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(entries))
	seen := make(map[primitive.ObjectID]struct{}, len(entries))
	for _, entry := range entries {
		if _, dup := seen[entry.FarmerID]; !dup {
			seen[entry.FarmerID] = struct{}{}
			ids = append(ids, entry.FarmerID)
		}
	}
	farmers, err := h.store.FarmersByIDs(ctx, ids)
	if err != nil {
		h.logger.Error("populate farmers failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}

	views := make([]models.StorageEntryView, 0, len(entries))
	for i := range entries {
		var ref *models.FarmerRef
		if farmer, ok := farmers[entries[i].FarmerID]; ok {
			ref = &models.FarmerRef{
				ID:      farmer.ID,
				Name:    farmer.Name,
				Phone:   farmer.Phone,
				Email:   farmer.Email,
				Address: farmer.Address,
			}
		}
		views = append(views, h.view(&entries[i], ref))
	}
	c.JSON(http.StatusOK, views)
}

// Update applies a partial update. Changing the room or quantity of an
// active entry re-runs the capacity check against the target room, with the
// entry itself excluded from the occupancy sum.
func (h *StorageHandler) Update(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}

	var req models.UpdateStorageEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	current, err := h.store.GetStorageEntry(ctx, id)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	storageDate := current.StorageDate
	if req.StorageDate != nil {
		storageDate = req.StorageDate.UTC()
	}
	outDate := current.OutDate
	if req.OutDate != nil {
		outDate = req.OutDate
	}
	if outDate != nil && outDate.Before(storageDate) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "outDate must not be earlier than storageDate"})
		return
	}

	room := current.Room
	if req.Room != nil {
		room = *req.Room
	}
	quantity := current.QuantityKg
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	stillActive := outDate == nil
	capacityRelevant := req.Room != nil || req.Quantity != nil
	if stillActive && capacityRelevant {
		if err := h.engine.CheckRoomCapacity(ctx, room, quantity, id); err != nil {
			h.writeCapacityError(c, err)
			return
		}
	}

	entry, err := h.store.UpdateStorageEntry(ctx, id, req)
	if err != nil {
		h.logger.Error("update storage entry failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(entry, nil))
}

// Delete removes a storage entry.
func (h *StorageHandler) Delete(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}

	if err := h.store.DeleteStorageEntry(c.Request.Context(), id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "storage entry deleted"})
}

func (h *StorageHandler) view(entry *models.StorageEntry, farmer *models.FarmerRef) models.StorageEntryView {
	days, rent := h.engine.EntryRent(entry.StorageDate, entry.OutDate, entry.QuantityKg, entry.RatePerKg)
	return models.StorageEntryView{
		StorageEntry: *entry,
		Farmer:       farmer,
		DaysStored:   days,
		RentAmount:   rent,
	}
}

func (h *StorageHandler) writeCapacityError(c *gin.Context, err error) {
	var full *accounting.RoomFullError
	if errors.As(err, &full) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":     full.Error(),
			"availableKg": full.AvailableKg,
		})
		return
	}
	h.logger.Error("capacity check failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
}
