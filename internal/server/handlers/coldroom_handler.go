package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/coldstore/internal/domain/models"
)

// ColdRoomStore is the slice of the entity store the room endpoints use.
type ColdRoomStore interface {
	CreateColdRoom(ctx context.Context, room *models.ColdRoom) error
	ListColdRooms(ctx context.Context) ([]models.ColdRoom, error)
	UpdateColdRoom(ctx context.Context, id primitive.ObjectID, req models.UpdateColdRoomRequest) (*models.ColdRoom, error)
}

// ColdRoomHandler serves the cold-room registry endpoints.
type ColdRoomHandler struct {
	store  ColdRoomStore
	logger *zap.Logger
}

// NewColdRoomHandler constructs the HTTP handler adapter.
func NewColdRoomHandler(store ColdRoomStore, logger *zap.Logger) *ColdRoomHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ColdRoomHandler{store: store, logger: logger}
}

// Add registers a cold room.
func (h *ColdRoomHandler) Add(c *gin.Context) {
	var req models.CreateColdRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	room := &models.ColdRoom{
		RoomNumber: req.RoomNumber,
		CapacityKg: req.Capacity,
		IsOccupied: req.IsOccupied,
	}
	if err := h.store.CreateColdRoom(c.Request.Context(), room); err != nil {
		h.logger.Error("create cold room failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// All lists every cold room.
func (h *ColdRoomHandler) All(c *gin.Context) {
	rooms, err := h.store.ListColdRooms(c.Request.Context())
	if err != nil {
		h.logger.Error("list cold rooms failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// Update adjusts a room's capacity or occupancy flag.
func (h *ColdRoomHandler) Update(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}

	var req models.UpdateColdRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	room, err := h.store.UpdateColdRoom(c.Request.Context(), id, req)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}
