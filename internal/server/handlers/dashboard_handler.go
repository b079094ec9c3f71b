package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/coldstore/internal/service/ledger"
)

// DashboardHandler serves the admin landing-page summary.
type DashboardHandler struct {
	ledgerSvc *ledger.Service
	logger    *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(ledgerSvc *ledger.Service, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{ledgerSvc: ledgerSvc, logger: logger}
}

// Summary returns the aggregate counts for the dashboard.
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.ledgerSvc.Dashboard(c.Request.Context())
	if err != nil {
		h.logger.Error("dashboard summary failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
