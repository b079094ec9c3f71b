package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/coldstore/internal/service/reporting"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves the XLSX report downloads.
type ReportHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc *reporting.Service, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger}
}

// StockExport streams the per-product stock summary as a workbook.
func (h *ReportHandler) StockExport(c *gin.Context) {
	payload, err := h.svc.StockSummaryXLSX(c.Request.Context())
	if err != nil {
		h.logger.Error("stock export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="stock-summary.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, payload)
}

// FarmerLedgerExport streams one farmer's ledger rollup as a workbook.
func (h *ReportHandler) FarmerLedgerExport(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}

	payload, err := h.svc.FarmerLedgerXLSX(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("farmer ledger export failed", zap.Error(err))
		writeStoreError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ledger-%s.xlsx"`, id.Hex()))
	c.Data(http.StatusOK, xlsxContentType, payload)
}
