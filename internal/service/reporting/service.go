package reporting

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/coldstore/internal/repository/sheets"
	"github.com/mamadbah2/coldstore/internal/service/ledger"
	"github.com/mamadbah2/coldstore/internal/service/stock"
)

const stockSheetRange = "StockSummary!A:F"

// Mailer delivers alert emails.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Service composes the stock summary and farmer ledger into exportable
// reports: XLSX downloads for the UI and nightly rows for the spreadsheet.
type Service struct {
	stockLedger *stock.Ledger
	farmerSvc   *ledger.Service
	exporter    sheets.Exporter
	mailer      Mailer
	alertEmail  string
	logger      *zap.Logger
	now         func() time.Time
}

// NewService wires the reporting service. exporter may be nil when the sheet
// export is not configured; alertEmail empty disables low-stock mails.
func NewService(stockLedger *stock.Ledger, farmerSvc *ledger.Service, exporter sheets.Exporter, mailer Mailer, alertEmail string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		stockLedger: stockLedger,
		farmerSvc:   farmerSvc,
		exporter:    exporter,
		mailer:      mailer,
		alertEmail:  alertEmail,
		logger:      logger,
		now:         time.Now,
	}
}

// StockSummaryXLSX renders the per-product movement summary as a workbook.
func (s *Service) StockSummaryXLSX(ctx context.Context) ([]byte, error) {
	summaries, err := s.stockLedger.Summarize(ctx)
	if err != nil {
		return nil, fmt.Errorf("build stock summary: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	header := []interface{}{"product", "total_in_kg", "total_out_kg", "available_kg"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, summary := range summaries {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		values := []interface{}{summary.ProductName, summary.TotalIn, summary.TotalOut, summary.Available}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FarmerLedgerXLSX renders one farmer's rollup as a workbook.
func (s *Service) FarmerLedgerXLSX(ctx context.Context, farmerID primitive.ObjectID) ([]byte, error) {
	farmerLedger, err := s.farmerSvc.FarmerLedger(ctx, farmerID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows := [][]interface{}{
		{"farmer", farmerLedger.FarmerName},
		{"storage entries", farmerLedger.StorageEntries},
		{"total rent", farmerLedger.TotalRent},
		{"total purchases", farmerLedger.TotalPurchases},
		{"total paid", farmerLedger.TotalPaid},
		{"outstanding", farmerLedger.Outstanding},
	}
	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		row := values
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// DailySnapshot appends the stock summary to the configured spreadsheet and
// mails a low-stock alert when any item sits below its threshold. Called by
// the scheduler.
func (s *Service) DailySnapshot(ctx context.Context) error {
	summaries, err := s.stockLedger.Summarize(ctx)
	if err != nil {
		return fmt.Errorf("build stock summary: %w", err)
	}

	if s.exporter != nil {
		date := s.now().UTC().Format("2006-01-02")
		rows := make([][]interface{}, 0, len(summaries))
		for _, summary := range summaries {
			rows = append(rows, []interface{}{
				date, summary.ProductName, summary.TotalIn, summary.TotalOut, summary.Available,
			})
		}
		if err := s.exporter.AppendRows(ctx, stockSheetRange, rows); err != nil {
			return fmt.Errorf("export snapshot: %w", err)
		}
		s.logger.Info("stock snapshot exported", zap.Int("products", len(rows)))
	}

	if s.alertEmail == "" || s.mailer == nil {
		return nil
	}

	low, err := s.stockLedger.LowStock(ctx)
	if err != nil {
		return fmt.Errorf("low stock lookup: %w", err)
	}
	if len(low) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("Products below their stock alert threshold:\n\n")
	for _, item := range low {
		fmt.Fprintf(&b, "- %s: %.1f kg on hand (alert at %.1f kg)\n", item.ProductName, item.CurrentStock, item.MinStockAlert)
	}
	if err := s.mailer.SendEmail(ctx, s.alertEmail, "Low stock alert", b.String()); err != nil {
		return fmt.Errorf("send low stock alert: %w", err)
	}
	s.logger.Info("low stock alert sent", zap.Int("products", len(low)))
	return nil
}
