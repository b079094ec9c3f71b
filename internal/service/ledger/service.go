package ledger

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/coldstore/internal/domain/models"
	"github.com/mamadbah2/coldstore/internal/service/accounting"
)

// Store is the read-only slice of the entity store the rollups need.
type Store interface {
	GetFarmer(ctx context.Context, id primitive.ObjectID) (*models.Farmer, error)
	StorageEntriesByFarmer(ctx context.Context, farmerID primitive.ObjectID) ([]models.StorageEntry, error)
	PurchasesByFarmer(ctx context.Context, farmerID primitive.ObjectID) ([]models.Purchase, error)
	PaymentsByFarmer(ctx context.Context, farmerID primitive.ObjectID) ([]models.Payment, error)
	CountFarmers(ctx context.Context) (int64, error)
	CountCustomers(ctx context.Context) (int64, error)
	ActiveStorageStats(ctx context.Context) (int64, float64, error)
	ColdRoomOccupancy(ctx context.Context) (occupied int64, total int64, err error)
	SalesRevenue(ctx context.Context) (float64, error)
	CountPurchasesSince(ctx context.Context, since time.Time) (int64, error)
	CountSalesSince(ctx context.Context, since time.Time) (int64, error)
}

// Service produces read-only rollups: the per-farmer ledger and the
// dashboard summary. No mutation happens here.
type Service struct {
	store  Store
	engine *accounting.Engine
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires the aggregation service.
func NewService(store Store, engine *accounting.Engine, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, engine: engine, logger: logger, now: time.Now}
}

// FarmerLedger rolls up rent owed, purchases owed and payments received for
// one farmer. Farmers with no records get a zero-valued summary, not an error.
func (s *Service) FarmerLedger(ctx context.Context, farmerID primitive.ObjectID) (*models.FarmerLedger, error) {
	farmer, err := s.store.GetFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.StorageEntriesByFarmer(ctx, farmerID)
	if err != nil {
		return nil, fmt.Errorf("ledger storage entries: %w", err)
	}
	purchases, err := s.store.PurchasesByFarmer(ctx, farmerID)
	if err != nil {
		return nil, fmt.Errorf("ledger purchases: %w", err)
	}
	payments, err := s.store.PaymentsByFarmer(ctx, farmerID)
	if err != nil {
		return nil, fmt.Errorf("ledger payments: %w", err)
	}

	summary := &models.FarmerLedger{
		FarmerID:       farmerID,
		FarmerName:     farmer.Name,
		StorageEntries: len(entries),
		Purchases:      len(purchases),
		Payments:       len(payments),
	}

	for _, entry := range entries {
		_, rent := s.engine.EntryRent(entry.StorageDate, entry.OutDate, entry.QuantityKg, entry.RatePerKg)
		summary.TotalRent += rent
	}
	for _, purchase := range purchases {
		summary.TotalPurchases += purchase.Amount
	}
	for _, payment := range payments {
		summary.TotalPaid += payment.Amount
	}
	summary.Outstanding = summary.TotalRent + summary.TotalPurchases - summary.TotalPaid

	return summary, nil
}

// Dashboard aggregates the headline counts for the admin landing page.
func (s *Service) Dashboard(ctx context.Context) (*models.DashboardSummary, error) {
	farmers, err := s.store.CountFarmers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count farmers: %w", err)
	}
	customers, err := s.store.CountCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}
	activeEntries, kgStored, err := s.store.ActiveStorageStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage stats: %w", err)
	}
	occupied, totalRooms, err := s.store.ColdRoomOccupancy(ctx)
	if err != nil {
		return nil, fmt.Errorf("room occupancy: %w", err)
	}
	revenue, err := s.store.SalesRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("sales revenue: %w", err)
	}

	now := s.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	todayPurchases, err := s.store.CountPurchasesSince(ctx, startOfDay)
	if err != nil {
		return nil, fmt.Errorf("today purchases: %w", err)
	}
	todaySales, err := s.store.CountSalesSince(ctx, startOfDay)
	if err != nil {
		return nil, fmt.Errorf("today sales: %w", err)
	}

	return &models.DashboardSummary{
		TotalFarmers:      farmers,
		TotalCustomers:    customers,
		ActiveEntries:     activeEntries,
		TotalKgStored:     kgStored,
		OccupiedRooms:     occupied,
		TotalRooms:        totalRooms,
		TotalSalesRevenue: revenue,
		TodayPurchases:    todayPurchases,
		TodaySales:        todaySales,
		GeneratedAt:       now,
	}, nil
}
