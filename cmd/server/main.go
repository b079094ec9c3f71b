package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/coldstore/internal/config"
	"github.com/mamadbah2/coldstore/internal/repository/mongodb"
	"github.com/mamadbah2/coldstore/internal/repository/sheets"
	"github.com/mamadbah2/coldstore/internal/scheduler"
	"github.com/mamadbah2/coldstore/internal/server/handlers"
	"github.com/mamadbah2/coldstore/internal/server/router"
	"github.com/mamadbah2/coldstore/internal/service/accounting"
	authsvc "github.com/mamadbah2/coldstore/internal/service/auth"
	ledgersvc "github.com/mamadbah2/coldstore/internal/service/ledger"
	reportingsvc "github.com/mamadbah2/coldstore/internal/service/reporting"
	stocksvc "github.com/mamadbah2/coldstore/internal/service/stock"
	"github.com/mamadbah2/coldstore/pkg/clients/mailer"
	"github.com/mamadbah2/coldstore/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, err := mongodb.NewRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var exporter sheets.Exporter
	if cfg.Sheets.Enabled() {
		exporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
	} else {
		baseLogger.Warn("sheets credentials missing, daily snapshot export disabled")
	}

	mailClient := mailer.NewClient(cfg.Mailer)

	engine := accounting.NewEngine(repo)
	stockLedger := stocksvc.NewLedger(repo, baseLogger.Named("svc.stock"))
	farmerLedger := ledgersvc.NewService(repo, engine, baseLogger.Named("svc.ledger"))
	authService := authsvc.NewService(cfg.Auth, mailClient, baseLogger.Named("svc.auth"))
	reportingService := reportingsvc.NewService(stockLedger, farmerLedger, exporter, mailClient,
		cfg.Reporting.AlertEmail, baseLogger.Named("svc.reporting"))

	h := router.Handlers{
		Auth:      handlers.NewAuthHandler(authService, baseLogger.Named("handlers.auth")),
		Farmers:   handlers.NewFarmerHandler(repo, farmerLedger, baseLogger.Named("handlers.farmers")),
		Customers: handlers.NewCustomerHandler(repo, baseLogger.Named("handlers.customers")),
		Storage:   handlers.NewStorageHandler(repo, engine, stockLedger, baseLogger.Named("handlers.storage")),
		Purchases: handlers.NewPurchaseHandler(repo, stockLedger, baseLogger.Named("handlers.purchases")),
		Sales:     handlers.NewSaleHandler(repo, stockLedger, baseLogger.Named("handlers.sales")),
		Stock:     handlers.NewStockHandler(repo, stockLedger, baseLogger.Named("handlers.stock")),
		Payments:  handlers.NewPaymentHandler(repo, baseLogger.Named("handlers.payments")),
		ColdRooms: handlers.NewColdRoomHandler(repo, baseLogger.Named("handlers.coldrooms")),
		Dashboard: handlers.NewDashboardHandler(farmerLedger, baseLogger.Named("handlers.dashboard")),
		Reports:   handlers.NewReportHandler(reportingService, baseLogger.Named("handlers.reports")),
	}

	ginEngine := router.New(h, authService, cfg, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, reportingService, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      ginEngine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
