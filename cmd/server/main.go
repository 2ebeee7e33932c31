package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/fueldepot/internal/calc"
	"github.com/mamadbah2/fueldepot/internal/config"
	"github.com/mamadbah2/fueldepot/internal/repository/mongodb"
	"github.com/mamadbah2/fueldepot/internal/repository/sheets"
	"github.com/mamadbah2/fueldepot/internal/scheduler"
	"github.com/mamadbah2/fueldepot/internal/server/handlers"
	"github.com/mamadbah2/fueldepot/internal/server/router"
	accountssvc "github.com/mamadbah2/fueldepot/internal/service/accounts"
	commandsvc "github.com/mamadbah2/fueldepot/internal/service/commands"
	fleetsvc "github.com/mamadbah2/fueldepot/internal/service/fleet"
	inventorysvc "github.com/mamadbah2/fueldepot/internal/service/inventory"
	reportingsvc "github.com/mamadbah2/fueldepot/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/fueldepot/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/fueldepot/pkg/clients/whatsapp"
	"github.com/mamadbah2/fueldepot/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 15*time.Second)
	mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	cancelConnect()
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var exporter reportingsvc.Exporter
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		exporter = sheets.NewReportExporter(sheetsRepo, cfg.Sheets.ReportRange, baseLogger.Named("repo.sheets.export"))
	} else {
		baseLogger.Warn("google sheets not configured, report export disabled")
	}

	thresholds := calc.Thresholds{
		OilChangeNearFraction: cfg.Calculation.OilChangeNearFraction,
		DocumentNearWindow:    cfg.Calculation.DocumentNearWindow(),
	}

	inventorySvc := inventorysvc.NewService(mongoRepo, baseLogger.Named("svc.inventory"))
	fleetSvc := fleetsvc.NewService(mongoRepo, thresholds, baseLogger.Named("svc.fleet"))
	accountsSvc := accountssvc.NewService(mongoRepo, baseLogger.Named("svc.accounts"))
	reportingSvc := reportingsvc.NewService(inventorySvc, accountsSvc, fleetSvc, mongoRepo, exporter, baseLogger.Named("svc.reporting"))

	routes := router.Handlers{
		Inventory:   handlers.NewInventoryHandler(inventorySvc, baseLogger.Named("handlers.inventory")),
		Conversions: handlers.NewConversionHandler(cfg.Calculation.DefaultKgPerUnit, baseLogger.Named("handlers.conversions")),
		Fleet:       handlers.NewFleetHandler(fleetSvc, baseLogger.Named("handlers.fleet")),
		Accounts:    handlers.NewAccountsHandler(accountsSvc, baseLogger.Named("handlers.accounts")),
	}

	var notifier scheduler.Notifier
	if cfg.WhatsApp.Enabled() {
		commandDispatcher := commandsvc.NewService(inventorySvc, accountsSvc, fleetSvc, cfg.Calculation.DefaultKgPerUnit, baseLogger.Named("svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, baseLogger.Named("svc.whatsapp"))
		routes.Webhook = handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.whatsapp"))
		notifier = messagingSvc
	} else {
		baseLogger.Warn("whatsapp not configured, commands and report delivery disabled")
	}

	engine := router.New(routes, cfg.Server, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(*cfg, reportingSvc, notifier, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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
