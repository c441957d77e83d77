package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"picklab-api/config"
	"picklab-api/internal/auditlog"
	"picklab-api/internal/commoncode"
	"picklab-api/internal/contents"
	"picklab-api/internal/database"
	"picklab-api/internal/logging"
	"picklab-api/internal/spreadsheet"
	"picklab-api/internal/util"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.MigrationURL(), logger); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	}

	db, err := database.Open(cfg.DSN(), !cfg.IsProduction())
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	contentsService := contents.NewContentsService(db, logger)
	commonCodeService := commoncode.NewCommonCodeService(db, logger)
	auditLogService := auditlog.NewAuditLogService(db, logger)
	recorder := auditlog.NewRecorder(auditLogService, contentsService, logger)

	spreadsheetService := &spreadsheet.SpreadsheetService{
		Contents:   contentsService,
		Categories: commonCodeService,
		Bucket:     cfg.ExportBucket,
		Logger:     logger,
	}
	if cfg.ExportBucket != "" {
		store, err := util.NewGCSStore(ctx, cfg.ExportBucket)
		if err != nil {
			logger.Fatal("export bucket unavailable", zap.String("bucket", cfg.ExportBucket), zap.Error(err))
		}
		defer store.Close()
		spreadsheetService.Archives = store
	}

	r := newRouter(cfg, logger, services{
		contents:    contentsService,
		commonCode:  commonCodeService,
		auditLog:    auditLogService,
		spreadsheet: spreadsheetService,
		recorder:    recorder,
		archives:    cfg.ExportBucket != "",
	})

	if cfg.AuditPurgeInterval > 0 {
		go auditlog.RunPurge(ctx, auditLogService, cfg.AuditPurgeInterval, cfg.AuditRetentionMonths, logger)
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				logger.Info("SIGHUP received, refreshing common code schema")
				commonCodeService.InvalidateSchemaCache()
			}
		}
	}()

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	recorder.Wait()
}
