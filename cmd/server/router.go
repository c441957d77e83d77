package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"picklab-api/config"
	"picklab-api/internal/auditlog"
	"picklab-api/internal/commoncode"
	"picklab-api/internal/contents"
	"picklab-api/internal/middlewares"
	"picklab-api/internal/spreadsheet"
)

type services struct {
	contents    contents.ContentsServiceAPI
	commonCode  commoncode.CommonCodeServiceAPI
	auditLog    auditlog.AuditLogServiceAPI
	spreadsheet spreadsheet.SpreadsheetServiceAPI
	recorder    *auditlog.Recorder
	archives    bool
}

func newRouter(cfg config.Config, logger *zap.Logger, svc services) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := middlewares.NewMetrics("picklab-api")

	r := gin.New()
	r.Use(
		middlewares.Recovery(logger),
		middlewares.RequestID(),
		middlewares.RequestLogger(logger),
		metrics.Middleware(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middlewares.RequestIDHeader},
			ExposeHeaders:    []string{middlewares.RequestIDHeader, "Content-Disposition"},
			AllowCredentials: true,
		}),
		middlewares.CamelCaseResponse(),
	)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to PickLab API"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Server is running"})
	})
	r.GET("/metrics", metrics.Handler())

	var contentsGroup *gin.RouterGroup
	if svc.recorder != nil {
		contentsGroup = r.Group("/contents", svc.recorder.Middleware())
	} else {
		contentsGroup = r.Group("/contents")
	}

	contents.RegisterRoutes(contentsGroup, svc.contents)
	commoncode.RegisterAdminRoutes(contentsGroup, svc.commonCode)
	spreadsheet.RegisterRoutes(contentsGroup, svc.spreadsheet, svc.archives)

	commoncode.RegisterRoutes(r, svc.commonCode)
	auditlog.RegisterRoutes(r, svc.auditLog)

	return r
}
