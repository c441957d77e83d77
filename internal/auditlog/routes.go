package auditlog

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, auditLogService AuditLogServiceAPI) {
	auditLogController := &AuditLogController{Service: auditLogService}

	group := r.Group("/audit-logs")
	{
		group.GET("", auditLogController.GetLogs)
		group.GET("/:code", auditLogController.GetLogsByCode)
		group.DELETE("", auditLogController.DeleteOldLogs)
	}
}
