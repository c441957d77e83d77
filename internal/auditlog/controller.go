package auditlog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"picklab-api/internal/util"
)

type AuditLogController struct {
	Service AuditLogServiceAPI
}

func (ac *AuditLogController) GetLogs(c *gin.Context) {
	var input LogFilterInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logs, total, err := ac.Service.GetLogs(input)
	if errors.Is(err, util.ErrInvalidDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   logs,
		"total":  total,
		"limit":  input.Limit,
		"offset": input.Offset,
	})
}

func (ac *AuditLogController) GetLogsByCode(c *gin.Context) {
	logs, err := ac.Service.GetLogsByCode(strings.TrimSpace(c.Param("code")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (ac *AuditLogController) DeleteOldLogs(c *gin.Context) {
	months := DefaultRetentionMonths
	if raw := strings.TrimSpace(c.Query("months")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "months must be a positive integer"})
			return
		}
		months = n
	}

	deleted, err := ac.Service.DeleteOldLogs(months)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted_count": deleted})
}
