package auditlog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"picklab-api/internal/logging"
	"picklab-api/internal/util"
)

type AuditLogServiceAPI interface {
	Log(entry AuditLog, oldValue, newValue any) error
	GetLogs(input LogFilterInput) ([]AuditLog, int64, error)
	GetLogsByCode(code string) ([]AuditLog, error)
	DeleteOldLogs(months int) (int64, error)
}

type AuditLogService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewAuditLogService(db *gorm.DB, log *zap.Logger) *AuditLogService {
	return &AuditLogService{DB: db, Logger: logging.OrNop(log)}
}

// Log appends one entry. Snapshot values are stored as JSON; nil stays NULL.
func (as *AuditLogService) Log(entry AuditLog, oldValue, newValue any) error {
	newLog := AuditLog{
		Code:        entry.Code,
		ContentType: entry.ContentType,
		Action:      entry.Action,
		OldValue:    toJSON(oldValue),
		NewValue:    toJSON(newValue),
		AdminName:   entry.AdminName,
		IPAddress:   entry.IPAddress,
		UserAgent:   entry.UserAgent,
		CreatedDate: time.Now(),
	}
	if newLog.AdminName == "" {
		newLog.AdminName = DefaultAdminName
	}
	if newLog.IPAddress == "" {
		newLog.IPAddress = "unknown"
	}

	return as.DB.Create(&newLog).Error
}

func toJSON(v any) datatypes.JSON {
	switch x := v.(type) {
	case nil:
		return nil
	case json.RawMessage:
		if len(x) == 0 || string(x) == "null" {
			return nil
		}
		return datatypes.JSON(x)
	case []byte:
		if len(x) == 0 || !json.Valid(x) || string(x) == "null" {
			return nil
		}
		return datatypes.JSON(x)
	}
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return nil
	}
	return datatypes.JSON(b)
}

// GetLogs returns a newest-first page of entries and the total match count.
func (as *AuditLogService) GetLogs(input LogFilterInput) ([]AuditLog, int64, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultLimit
	}
	if input.Limit > MaxLimit {
		input.Limit = MaxLimit
	}
	if input.Offset < 0 {
		input.Offset = 0
	}

	base := as.DB.Model(&AuditLog{})

	if actions := util.UpperAll(util.ParseCommaSeparated(input.Actions)); len(actions) > 0 {
		if as.DB.Dialector.Name() == "postgres" {
			base = base.Where("action = ANY(?)", pq.Array(actions))
		} else {
			base = base.Where("action IN ?", actions)
		}
	}
	if ct := strings.TrimSpace(input.ContentType); ct != "" {
		base = base.Where("content_type = ?", ct)
	}

	start, hasStart, endExclusive, hasEnd, err := util.ParseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, 0, err
	}
	if hasStart {
		base = base.Where("created_date >= ?", start)
	}
	if hasEnd {
		base = base.Where("created_date < ?", endExclusive)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []AuditLog
	if err := base.
		Session(&gorm.Session{}).
		Order("created_date DESC").
		Order("id DESC").
		Limit(input.Limit).
		Offset(input.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (as *AuditLogService) GetLogsByCode(code string) ([]AuditLog, error) {
	var rows []AuditLog
	if err := as.DB.Where("code = ?", code).Order("created_date DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteOldLogs purges entries older than the given number of months.
func (as *AuditLogService) DeleteOldLogs(months int) (int64, error) {
	if months <= 0 {
		months = DefaultRetentionMonths
	}
	cutoff := time.Now().AddDate(0, -months, 0)

	res := as.DB.Where("created_date < ?", cutoff).Delete(&AuditLog{})
	if res.Error != nil {
		logging.OrNop(as.Logger).Error("audit purge failed", zap.Int("months", months), zap.Error(res.Error))
		return 0, res.Error
	}
	logging.OrNop(as.Logger).Info("audit logs purged", zap.Int("months", months), zap.Int64("deleted", res.RowsAffected))
	return res.RowsAffected, nil
}
