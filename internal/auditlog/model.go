package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionToggle = "TOGGLE"
)

const (
	DefaultAdminName       = "Anonymous"
	DefaultRetentionMonths = 6
	DefaultLimit           = 50
	MaxLimit               = 500
)

type AuditLog struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string         `gorm:"size:50;not null;index" json:"code"`
	ContentType string         `gorm:"size:30;not null;column:content_type" json:"content_type"`
	Action      string         `gorm:"size:10;not null" json:"action"`
	OldValue    datatypes.JSON `gorm:"column:old_value" json:"old_value"`
	NewValue    datatypes.JSON `gorm:"column:new_value" json:"new_value"`
	AdminName   string         `gorm:"size:100;not null;default:'Anonymous';column:admin_name" json:"admin_name"`
	IPAddress   string         `gorm:"size:64;not null;column:ip_address" json:"ip_address"`
	UserAgent   *string        `gorm:"type:text;column:user_agent" json:"user_agent"`
	CreatedDate time.Time      `gorm:"autoCreateTime;index;column:created_date" json:"created_date"`
}

func (AuditLog) TableName() string {
	return "tbl_audit_log"
}

type LogFilterInput struct {
	Limit       int      `form:"limit" json:"limit"`
	Offset      int      `form:"offset" json:"offset"`
	Actions     []string `form:"action" json:"action"`
	ContentType string   `form:"content_type" json:"content_type"`

	StartDate *string `form:"start_date" json:"start_date"` // "YYYY-MM-DD"
	EndDate   *string `form:"end_date" json:"end_date"`     // "YYYY-MM-DD"
}
