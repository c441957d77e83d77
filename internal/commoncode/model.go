package commoncode

import "time"

type CommonMaster struct {
	Seq         int        `gorm:"primaryKey;autoIncrement;column:seq" json:"seq"`
	MasterCode  string     `gorm:"size:50;not null;uniqueIndex;column:master_code" json:"master_code"`
	MasterName  *string    `gorm:"size:100;column:master_name" json:"master_name"`
	MasterDesc  *string    `gorm:"size:200;column:master_desc" json:"master_desc"`
	SortNo      *int       `gorm:"column:sort_no" json:"sort_no"`
	UseYn       string     `gorm:"size:1;not null;default:'Y';column:use_yn" json:"use_yn"`
	CreatedUser *string    `gorm:"size:50;column:created_user" json:"created_user"`
	CreatedDate time.Time  `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	UpdatedUser *string    `gorm:"size:50;column:updated_user" json:"updated_user"`
	UpdatedDate *time.Time `gorm:"column:updated_date" json:"updated_date"`
}

func (CommonMaster) TableName() string {
	return "tbl_common_master"
}

type CommonDetail struct {
	Seq         int        `gorm:"primaryKey;autoIncrement;column:seq" json:"seq"`
	MasterCode  string     `gorm:"size:50;not null;uniqueIndex:uq_common_detail;column:master_code" json:"master_code"`
	DetailCode  string     `gorm:"size:50;not null;uniqueIndex:uq_common_detail;column:detail_code" json:"detail_code"`
	DetailName  *string    `gorm:"size:100;column:detail_name" json:"detail_name"`
	SortNo      *int       `gorm:"column:sort_no" json:"sort_no"`
	UseYn       string     `gorm:"size:1;not null;default:'Y';column:use_yn" json:"use_yn"`
	CreatedUser *string    `gorm:"size:50;column:created_user" json:"created_user"`
	CreatedDate time.Time  `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	UpdatedUser *string    `gorm:"size:50;column:updated_user" json:"updated_user"`
	UpdatedDate *time.Time `gorm:"column:updated_date" json:"updated_date"`
}

func (CommonDetail) TableName() string {
	return "tbl_common_detail"
}

// Label is the human readable text of a detail, falling back to its code.
func (d CommonDetail) Label() string {
	if d.DetailName != nil && *d.DetailName != "" {
		return *d.DetailName
	}
	return d.DetailCode
}
