package commoncode

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"picklab-api/internal/logging"
)

type CommonCodeServiceAPI interface {
	GetAllMasters() ([]CommonMaster, error)
	GetMasterByCode(masterCode string) (*CommonMaster, error)
	GetCodesByMaster(masterCode string) ([]CommonDetail, error)
	GetActiveCodesByMaster(masterCode string) ([]CommonDetail, error)

	CreateMaster(input map[string]any) (*CommonMaster, error)
	UpdateMaster(seq int, input map[string]any) (*CommonMaster, error)
	DeleteMaster(seq int) error
	CreateDetail(input map[string]any) (*CommonDetail, error)
	UpdateDetail(seq int, input map[string]any) (*CommonDetail, error)
	DeleteDetail(seq int) error

	InvalidateSchemaCache()
}

const (
	masterTable = "tbl_common_master"
	detailTable = "tbl_common_detail"
)

// Columns that older deployments may lack.
var optionalColumns = map[string][]string{
	masterTable: {"sort_no", "master_name"},
	detailTable: {"sort_no"},
}

type CommonCodeService struct {
	DB     *gorm.DB
	Logger *zap.Logger

	mu      sync.Mutex
	columns map[string]bool
}

func NewCommonCodeService(db *gorm.DB, log *zap.Logger) *CommonCodeService {
	return &CommonCodeService{DB: db, Logger: logging.OrNop(log)}
}

func (cs *CommonCodeService) logger() *zap.Logger {
	return logging.OrNop(cs.Logger)
}

// hasColumn reports whether an optional column exists in the live schema.
// A probe is cached only once the table itself was found.
func (cs *CommonCodeService) hasColumn(table, column string) bool {
	key := table + "." + column

	cs.mu.Lock()
	defer cs.mu.Unlock()

	if v, ok := cs.columns[key]; ok {
		return v
	}

	m := cs.DB.Migrator()
	if !m.HasTable(table) {
		return false
	}
	v := m.HasColumn(table, column)
	if cs.columns == nil {
		cs.columns = make(map[string]bool)
	}
	cs.columns[key] = v
	return v
}

// InvalidateSchemaCache forces the next call to re-probe optional columns.
func (cs *CommonCodeService) InvalidateSchemaCache() {
	cs.mu.Lock()
	cs.columns = nil
	cs.mu.Unlock()
	cs.logger().Info("common code schema cache invalidated")
}

// missingColumns lists the optional columns of table absent from the schema.
func (cs *CommonCodeService) missingColumns(table string) []string {
	var missing []string
	for _, col := range optionalColumns[table] {
		if !cs.hasColumn(table, col) {
			missing = append(missing, col)
		}
	}
	return missing
}

func (cs *CommonCodeService) dropMissing(table string, cols map[string]any) {
	for _, col := range cs.missingColumns(table) {
		delete(cols, col)
	}
}

func (cs *CommonCodeService) GetAllMasters() ([]CommonMaster, error) {
	q := cs.DB
	if cs.hasColumn(masterTable, "sort_no") {
		q = q.Order("sort_no ASC")
	}

	var masters []CommonMaster
	if err := q.Order("master_code ASC").Find(&masters).Error; err != nil {
		cs.logger().Error("list masters failed", zap.Error(err))
		return nil, err
	}
	return masters, nil
}

func (cs *CommonCodeService) GetMasterByCode(masterCode string) (*CommonMaster, error) {
	var master CommonMaster
	err := cs.DB.Where("master_code = ?", masterCode).Take(&master).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		cs.logger().Error("get master failed", zap.String("master_code", masterCode), zap.Error(err))
		return nil, err
	}
	return &master, nil
}

func (cs *CommonCodeService) GetCodesByMaster(masterCode string) ([]CommonDetail, error) {
	return cs.details(cs.DB.Where("master_code = ?", masterCode))
}

func (cs *CommonCodeService) GetActiveCodesByMaster(masterCode string) ([]CommonDetail, error) {
	return cs.details(cs.DB.Where("master_code = ? AND use_yn = ?", masterCode, "Y"))
}

func (cs *CommonCodeService) details(q *gorm.DB) ([]CommonDetail, error) {
	if cs.hasColumn(detailTable, "sort_no") {
		q = q.Order("sort_no ASC")
	}

	var details []CommonDetail
	if err := q.Order("detail_code ASC").Find(&details).Error; err != nil {
		cs.logger().Error("list details failed", zap.Error(err))
		return nil, err
	}
	return details, nil
}

func (cs *CommonCodeService) CreateMaster(input map[string]any) (*CommonMaster, error) {
	cols, err := masterFields.normalize(input)
	if err != nil {
		return nil, err
	}
	code := textValue(cols, "master_code")
	if code == "" {
		return nil, ErrMissingField
	}

	master := CommonMaster{
		MasterCode:  code,
		MasterName:  textPtr(cols, "master_name"),
		MasterDesc:  textPtr(cols, "master_desc"),
		SortNo:      intPtr(cols, "sort_no"),
		UseYn:       orDefault(textValue(cols, "use_yn"), "Y"),
		CreatedUser: strPtr(orDefault(textValue(cols, "created_user"), "admin")),
	}

	// omit optional columns the live table does not have
	q := cs.DB
	if missing := cs.missingColumns(masterTable); len(missing) > 0 {
		q = q.Omit(missing...)
	}
	if err := q.Create(&master).Error; err != nil {
		cs.logger().Error("create master failed", zap.String("master_code", code), zap.Error(err))
		return nil, err
	}
	cs.logger().Info("master created", zap.String("master_code", code), zap.Int("seq", master.Seq))
	return &master, nil
}

func (cs *CommonCodeService) UpdateMaster(seq int, input map[string]any) (*CommonMaster, error) {
	cols, err := masterFields.normalize(input, "master_code")
	if err != nil {
		return nil, err
	}
	cs.dropMissing(masterTable, cols)
	cols["updated_date"] = time.Now()

	if err := cs.DB.Model(&CommonMaster{}).Where("seq = ?", seq).Updates(cols).Error; err != nil {
		cs.logger().Error("update master failed", zap.Int("seq", seq), zap.Error(err))
		return nil, err
	}

	var master CommonMaster
	err = cs.DB.Where("seq = ?", seq).Take(&master).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &master, nil
}

// DeleteMaster removes only the master row; details under its code are left
// for the store to handle.
func (cs *CommonCodeService) DeleteMaster(seq int) error {
	if err := cs.DB.Where("seq = ?", seq).Delete(&CommonMaster{}).Error; err != nil {
		cs.logger().Error("delete master failed", zap.Int("seq", seq), zap.Error(err))
		return err
	}
	return nil
}

func (cs *CommonCodeService) CreateDetail(input map[string]any) (*CommonDetail, error) {
	cols, err := detailFields.normalize(input)
	if err != nil {
		return nil, err
	}
	masterCode, detailCode := textValue(cols, "master_code"), textValue(cols, "detail_code")
	if masterCode == "" || detailCode == "" {
		return nil, ErrMissingField
	}

	detail := CommonDetail{
		MasterCode:  masterCode,
		DetailCode:  detailCode,
		DetailName:  textPtr(cols, "detail_name"),
		SortNo:      intPtr(cols, "sort_no"),
		UseYn:       orDefault(textValue(cols, "use_yn"), "Y"),
		CreatedUser: strPtr(orDefault(textValue(cols, "created_user"), "admin")),
	}

	q := cs.DB
	if missing := cs.missingColumns(detailTable); len(missing) > 0 {
		q = q.Omit(missing...)
	}
	if err := q.Create(&detail).Error; err != nil {
		cs.logger().Error("create detail failed",
			zap.String("master_code", masterCode), zap.String("detail_code", detailCode), zap.Error(err))
		return nil, err
	}
	return &detail, nil
}

func (cs *CommonCodeService) UpdateDetail(seq int, input map[string]any) (*CommonDetail, error) {
	cols, err := detailFields.normalize(input, "master_code")
	if err != nil {
		return nil, err
	}
	cs.dropMissing(detailTable, cols)
	cols["updated_date"] = time.Now()

	if err := cs.DB.Model(&CommonDetail{}).Where("seq = ?", seq).Updates(cols).Error; err != nil {
		cs.logger().Error("update detail failed", zap.Int("seq", seq), zap.Error(err))
		return nil, err
	}

	var detail CommonDetail
	err = cs.DB.Where("seq = ?", seq).Take(&detail).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (cs *CommonCodeService) DeleteDetail(seq int) error {
	if err := cs.DB.Where("seq = ?", seq).Delete(&CommonDetail{}).Error; err != nil {
		cs.logger().Error("delete detail failed", zap.Int("seq", seq), zap.Error(err))
		return err
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func strPtr(s string) *string {
	return &s
}
