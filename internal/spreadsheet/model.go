package spreadsheet

import (
	"errors"
	"fmt"

	"picklab-api/internal/contents"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	ErrEmptyWorkbook   = errors.New("workbook has no rows")
	ErrInvalidWorkbook = errors.New("failed to parse excel file")
	ErrTooManyRows     = fmt.Errorf("maximum %d rows per import", contents.MaxBatchItems)
	ErrArchiveDisabled = errors.New("export archive is not configured")
)

const (
	RowStatusSuccess = "success"
	RowStatusError   = "error"
)

// RowResult reports one data row of an import. Row is the 1-based sheet row.
type RowResult struct {
	Row    int    `json:"row"`
	Status string `json:"status"`
	Code   string `json:"code,omitempty"`
	Error  string `json:"error,omitempty"`
}

type ImportResult struct {
	Type         string      `json:"type"`
	TotalRows    int         `json:"total_rows"`
	SuccessCount int         `json:"success_count"`
	ErrorCount   int         `json:"error_count"`
	Results      []RowResult `json:"results"`
}

type ArchivedExport struct {
	Object    string `json:"object"`
	URL       string `json:"url"`
	PublicURL string `json:"public_url"`
}
