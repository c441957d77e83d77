package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"picklab-api/internal/commoncode"
	"picklab-api/internal/contents"
	"picklab-api/internal/logging"
	"picklab-api/internal/util"
)

type ContentStore interface {
	ListContents(t contents.ContentType) (any, error)
	BatchUpsert(items []contents.BatchItem) (*contents.BatchResult, error)
}

type CategoryStore interface {
	GetMasterByCode(masterCode string) (*commoncode.CommonMaster, error)
	GetActiveCodesByMaster(masterCode string) ([]commoncode.CommonDetail, error)
}

type ArchiveStore interface {
	Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error)
	List(ctx context.Context, prefix string) ([]util.ObjectInfo, error)
}

type SpreadsheetServiceAPI interface {
	Export(t contents.ContentType) ([]byte, error)
	Import(t contents.ContentType, r io.Reader) (*ImportResult, error)
	Archive(ctx context.Context, t contents.ContentType) (*ArchivedExport, error)
	ListArchives(ctx context.Context, t string) ([]util.ObjectInfo, error)
}

type SpreadsheetService struct {
	Contents   ContentStore
	Categories CategoryStore
	Archives   ArchiveStore
	Bucket     string
	Logger     *zap.Logger
	Now        func() time.Time
}

func (ss *SpreadsheetService) logger() *zap.Logger {
	return logging.OrNop(ss.Logger)
}

func (ss *SpreadsheetService) now() time.Time {
	if ss.Now != nil {
		return ss.Now()
	}
	return time.Now()
}

// categoryAxes loads CATEGORY1..5; only food sheets carry category columns.
func (ss *SpreadsheetService) categoryAxes(t contents.ContentType) ([]categoryAxis, error) {
	if t != contents.TypeFood {
		return nil, nil
	}
	axes := make([]categoryAxis, 0, categoryAxes)
	for n := 1; n <= categoryAxes; n++ {
		var (
			master  *commoncode.CommonMaster
			details []commoncode.CommonDetail
			err     error
		)
		if ss.Categories != nil {
			if master, err = ss.Categories.GetMasterByCode(categoryMaster(n)); err != nil {
				return nil, err
			}
			if details, err = ss.Categories.GetActiveCodesByMaster(categoryMaster(n)); err != nil {
				return nil, err
			}
		}
		axes = append(axes, newCategoryAxis(n, master, details))
	}
	return axes, nil
}

func (ss *SpreadsheetService) Export(t contents.ContentType) ([]byte, error) {
	axes, err := ss.categoryAxes(t)
	if err != nil {
		return nil, err
	}
	list, err := ss.Contents.ListContents(t)
	if err != nil {
		return nil, err
	}
	rows, err := exportRows(list, axes)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := string(t)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	write := func(rowNum int, values []string) error {
		for i, v := range values {
			ref, err := excelize.CoordinatesToCellName(i+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, ref, v); err != nil {
				return err
			}
		}
		return nil
	}

	if err := write(1, layoutFor(t, axes).headers()); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := write(i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	ss.logger().Info("workbook exported", zap.String("type", sheet), zap.Int("rows", len(rows)))
	return buf.Bytes(), nil
}

// Import reads the first sheet positionally, skipping the header row, and
// applies the valid rows through BatchUpsert.
func (ss *SpreadsheetService) Import(t contents.ContentType, r io.Reader) (*ImportResult, error) {
	if _, ok := contents.ParseContentType(string(t)); !ok {
		return nil, fmt.Errorf("%w: %q", contents.ErrUnknownType, t)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheetRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	if len(sheetRows) == 0 {
		return nil, ErrEmptyWorkbook
	}

	type pending struct {
		row  int
		data map[string]any
	}
	var (
		data    []pending
		invalid []RowResult
	)
	axes, err := ss.categoryAxes(t)
	if err != nil {
		return nil, err
	}
	l := layoutFor(t, axes)

	for i, row := range sheetRows[1:] {
		if blank(row) {
			continue
		}
		rowNum := i + 2
		input, err := rowInput(t, l, axes, row)
		if err != nil {
			invalid = append(invalid, RowResult{Row: rowNum, Status: RowStatusError, Error: err.Error()})
			continue
		}
		data = append(data, pending{row: rowNum, data: input})
	}
	if len(data)+len(invalid) > contents.MaxBatchItems {
		return nil, ErrTooManyRows
	}

	result := &ImportResult{Type: string(t), TotalRows: len(data) + len(invalid)}
	results := make(map[int]RowResult, result.TotalRows)
	for _, rr := range invalid {
		results[rr.Row] = rr
	}

	if len(data) > 0 {
		items := make([]contents.BatchItem, len(data))
		for i, p := range data {
			items[i] = contents.BatchItem{Type: string(t), Data: p.data}
		}
		batch, err := ss.Contents.BatchUpsert(items)
		if err != nil {
			return nil, err
		}
		for i, br := range batch.Results {
			if i >= len(data) {
				break
			}
			rr := RowResult{Row: data[i].row, Status: br.Status, Error: br.Error}
			if br.Status == RowStatusSuccess {
				rr.Code = codeOf(br.Data)
			}
			results[rr.Row] = rr
		}
	}

	result.Results = make([]RowResult, 0, len(results))
	for rowNum := 2; len(result.Results) < len(results); rowNum++ {
		rr, ok := results[rowNum]
		if !ok {
			continue
		}
		if rr.Status == RowStatusSuccess {
			result.SuccessCount++
		} else {
			result.ErrorCount++
		}
		result.Results = append(result.Results, rr)
	}

	ss.logger().Info("workbook imported",
		zap.String("type", string(t)),
		zap.Int("rows", result.TotalRows),
		zap.Int("errors", result.ErrorCount))
	return result, nil
}

func (ss *SpreadsheetService) Archive(ctx context.Context, t contents.ContentType) (*ArchivedExport, error) {
	if ss.Archives == nil {
		return nil, ErrArchiveDisabled
	}
	data, err := ss.Export(t)
	if err != nil {
		return nil, err
	}

	object := util.ExportObjectName(string(t), ss.now())
	url, err := ss.Archives.Upload(ctx, object, xlsxContentType, data)
	if err != nil {
		ss.logger().Error("archive upload failed", zap.String("object", object), zap.Error(err))
		return nil, err
	}
	return &ArchivedExport{Object: object, URL: url, PublicURL: util.PublicGCSURL(ss.Bucket, object)}, nil
}

// ListArchives lists archived workbooks, optionally narrowed to one type.
func (ss *SpreadsheetService) ListArchives(ctx context.Context, t string) ([]util.ObjectInfo, error) {
	if ss.Archives == nil {
		return nil, ErrArchiveDisabled
	}
	prefix := "exports/"
	if t != "" {
		if _, ok := contents.ParseContentType(t); !ok {
			return nil, fmt.Errorf("%w: %q", contents.ErrUnknownType, t)
		}
		prefix += t + "/"
	}
	return ss.Archives.List(ctx, prefix)
}
