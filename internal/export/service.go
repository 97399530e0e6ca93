package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SeanZhang02/crm-api/internal/domain"
	"github.com/SeanZhang02/crm-api/internal/filter"
	"github.com/SeanZhang02/crm-api/internal/repository"
)

// Format selects the export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Service streams filtered entity rows into spreadsheet files. Rows are
// read in pages so large result sets never sit in memory whole.
type Service struct {
	queries  repository.EntityQueryRepository
	pageSize int
}

type Option func(*Service)

func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

func NewService(queries repository.EntityQueryRepository, opts ...Option) *Service {
	service := &Service{
		queries:  queries,
		pageSize: 1000,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Export writes all rows matching pred to w in the requested format and
// returns the number of data rows written.
func (s *Service) Export(ctx context.Context, w io.Writer, entityType domain.EntityType, pred filter.Predicate, format Format) (int, error) {
	switch format {
	case FormatCSV:
		return s.exportCSV(ctx, w, entityType, pred)
	case FormatXLSX, "":
		return s.exportXLSX(ctx, w, entityType, pred)
	default:
		return 0, fmt.Errorf("unsupported export format %q", format)
	}
}

func (s *Service) exportXLSX(ctx context.Context, w io.Writer, entityType domain.EntityType, pred filter.Predicate) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	var headers []string
	rowIndex := 1
	written := 0

	err := s.eachPage(ctx, entityType, pred, func(rows []map[string]any) error {
		if headers == nil && len(rows) > 0 {
			headers = columnOrder(rows[0])
			cell, _ := excelize.CoordinatesToCellName(1, rowIndex)
			if err := f.SetSheetRow(sheet, cell, &headers); err != nil {
				return fmt.Errorf("failed to write header row: %w", err)
			}
			rowIndex++
		}
		for _, row := range rows {
			values := make([]any, len(headers))
			for i, header := range headers {
				values[i] = cellValue(row[header])
			}
			cell, _ := excelize.CoordinatesToCellName(1, rowIndex)
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d: %w", rowIndex, err)
			}
			rowIndex++
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}
	return written, nil
}

func (s *Service) exportCSV(ctx context.Context, w io.Writer, entityType domain.EntityType, pred filter.Predicate) (int, error) {
	writer := csv.NewWriter(w)
	var headers []string
	written := 0

	err := s.eachPage(ctx, entityType, pred, func(rows []map[string]any) error {
		if headers == nil && len(rows) > 0 {
			headers = columnOrder(rows[0])
			if err := writer.Write(headers); err != nil {
				return fmt.Errorf("failed to write header row: %w", err)
			}
		}
		for _, row := range rows {
			record := make([]string, len(headers))
			for i, header := range headers {
				record[i] = fmt.Sprintf("%v", cellValue(row[header]))
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush csv: %w", err)
	}
	return written, nil
}

func (s *Service) eachPage(ctx context.Context, entityType domain.EntityType, pred filter.Predicate, fn func([]map[string]any) error) error {
	offset := 0
	for {
		rows, err := s.queries.Page(ctx, entityType, pred, s.pageSize, offset)
		if err != nil {
			return fmt.Errorf("failed to read export page at offset %d: %w", offset, err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := fn(rows); err != nil {
			return err
		}
		if len(rows) < s.pageSize {
			return nil
		}
		offset += s.pageSize
	}
}

// columnOrder yields a stable header order with id first and the audit
// timestamps last.
func columnOrder(row map[string]any) []string {
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return columnRank(keys[i]) < columnRank(keys[j]) ||
			(columnRank(keys[i]) == columnRank(keys[j]) && keys[i] < keys[j])
	})
	return keys
}

func columnRank(key string) int {
	switch key {
	case "id":
		return 0
	case "created_at", "updated_at":
		return 2
	default:
		return 1
	}
}

// cellValue flattens values pgx hands back into something both excelize
// and csv render sensibly.
func cellValue(v any) any {
	switch value := v.(type) {
	case nil:
		return ""
	case time.Time:
		return value.Format(time.RFC3339)
	case [16]byte:
		return fmt.Sprintf("%x-%x-%x-%x-%x", value[0:4], value[4:6], value[6:8], value[8:10], value[10:16])
	case map[string]any:
		return fmt.Sprintf("%v", value)
	default:
		return value
	}
}
