package admin

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/kirinyoku/fringe/internal/domain"
	"github.com/kirinyoku/fringe/internal/validation"
)

// SalesReportFilename is the download name of the CSV sales report.
const SalesReportFilename = "show_sales_report.csv"

// SalesReport returns ticket sales per show between two dates, both
// inclusive. Empty dates leave that side of the range open.
//
// Returns:
//   - []domain.ShowSales: one row per show.
//   - error: validation.FieldErrors if a date is malformed.
//   - error: admin.ErrInvalidDateRange if start is after end.
func (s *Service) SalesReport(ctx context.Context, startDate, endDate string) ([]domain.ShowSales, error) {
	const op = "service.admin.SalesReport"

	fe := validation.FieldErrors{}
	var start, end int64
	if startDate != "" {
		d, err := normalizeDate(&startDate, s.cfg.Location)
		if err != nil {
			fe["startDate"] = "Invalid start date"
		}
		start = d.Unix()
	}
	if endDate != "" {
		d, err := normalizeDate(&endDate, s.cfg.Location)
		if err != nil {
			fe["endDate"] = "Invalid end date"
		}
		end = d.Unix()
	}
	if len(fe) > 0 {
		return nil, fmt.Errorf("%s: %w", op, fe)
	}

	if startDate != "" && endDate != "" && start > end {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidDateRange)
	}

	rows, err := s.backend.ShowSalesReport(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rows, nil
}

// WriteSalesCSV writes rows as the downloadable sales report.
func WriteSalesCSV(w io.Writer, rows []domain.ShowSales) error {
	const op = "service.admin.WriteSalesCSV"

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Show Name", "Total Tickets Sold", "Total Revenue"}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, r := range rows {
		rec := []string{
			r.ShowName,
			strconv.Itoa(r.TotalTicketsSold),
			strconv.FormatFloat(r.TotalRevenue, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
