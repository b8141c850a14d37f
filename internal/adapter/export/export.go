// Package export renders a period's depreciation schedule as XLSX or PDF.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iho/goasset/internal/usecase"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ErrUnsupportedFormat is returned for formats other than xlsx and pdf.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts "xlsx" and "pdf" case-insensitively; empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Filename returns the download name for a schedule.
func (f Format) Filename(schedule *usecase.PeriodSchedule) string {
	return fmt.Sprintf("depreciation-%s-%s.%s", schedule.BusinessID, schedule.Period.String(), f)
}

// Render renders schedule in format f.
func Render(f Format, schedule *usecase.PeriodSchedule) ([]byte, error) {
	switch f {
	case FormatXLSX:
		return BuildScheduleXLSX(schedule)
	case FormatPDF:
		return BuildSchedulePDF(schedule)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}
