package export

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/usecase"
)

const (
	entriesSheet    = "entries"
	categoriesSheet = "categories"
)

var entryHeaders = []string{
	"Asset Number", "Asset Name", "Category", "Method", "Status",
	"Depreciation", "Accumulated Before", "Accumulated After",
	"Book Value Before", "Book Value After",
}

var categoryHeaders = []string{
	"Category", "Assets", "Depreciation", "Accumulated", "Book Value",
}

// BuildScheduleXLSX renders the schedule as a workbook with one sheet of
// entries and one of category totals. Amounts are written as fixed
// two-place strings.
func BuildScheduleXLSX(schedule *usecase.PeriodSchedule) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", entriesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(categoriesSheet); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(entriesSheet, "A1", &entryHeaders); err != nil {
		return nil, err
	}
	for i, e := range schedule.Entries {
		row := []any{
			e.AssetNumber,
			e.AssetName,
			e.CategoryName,
			string(e.Method),
			string(e.Status),
			money(e.DepreciationAmount),
			money(e.AccumulatedBefore),
			money(e.AccumulatedAfter),
			money(e.BookValueBefore),
			money(e.BookValueAfter),
		}
		if err := f.SetSheetRow(entriesSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetSheetRow(categoriesSheet, "A1", &categoryHeaders); err != nil {
		return nil, err
	}
	for i, c := range schedule.Categories {
		row := []any{
			c.CategoryName,
			c.AssetCount,
			money(c.TotalDepreciation),
			money(c.TotalAccumulated),
			money(c.TotalBookValue),
		}
		if err := f.SetSheetRow(categoriesSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyPlaces)
}
