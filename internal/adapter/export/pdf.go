package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/usecase"
)

var pdfEntryColumns = []struct {
	title string
	width float64
	align string
}{
	{"Asset", 28, "L"},
	{"Name", 62, "L"},
	{"Category", 40, "L"},
	{"Method", 30, "C"},
	{"Status", 18, "C"},
	{"Depreciation", 32, "R"},
	{"Book Value After", 40, "R"},
}

// BuildSchedulePDF renders the schedule as a landscape A4 report.
func BuildSchedulePDF(schedule *usecase.PeriodSchedule) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, "Depreciation Schedule")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Business: %s", schedule.BusinessID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s",
		schedule.Period.Start.Format(domain.DateLayout), schedule.Period.String()))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	for _, col := range pdfEntryColumns {
		pdf.CellFormat(col.width, 6, col.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	total := decimal.Zero
	for _, e := range schedule.Entries {
		values := []string{
			e.AssetNumber,
			e.AssetName,
			e.CategoryName,
			string(e.Method),
			string(e.Status),
			money(e.DepreciationAmount),
			money(e.BookValueAfter),
		}
		for i, col := range pdfEntryColumns {
			pdf.CellFormat(col.width, 6, values[i], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
		total = total.Add(e.DepreciationAmount)
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(178, 6, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(32, 6, money(domain.RoundMoney(total)), "1", 0, "R", false, 0, "")
	pdf.Ln(10)

	if len(schedule.Categories) > 0 {
		pdf.Cell(0, 6, "By category")
		pdf.Ln(7)
		pdf.CellFormat(70, 6, "Category", "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, "Assets", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, "Depreciation", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, "Book Value", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
		for _, c := range schedule.Categories {
			pdf.CellFormat(70, 6, c.CategoryName, "1", 0, "L", false, 0, "")
			pdf.CellFormat(20, 6, fmt.Sprintf("%d", c.AssetCount), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, money(c.TotalDepreciation), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, money(c.TotalBookValue), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
