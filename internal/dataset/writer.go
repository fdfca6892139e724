package dataset

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// SheetName is the sheet written by WriteXLSX.
const SheetName = "Sheet1"

// XLSXContentType is the MIME type for downloads.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteXLSX writes records under the canonical header to a single-sheet workbook.
// Dates are stored as Excel date cells holding the record's wall-clock time.
func WriteXLSX(w io.Writer, records []Record) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		row := []interface{}{
			r.Date, clientIDCell(r.ClientID), r.Service, r.Revenue, r.Membership,
			r.AddOnSales, r.Supplements, r.SessionCost, r.Profit,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(SheetName, "A", "A", 20); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// clientIDCell keeps numeric ids numeric, the way studio exports store them.
func clientIDCell(id string) interface{} {
	if n, err := strconv.Atoi(id); err == nil {
		return n
	}
	return id
}
