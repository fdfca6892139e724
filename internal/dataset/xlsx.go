package dataset

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxFormat struct{}

func (xlsxFormat) CanLoad(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm")
}

// Rows extracts the raw cell values of the selected sheet. Dates come back as
// Excel serials and are converted by ParseTime.
func (xlsxFormat) Rows(payload []byte, opt LoadOptions) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %v: %w", err, ErrUnsupported)
	}
	defer f.Close()

	sheet, err := resolveSheet(f.GetSheetList(), opt.SheetName, opt.SheetIndex)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// resolveSheet picks a sheet by case-insensitive name, else by 1-based position
// in tab order. An index <= 0 means the first sheet.
func resolveSheet(sheets []string, sheetName string, sheetIndex int) (string, error) {
	if sheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, sheetName) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found; available sheets: %s", sheetName, strings.Join(sheets, ", "))
	}
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	pos := sheetIndex - 1
	if pos < 0 {
		pos = 0
	}
	if pos >= len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", sheetIndex, len(sheets))
	}
	return sheets[pos], nil
}
