package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Row is one match row to be written to the workbook.
type Row struct {
	Name         string
	Employment   string
	BoardService string
	Score        float64
	Rank         int
}

const sheetName = "Matches"

var headers = []string{"Name", "Employment", "Board Service", "Match Score", "Rank"}

// Workbook renders match rows into an in-memory .xlsx workbook with a
// single "Matches" sheet.
func Workbook(rows []Row) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	for col, header := range headers {
		if err := setCell(f, col+1, 1, header); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		values := []interface{}{row.Name, row.Employment, row.BoardService, row.Score, row.Rank}
		for col, value := range values {
			if err := setCell(f, col+1, i+2, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to address cell: %w", err)
	}
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}
