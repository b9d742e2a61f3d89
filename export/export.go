// Package export renders the record log as an XLSX workbook.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/shinZoro/docFlow/record"
)

// SheetName is the worksheet holding the exported records.
const SheetName = "Records"

var headers = []string{
	"ID",
	"Source",
	"Type",
	"Timestamp",
	"Intent",
	"Extracted Values",
	"Thread ID",
}

// Workbook returns an XLSX workbook (as bytes) with one row per record,
// in the order given. Extracted values are written as their JSON
// serialization, same as the store's on-disk form.
func Workbook(recs []record.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, fmt.Errorf("writing header %q: %w", h, err)
		}
	}

	for rowIdx, rec := range recs {
		row := rowIdx + 2

		values, err := json.Marshal(rec.ExtractedValues)
		if err != nil {
			return nil, fmt.Errorf("serializing extracted_values for record %d: %w", rec.ID, err)
		}
		threadID := ""
		if rec.ThreadID != nil {
			threadID = *rec.ThreadID
		}

		cells := []any{rec.ID, rec.Source, rec.Type, rec.Timestamp, rec.Intent, string(values), threadID}
		for col, v := range cells {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", row, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
