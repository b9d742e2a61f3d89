package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/shinZoro/docFlow/record"
)

func TestWorkbookRoundTrip(t *testing.T) {
	thread := "t-1"
	recs := []record.Record{
		{
			ID:              1,
			Source:          "invoice_march.pdf",
			Type:            "PDF",
			Timestamp:       "2026-03-01T10:00:00Z",
			Intent:          "Invoice",
			ExtractedValues: map[string]any{"total_amount": "450.00"},
		},
		{
			ID:              2,
			Type:            "EMAIL",
			Timestamp:       "2026-03-01T11:00:00Z",
			Intent:          "RFQ",
			ExtractedValues: map[string]any{},
			ThreadID:        &thread,
		},
	}

	data, err := Workbook(recs)
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reading workbook back: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("row count = %d, want 3 (header + 2 records)", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][4] != "Intent" {
		t.Errorf("header row = %v", rows[0])
	}
	if rows[1][2] != "PDF" || rows[1][4] != "Invoice" {
		t.Errorf("first record row = %v", rows[1])
	}
	if rows[2][2] != "EMAIL" {
		t.Errorf("second record row = %v", rows[2])
	}
	// Empty source renders as an empty cell, thread id as its value.
	if rows[2][1] != "" && len(rows[2]) > 1 {
		t.Errorf("email source cell = %q, want empty", rows[2][1])
	}
}

func TestWorkbookEmpty(t *testing.T) {
	data, err := Workbook(nil)
	if err != nil {
		t.Fatalf("Workbook(nil): %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reading workbook back: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("row count = %d, want header only", len(rows))
	}
}
