package record

import (
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"PDF", KindPDF, false},
		{"pdf", KindPDF, false},
		{"Json", KindJSON, false},
		{"EMAIL", KindEmail, false},
		{"Email", KindEmail, false},
		{" email ", KindEmail, false},
		{"fax", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseKind(%q): expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKind(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestKindLabel(t *testing.T) {
	if KindPDF.Label() != "pdf" || KindEmail.Label() != "email" {
		t.Errorf("labels = %q, %q", KindPDF.Label(), KindEmail.Label())
	}
}

func TestNormalizeDefaults(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	r := Record{Type: "email", Intent: "RFQ"}
	r.Normalize(KindEmail, now)

	if r.Type != "EMAIL" {
		t.Errorf("type = %q, want EMAIL", r.Type)
	}
	if r.Timestamp != "2026-03-14T09:30:00Z" {
		t.Errorf("timestamp = %q", r.Timestamp)
	}
	if r.ExtractedValues == nil {
		t.Error("extracted_values still nil after normalize")
	}
	if r.ThreadID != nil {
		t.Error("thread_id populated without a collaborator supplying it")
	}
}

func TestNormalizeKeepsOracleTimestamp(t *testing.T) {
	r := Record{Type: "PDF", Intent: "Invoice", Timestamp: "2025-01-02T03:04:05Z"}
	r.Normalize(KindPDF, time.Now())
	if r.Timestamp != "2025-01-02T03:04:05Z" {
		t.Errorf("timestamp rewritten to %q", r.Timestamp)
	}
}

func TestValidate(t *testing.T) {
	valid := Record{
		Type:            "PDF",
		Timestamp:       "2025-01-02T03:04:05Z",
		Intent:          "Invoice",
		ExtractedValues: map[string]any{},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"bad type", func(r *Record) { r.Type = "FAX" }},
		{"empty timestamp", func(r *Record) { r.Timestamp = "" }},
		{"empty intent", func(r *Record) { r.Intent = "  " }},
		{"nil extracted_values", func(r *Record) { r.ExtractedValues = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			r.ExtractedValues = map[string]any{}
			tt.mutate(&r)
			if err := r.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateCanonical(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			"full record",
			`{"source":"a.pdf","type":"PDF","timestamp":"2025-01-01T00:00:00Z","intent":"Invoice","extracted_values":{"total":1},"thread_id":null}`,
			false,
		},
		{
			"minimal record",
			`{"type":"EMAIL","intent":"RFQ","extracted_values":{}}`,
			false,
		},
		{
			"null source and timestamp",
			`{"source":null,"type":"EMAIL","timestamp":null,"intent":"RFQ","extracted_values":{}}`,
			false,
		},
		{"missing type", `{"intent":"RFQ","extracted_values":{}}`, true},
		{"missing intent", `{"type":"EMAIL","extracted_values":{}}`, true},
		{"empty intent", `{"type":"EMAIL","intent":"","extracted_values":{}}`, true},
		{"missing extracted_values", `{"type":"EMAIL","intent":"RFQ"}`, true},
		{"extracted_values wrong shape", `{"type":"EMAIL","intent":"RFQ","extracted_values":"nope"}`, true},
		{"not an object", `[1,2,3]`, true},
		{"not json", `hello`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCanonical([]byte(tt.data))
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
