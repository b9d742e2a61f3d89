//go:build cgo

package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/shinZoro/docFlow/record"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath, 4) // dim=4 for test vectors
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord() *record.Record {
	return &record.Record{
		Source:    "invoice_march.pdf",
		Type:      "PDF",
		Timestamp: "2026-03-01T10:00:00Z",
		Intent:    "Invoice",
		ExtractedValues: map[string]any{
			"sender":       "ACME GmbH",
			"total_amount": "450.00",
			"items":        []any{"widgets"},
		},
	}
}

func TestNew(t *testing.T) {
	s := newTestStore(t)
	if s.EmbeddingDim() != 4 {
		t.Fatalf("embedding dim = %d, want 4", s.EmbeddingDim())
	}
}

func TestNewCreatesParentDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sub", "dir", "test.db")
	s, err := New(dbPath, 4)
	if err != nil {
		t.Fatalf("creating store in nested dir: %v", err)
	}
	s.Close()
}

func TestAppendAndGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord()
	id, err := s.Append(ctx, rec)
	if err != nil {
		t.Fatalf("appending: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero record id")
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("getting record: %v", err)
	}
	if got.Source != rec.Source || got.Type != rec.Type || got.Intent != rec.Intent {
		t.Errorf("got %+v, want %+v", got, rec)
	}
	if got.Timestamp != "2026-03-01T10:00:00Z" {
		t.Errorf("timestamp = %q", got.Timestamp)
	}
	if got.ThreadID != nil {
		t.Errorf("thread_id = %v, want nil", *got.ThreadID)
	}
	// extracted_values deserializes back to the original mapping.
	if got.ExtractedValues["sender"] != "ACME GmbH" {
		t.Errorf("extracted_values.sender = %v", got.ExtractedValues["sender"])
	}
	if !reflect.DeepEqual(got.ExtractedValues["items"], []any{"widgets"}) {
		t.Errorf("extracted_values.items = %#v", got.ExtractedValues["items"])
	}
}

func TestAppendIdsStrictlyIncreasing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var last int64
	seen := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		id, err := s.Append(ctx, sampleRecord())
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if id <= last {
			t.Fatalf("id %d not greater than previous %d", id, last)
		}
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
		last = id
	}
}

func TestListAppendOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, intent := range []string{"Invoice", "RFQ", "Complaint"} {
		rec := sampleRecord()
		rec.Intent = intent
		if _, err := s.Append(ctx, rec); err != nil {
			t.Fatalf("appending: %v", err)
		}
	}

	recs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("len = %d, want 3", len(recs))
	}
	wantIntents := []string{"Invoice", "RFQ", "Complaint"}
	for i, r := range recs {
		if r.Intent != wantIntents[i] {
			t.Errorf("recs[%d].Intent = %q, want %q", i, r.Intent, wantIntents[i])
		}
	}
}

func TestNullableSourceAndThread(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord()
	rec.Source = "" // email with no discoverable sender
	id, err := s.Append(ctx, rec)
	if err != nil {
		t.Fatalf("appending: %v", err)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("getting: %v", err)
	}
	if got.Source != "" {
		t.Errorf("source = %q, want empty", got.Source)
	}
	if got.ThreadID != nil {
		t.Errorf("thread_id = %v, want nil", *got.ThreadID)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), 999)
	if err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.Count(ctx)
	if err != nil || n != 0 {
		t.Fatalf("initial count = %d, %v", n, err)
	}
	s.Append(ctx, sampleRecord())
	s.Append(ctx, sampleRecord())
	n, err = s.Count(ctx)
	if err != nil || n != 2 {
		t.Fatalf("count = %d, %v, want 2", n, err)
	}
}

func TestVectorSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	embeds := [][]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0.9, 0.1, 0, 0},
	}
	for i, e := range embeds {
		rec := sampleRecord()
		rec.Intent = []string{"Invoice", "RFQ", "Reminder"}[i]
		id, err := s.Append(ctx, rec)
		if err != nil {
			t.Fatalf("appending: %v", err)
		}
		if err := s.InsertEmbedding(ctx, id, e); err != nil {
			t.Fatalf("inserting embedding: %v", err)
		}
	}

	results, err := s.VectorSearch(ctx, []float32{1, 0, 0, 0}, 2)
	if err != nil {
		t.Fatalf("searching: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}
	if results[0].Record.Intent != "Invoice" {
		t.Errorf("nearest = %q, want Invoice", results[0].Record.Intent)
	}
	if results[0].Score < results[1].Score {
		t.Errorf("results not ordered by score: %v, %v", results[0].Score, results[1].Score)
	}
}

func TestInsertEmbeddingDimensionMismatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id, _ := s.Append(ctx, sampleRecord())
	if err := s.InsertEmbedding(ctx, id, []float32{1, 2}); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestReopenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath, 4)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	id, err := s.Append(context.Background(), sampleRecord())
	if err != nil {
		t.Fatalf("appending: %v", err)
	}
	s.Close()

	// Reopening re-runs schema creation and migrations; both must be
	// no-ops and existing data must survive.
	s2, err := New(dbPath, 4)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("getting after reopen: %v", err)
	}
	if got.Intent != "Invoice" {
		t.Errorf("intent = %q after reopen", got.Intent)
	}

	id2, err := s2.Append(context.Background(), sampleRecord())
	if err != nil {
		t.Fatalf("appending after reopen: %v", err)
	}
	if id2 <= id {
		t.Errorf("id %d not greater than pre-reopen id %d", id2, id)
	}
}
