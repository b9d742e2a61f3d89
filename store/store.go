// Package store persists extraction records to an append-only SQLite log.
package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/shinZoro/docFlow/record"
)

func init() {
	sqlite_vec.Auto()
}

// SearchResult is a record with its semantic similarity score.
type SearchResult struct {
	Record record.Record `json:"record"`
	Score  float64       `json:"score"`
}

// Store wraps the SQLite database holding the record log.
type Store struct {
	db           *sql.DB
	embeddingDim int
}

// New opens (or creates) the SQLite database at dbPath and ensures the
// schema exists. Creation is idempotent, so a missing database file is
// simply created on first use.
func New(dbPath string, embeddingDim int) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL(embeddingDim)); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db, embeddingDim: embeddingDim}

	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EmbeddingDim returns the configured embedding dimension.
func (s *Store) EmbeddingDim() int {
	return s.embeddingDim
}

// Append inserts a record and returns its assigned id. Ids increase
// monotonically for the lifetime of the log; there is no update or
// delete counterpart.
func (s *Store) Append(ctx context.Context, rec *record.Record) (int64, error) {
	values, err := json.Marshal(rec.ExtractedValues)
	if err != nil {
		return 0, fmt.Errorf("serializing extracted_values: %w", err)
	}

	// Email inputs may carry no discoverable sender; their source is
	// stored as NULL, matching the canonical schema's nullable source.
	var source any
	if rec.Source != "" {
		source = rec.Source
	}
	var threadID any
	if rec.ThreadID != nil {
		threadID = *rec.ThreadID
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO memory (source, type, timestamp, intent, extracted_values, thread_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, source, rec.Type, rec.Timestamp, rec.Intent, string(values), threadID)
	if err != nil {
		return 0, fmt.Errorf("inserting record: %w", err)
	}

	return res.LastInsertId()
}

// Get retrieves a single record by id.
func (s *Store) Get(ctx context.Context, id int64) (*record.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, type, timestamp, intent, extracted_values, thread_id
		FROM memory WHERE id = ?
	`, id)
	rec, err := scanRecord(row)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns all records in append order.
func (s *Store) List(ctx context.Context) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, type, timestamp, intent, extracted_values, thread_id
		FROM memory ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []record.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

// Count returns the number of persisted records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM memory").Scan(&n)
	return n, err
}

// InsertEmbedding stores the vector embedding for a record.
func (s *Store) InsertEmbedding(ctx context.Context, recordID int64, embedding []float32) error {
	if len(embedding) != s.embeddingDim {
		return fmt.Errorf("embedding dimension %d, store expects %d", len(embedding), s.embeddingDim)
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO vec_records (record_id, embedding) VALUES (?, ?)",
		recordID, serializeFloat32(embedding))
	return err
}

// VectorSearch performs a KNN search returning the k records nearest to
// the query embedding.
func (s *Store) VectorSearch(ctx context.Context, queryEmbedding []float32, k int) ([]SearchResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.distance,
			m.id, m.source, m.type, m.timestamp, m.intent, m.extracted_values, m.thread_id
		FROM vec_records v
		JOIN memory m ON m.id = v.record_id
		WHERE v.embedding MATCH ? AND k = ?
		ORDER BY v.distance
	`, serializeFloat32(queryEmbedding), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			distance        float64
			rec             record.Record
			source, thread  sql.NullString
			extractedValues string
		)
		if err := rows.Scan(&distance, &rec.ID, &source, &rec.Type, &rec.Timestamp,
			&rec.Intent, &extractedValues, &thread); err != nil {
			return nil, err
		}
		rec.Source = source.String
		if thread.Valid {
			rec.ThreadID = &thread.String
		}
		if err := json.Unmarshal([]byte(extractedValues), &rec.ExtractedValues); err != nil {
			return nil, fmt.Errorf("deserializing extracted_values for record %d: %w", rec.ID, err)
		}
		// Convert distance to similarity score (1 - distance for cosine).
		results = append(results, SearchResult{Record: rec, Score: 1.0 - distance})
	}
	return results, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*record.Record, error) {
	var (
		rec             record.Record
		source, thread  sql.NullString
		extractedValues string
	)
	if err := sc.Scan(&rec.ID, &source, &rec.Type, &rec.Timestamp,
		&rec.Intent, &extractedValues, &thread); err != nil {
		return nil, err
	}
	rec.Source = source.String
	if thread.Valid {
		rec.ThreadID = &thread.String
	}
	if err := json.Unmarshal([]byte(extractedValues), &rec.ExtractedValues); err != nil {
		return nil, fmt.Errorf("deserializing extracted_values for record %d: %w", rec.ID, err)
	}
	return &rec, nil
}

// serializeFloat32 converts a float32 slice to little-endian bytes for sqlite-vec.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
