// Package extract holds the three format-specific extraction branches.
// Each branch shares one contract: raw input in, canonical record out,
// with the record handed to the sink before the branch returns. The
// branches differ only in collaborator (the PDF branch needs a document
// loader) and in default field population.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shinZoro/docFlow/llm"
	"github.com/shinZoro/docFlow/record"
)

var (
	// ErrSourceUnavailable marks an input path that does not resolve to
	// a readable document. Fatal for the run, never retried.
	ErrSourceUnavailable = errors.New("extract: source unavailable")

	// ErrMalformed marks oracle output that fails the canonical schema
	// parse. Surfaced to the caller, never auto-corrected.
	ErrMalformed = errors.New("extract: oracle output failed schema parse")

	// ErrSinkWrite marks a failed record persist. The extracted record
	// is not considered persisted and the run fails.
	ErrSinkWrite = errors.New("extract: record sink write failed")
)

// Sink receives validated records. The store satisfies this.
type Sink interface {
	Append(ctx context.Context, rec *record.Record) (int64, error)
}

// Extractor transforms raw content of one document kind into a persisted
// canonical record.
type Extractor interface {
	Kind() record.Kind
	Extract(ctx context.Context, raw string) (*record.Record, error)
}

// Registry maps document kinds to their extraction branches.
type Registry struct {
	extractors map[record.Kind]Extractor
}

// NewRegistry builds the registry with the three built-in branches.
func NewRegistry(chat llm.Provider, docs Loader, sink Sink) *Registry {
	r := &Registry{extractors: make(map[record.Kind]Extractor)}
	for _, e := range []Extractor{
		NewPDF(chat, docs, sink),
		NewJSON(chat, sink),
		NewEmail(chat, sink),
	} {
		r.extractors[e.Kind()] = e
	}
	return r
}

// Register adds or replaces the branch for a kind.
func (r *Registry) Register(e Extractor) {
	r.extractors[e.Kind()] = e
}

// Get returns the branch for a kind. A missing branch is a wiring bug:
// the classifier's label set and this registry must cover the same closed
// set of kinds.
func (r *Registry) Get(kind record.Kind) (Extractor, error) {
	e, ok := r.extractors[kind]
	if !ok {
		return nil, fmt.Errorf("no extractor for kind: %s", kind)
	}
	return e, nil
}

// askOracle runs one extraction oracle call and parses its output into a
// canonical record. Any output that cannot be parsed as the canonical
// schema is ErrMalformed.
func askOracle(ctx context.Context, chat llm.Provider, prompt string) (*record.Record, error) {
	resp, err := chat.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "user", Content: prompt},
		},
		Temperature:    0.0,
		ResponseFormat: "json_object",
	})
	if err != nil {
		return nil, fmt.Errorf("extraction oracle: %w", err)
	}

	jsonStr, err := llm.ExtractJSON(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := record.ValidateCanonical([]byte(jsonStr)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var rec record.Record
	if err := json.Unmarshal([]byte(jsonStr), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &rec, nil
}

// finalize normalizes defaults, pins the type tag to the branch kind, and
// validates. An oracle that re-typed the document between classification
// and extraction produced malformed output.
func finalize(rec *record.Record, kind record.Kind) error {
	got, err := rec.Kind()
	if err != nil || got != kind {
		return fmt.Errorf("%w: oracle returned type %q for a %s run", ErrMalformed, rec.Type, kind)
	}
	rec.Normalize(kind, time.Now())
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// persist hands the validated record to the sink and stamps the assigned id.
func persist(ctx context.Context, sink Sink, rec *record.Record) error {
	id, err := sink.Append(ctx, rec)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSinkWrite, err)
	}
	rec.ID = id
	return nil
}
