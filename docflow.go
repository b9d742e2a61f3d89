// Package docflow classifies incoming document references, routes them
// to a format-specific extraction branch, and appends the resulting
// canonical records to a durable SQLite log.
package docflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shinZoro/docFlow/classifier"
	"github.com/shinZoro/docFlow/export"
	"github.com/shinZoro/docFlow/extract"
	"github.com/shinZoro/docFlow/llm"
	"github.com/shinZoro/docFlow/loader"
	"github.com/shinZoro/docFlow/record"
	"github.com/shinZoro/docFlow/store"
)

// State names a stage of a pipeline run.
type State string

const (
	StateStart      State = "start"
	StateClassified State = "classified"
	StateExtracted  State = "extracted"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Result is the outcome of one pipeline run.
type Result struct {
	State   State          `json:"state"`
	Kind    record.Kind    `json:"kind,omitempty"`
	Record  *record.Record `json:"record,omitempty"`
	Message string         `json:"message"`
}

// Pipeline is the main entry point for the intake pipeline.
type Pipeline interface {
	// Process runs one input through classify, extract, and persist.
	// The returned Result always carries the terminal state and, on
	// failure, a message describing it; the error carries the taxonomy
	// sentinel for programmatic handling.
	Process(ctx context.Context, input string) (*Result, error)

	// Records returns every persisted record in append order.
	Records(ctx context.Context) ([]record.Record, error)

	// Record retrieves a single persisted record by id.
	Record(ctx context.Context, id int64) (*record.Record, error)

	// Search performs semantic search over persisted records. Requires
	// an embedding provider in the configuration.
	Search(ctx context.Context, query string, k int) ([]store.SearchResult, error)

	// ExportXLSX renders the full record log as an XLSX workbook.
	ExportXLSX(ctx context.Context) ([]byte, error)

	// Store exposes the underlying record log for diagnostics.
	Store() *store.Store

	// Close cleanly shuts down the pipeline.
	Close() error
}

// pipeline is the concrete implementation of Pipeline.
type pipeline struct {
	cfg        Config
	store      *store.Store
	chatLLM    llm.Provider
	embedLLM   llm.Provider // nil when search is disabled
	classifier classifier.Classifier
	registry   *extract.Registry

	// Runs are strictly sequential: one input is processed to
	// completion before the next is accepted, so append order equals
	// input arrival order even when callers race.
	mu sync.Mutex
}

// New creates a pipeline from configuration.
func New(cfg Config) (Pipeline, error) {
	dbPath := cfg.resolveDBPath()
	if cfg.EmbeddingDim == 0 {
		cfg.EmbeddingDim = 768
	}

	s, err := store.New(dbPath, cfg.EmbeddingDim)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	chatLLM, err := llm.NewProvider(llm.Config{
		Provider: cfg.Chat.Provider,
		Model:    cfg.Chat.Model,
		BaseURL:  cfg.Chat.BaseURL,
		APIKey:   cfg.Chat.APIKey,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: creating chat provider: %v", ErrInvalidConfig, err)
	}

	var embedLLM llm.Provider
	if cfg.Embedding.Provider != "" {
		embedLLM, err = llm.NewProvider(llm.Config{
			Provider: cfg.Embedding.Provider,
			Model:    cfg.Embedding.Model,
			BaseURL:  cfg.Embedding.BaseURL,
			APIKey:   cfg.Embedding.APIKey,
		})
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("%w: creating embedding provider: %v", ErrInvalidConfig, err)
		}
	}

	sink := &recordSink{store: s, embed: embedLLM}
	return &pipeline{
		cfg:        cfg,
		store:      s,
		chatLLM:    chatLLM,
		embedLLM:   embedLLM,
		classifier: classifier.New(chatLLM),
		registry:   extract.NewRegistry(chatLLM, loader.NewPDF(), sink),
	}, nil
}

// Process drives the run state machine: START → CLASSIFIED → EXTRACTED →
// DONE, with FAILED reachable from any state. The pipeline holds no
// state between runs beyond the append-only store.
func (p *pipeline) Process(ctx context.Context, input string) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	res := &Result{State: StateStart}

	kind, err := p.classifier.Classify(ctx, input)
	if err != nil {
		return p.fail(res, fmt.Errorf("%w: %v", ErrClassification, err))
	}
	res.Kind = kind
	res.State = StateClassified
	slog.Info("run: input classified", "kind", kind)

	branch, err := p.registry.Get(kind)
	if err != nil {
		// The registry covers the same closed kind set as the
		// classifier; reaching this is a wiring bug.
		return p.fail(res, fmt.Errorf("%w: %v", ErrUnknownKind, err))
	}

	rec, err := branch.Extract(ctx, input)
	if err != nil {
		return p.fail(res, mapBranchError(err))
	}
	res.Record = rec
	res.State = StateExtracted

	res.State = StateDone
	res.Message = fmt.Sprintf("Data from %s extracted and saved successfully", kindNoun(kind))
	slog.Info("run: record persisted",
		"kind", kind,
		"record_id", rec.ID,
		"intent", rec.Intent,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return res, nil
}

func (p *pipeline) fail(res *Result, err error) (*Result, error) {
	from := res.State
	res.State = StateFailed
	res.Message = err.Error()
	slog.Warn("run: failed", "state", from, "kind", res.Kind, "error", err)
	return res, err
}

// mapBranchError translates branch-level sentinels into the pipeline's
// error taxonomy.
func mapBranchError(err error) error {
	switch {
	case errors.Is(err, extract.ErrSourceUnavailable):
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	case errors.Is(err, extract.ErrMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedExtraction, err)
	case errors.Is(err, extract.ErrSinkWrite):
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	return err
}

// kindNoun renders a kind for the confirmation message.
func kindNoun(kind record.Kind) string {
	if kind == record.KindEmail {
		return "Email"
	}
	return string(kind)
}

func (p *pipeline) Records(ctx context.Context) ([]record.Record, error) {
	return p.store.List(ctx)
}

func (p *pipeline) Record(ctx context.Context, id int64) (*record.Record, error) {
	return p.store.Get(ctx, id)
}

func (p *pipeline) Search(ctx context.Context, query string, k int) ([]store.SearchResult, error) {
	if p.embedLLM == nil {
		return nil, fmt.Errorf("%w: semantic search requires an embedding provider", ErrInvalidConfig)
	}
	if k <= 0 {
		k = 5
	}

	embeddings, err := p.embedLLM.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, fmt.Errorf("embedding provider returned no vector")
	}

	return p.store.VectorSearch(ctx, embeddings[0], k)
}

func (p *pipeline) ExportXLSX(ctx context.Context) ([]byte, error) {
	recs, err := p.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return export.Workbook(recs)
}

func (p *pipeline) Store() *store.Store {
	return p.store
}

func (p *pipeline) Close() error {
	return p.store.Close()
}

// recordSink adapts the store to the extraction branches and maintains
// the auxiliary search index. Indexing failures are logged, not
// surfaced: the run's durability contract covers the memory table only.
type recordSink struct {
	store *store.Store
	embed llm.Provider
}

func (s *recordSink) Append(ctx context.Context, rec *record.Record) (int64, error) {
	id, err := s.store.Append(ctx, rec)
	if err != nil {
		return 0, err
	}

	if s.embed != nil {
		if err := s.index(ctx, id, rec); err != nil {
			slog.Warn("search indexing failed (non-fatal)", "record_id", id, "error", err)
		}
	}
	return id, nil
}

func (s *recordSink) index(ctx context.Context, id int64, rec *record.Record) error {
	embeddings, err := s.embed.Embed(ctx, []string{searchText(rec)})
	if err != nil {
		return err
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return fmt.Errorf("embedding provider returned no vector")
	}
	return s.store.InsertEmbedding(ctx, id, embeddings[0])
}

// searchText renders a record as the text its search embedding is
// computed from. Keys are sorted so the rendering is stable.
func searchText(rec *record.Record) string {
	var b strings.Builder
	b.WriteString(rec.Intent)
	if rec.Source != "" {
		b.WriteString(" ")
		b.WriteString(rec.Source)
	}

	keys := make([]string, 0, len(rec.ExtractedValues))
	for k := range rec.ExtractedValues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := rec.ExtractedValues[k]
		if v == nil {
			continue
		}
		fmt.Fprintf(&b, "\n%s: %v", k, v)
	}
	return b.String()
}
