package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shinZoro/docFlow/llm"
	"github.com/shinZoro/docFlow/loader"
	"github.com/shinZoro/docFlow/record"
)

// Loader is the document-text collaborator the PDF branch depends on.
type Loader = loader.Loader

// PDF extracts records from PDF files referenced by path.
type PDF struct {
	chat llm.Provider
	docs Loader
	sink Sink
}

// NewPDF creates the PDF extraction branch.
func NewPDF(chat llm.Provider, docs Loader, sink Sink) *PDF {
	return &PDF{chat: chat, docs: docs, sink: sink}
}

func (e *PDF) Kind() record.Kind { return record.KindPDF }

// Extract interprets raw as a file-system path, loads the document's
// pages into plain text, runs the oracle over that text, and persists
// the resulting record.
func (e *PDF) Extract(ctx context.Context, raw string) (*record.Record, error) {
	path := strings.Trim(strings.TrimSpace(raw), "\"' ")

	pages, err := e.docs.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	rec, err := askOracle(ctx, e.chat, fmt.Sprintf(pdfPrompt, loader.Text(pages)))
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(rec.Source) == "" {
		rec.Source = filepath.Base(path)
	}
	if err := finalize(rec, record.KindPDF); err != nil {
		return nil, err
	}

	if err := persist(ctx, e.sink, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
