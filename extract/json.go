package extract

import (
	"context"
	"fmt"

	"github.com/shinZoro/docFlow/llm"
	"github.com/shinZoro/docFlow/record"
)

// JSON extracts records from inputs that are already JSON object text.
// The oracle maps the arbitrary object shape onto the canonical schema.
type JSON struct {
	chat llm.Provider
	sink Sink
}

// NewJSON creates the JSON extraction branch.
func NewJSON(chat llm.Provider, sink Sink) *JSON {
	return &JSON{chat: chat, sink: sink}
}

func (e *JSON) Kind() record.Kind { return record.KindJSON }

// Extract runs the oracle over the literal input text and persists the
// resulting record.
func (e *JSON) Extract(ctx context.Context, raw string) (*record.Record, error) {
	rec, err := askOracle(ctx, e.chat, fmt.Sprintf(jsonPrompt, raw))
	if err != nil {
		return nil, err
	}

	if err := finalize(rec, record.KindJSON); err != nil {
		return nil, err
	}

	if err := persist(ctx, e.sink, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
