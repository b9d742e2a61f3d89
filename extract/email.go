package extract

import (
	"context"
	"fmt"

	"github.com/shinZoro/docFlow/llm"
	"github.com/shinZoro/docFlow/record"
)

// Email is the catch-all extraction branch for free text. Source stays
// empty when no sender address is discoverable, and items always exists,
// defaulting to an empty list.
type Email struct {
	chat llm.Provider
	sink Sink
}

// NewEmail creates the email extraction branch.
func NewEmail(chat llm.Provider, sink Sink) *Email {
	return &Email{chat: chat, sink: sink}
}

func (e *Email) Kind() record.Kind { return record.KindEmail }

// Extract runs the oracle over the free-text input and persists the
// resulting record.
func (e *Email) Extract(ctx context.Context, raw string) (*record.Record, error) {
	rec, err := askOracle(ctx, e.chat, fmt.Sprintf(emailPrompt, raw))
	if err != nil {
		return nil, err
	}

	if err := finalize(rec, record.KindEmail); err != nil {
		return nil, err
	}

	// Items is never absent or null for emails, only possibly empty.
	if v, ok := rec.ExtractedValues["items"]; !ok || v == nil {
		rec.ExtractedValues["items"] = []any{}
	}

	if err := persist(ctx, e.sink, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
