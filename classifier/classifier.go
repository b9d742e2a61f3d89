// Package classifier assigns a raw input string one of the three document
// kinds the pipeline routes between. The unambiguous rules (a .pdf path,
// a well-formed JSON object) are applied in-process; everything else is
// delegated to the classification oracle carrying the same rules as its
// instruction.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shinZoro/docFlow/llm"
	"github.com/shinZoro/docFlow/record"
)

// Classifier assigns a document kind to a raw input string.
type Classifier interface {
	Classify(ctx context.Context, text string) (record.Kind, error)
}

// routeSystemPrompt is the three-rule policy handed to the oracle. The
// rules mirror the in-process checks so the oracle only ever decides the
// cases those checks could not settle.
const routeSystemPrompt = `You are an expert at classifying an input message as a pdf path, a json document, or an email.
Answer "pdf" when the message is the path of a file ending in .pdf, or it mentions a PDF document the user wants processed.
Answer "json" when the message is a well-formed JSON object with keys and values.
Answer "email" in every other case: any message that is neither a pdf path nor a json object counts as an email.
Respond with a JSON object of the form {"format": "pdf"} and nothing else.`

// Oracle is the LLM-backed classifier.
type Oracle struct {
	chat llm.Provider
}

// New creates a classifier over the given chat provider.
func New(chat llm.Provider) *Oracle {
	return &Oracle{chat: chat}
}

// Classify assigns text a kind. It is side-effect free; given a
// deterministic oracle it is deterministic. Oracle failures and labels
// outside the closed set are errors, never normalized.
func (c *Oracle) Classify(ctx context.Context, text string) (record.Kind, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty input")
	}

	// Deterministic fast paths. These are the same rules the oracle is
	// instructed with, enforced in-process where no judgment is needed.
	if LooksLikePDFPath(text) {
		return record.KindPDF, nil
	}
	if LooksLikeJSONObject(text) {
		return record.KindJSON, nil
	}

	resp, err := c.chat.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: routeSystemPrompt},
			{Role: "user", Content: text},
		},
		Temperature:    0.0,
		ResponseFormat: "json_object",
	})
	if err != nil {
		return "", fmt.Errorf("classification oracle: %w", err)
	}

	label, err := parseLabel(resp.Content)
	if err != nil {
		return "", err
	}

	kind, err := record.ParseKind(label)
	if err != nil {
		return "", fmt.Errorf("oracle returned invalid label %q", label)
	}
	return kind, nil
}

// labelResult is the JSON shape the oracle is asked to return.
type labelResult struct {
	Format string `json:"format"`
}

// parseLabel reads the oracle's label, tolerating fenced JSON and, as a
// last resort, a bare one-word answer.
func parseLabel(content string) (string, error) {
	if jsonStr, err := llm.ExtractJSON(content); err == nil {
		var result labelResult
		if err := json.Unmarshal([]byte(jsonStr), &result); err == nil && result.Format != "" {
			return result.Format, nil
		}
	}

	bare := strings.ToLower(strings.Trim(strings.TrimSpace(content), "\"'.` "))
	if bare == "" {
		return "", fmt.Errorf("oracle returned no label")
	}
	return bare, nil
}

// LooksLikePDFPath reports whether text is a file reference with a
// .pdf-style suffix.
func LooksLikePDFPath(text string) bool {
	t := strings.ToLower(strings.Trim(strings.TrimSpace(text), "\"' "))
	return strings.HasSuffix(t, ".pdf") && !strings.ContainsAny(t, "\n")
}

// LooksLikeJSONObject reports whether text parses as a JSON object with
// key/value pairs.
func LooksLikeJSONObject(text string) bool {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "{") {
		return false
	}
	var m map[string]any
	return json.Unmarshal([]byte(t), &m) == nil
}
