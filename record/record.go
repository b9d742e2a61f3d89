package record

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the closed set of document kinds the intake pipeline routes
// between. Adding a kind means extending both the classifier's label set
// and the extraction registry.
type Kind string

const (
	KindPDF   Kind = "PDF"
	KindJSON  Kind = "JSON"
	KindEmail Kind = "EMAIL"
)

// Kinds returns all document kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindPDF, KindJSON, KindEmail}
}

// Label returns the lowercase label the classification oracle uses for
// this kind.
func (k Kind) Label() string {
	return strings.ToLower(string(k))
}

func (k Kind) String() string { return string(k) }

// ParseKind maps a label to its Kind, case-insensitively. Oracles are
// inconsistent about casing ("Email" vs "EMAIL"); anything outside the
// three tags is an error.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PDF":
		return KindPDF, nil
	case "JSON":
		return KindJSON, nil
	case "EMAIL":
		return KindEmail, nil
	}
	return "", fmt.Errorf("unknown document kind %q", s)
}

// Record is the canonical output of every extraction branch and the row
// shape of the persisted record log.
type Record struct {
	// ID is assigned by the store on append; zero until persisted.
	ID int64 `json:"id,omitempty"`

	// Source is a file path, JSON source id, or sender address depending
	// on kind. May be empty for email inputs with no discoverable sender.
	Source string `json:"source"`

	// Type is the document kind tag, always one of PDF, JSON, EMAIL.
	Type string `json:"type"`

	// Timestamp is an ISO-8601 string. Defaults to extraction time (UTC)
	// when the oracle omits it.
	Timestamp string `json:"timestamp"`

	// Intent is the oracle's free-form classification of document
	// purpose, e.g. "Invoice" or "RFQ".
	Intent string `json:"intent"`

	// ExtractedValues is always non-nil once normalized, even if empty.
	ExtractedValues map[string]any `json:"extracted_values"`

	// ThreadID is reserved for future conversation correlation. Nothing
	// in this system populates it; it stays null unless a collaborator
	// supplies one.
	ThreadID *string `json:"thread_id"`
}

// Kind returns the record's type tag as a Kind.
func (r *Record) Kind() (Kind, error) {
	return ParseKind(r.Type)
}

// Normalize fills the defaults the canonical schema allows an oracle to
// omit: the type tag is rewritten to its canonical casing, a missing
// timestamp becomes now (UTC, RFC 3339), and a nil extracted_values map
// becomes an empty one.
func (r *Record) Normalize(kind Kind, now time.Time) {
	r.Type = string(kind)
	if strings.TrimSpace(r.Timestamp) == "" {
		r.Timestamp = now.UTC().Format(time.RFC3339)
	}
	if r.ExtractedValues == nil {
		r.ExtractedValues = map[string]any{}
	}
}

// Validate checks the invariants a record must satisfy before it may be
// persisted. Called after Normalize.
func (r *Record) Validate() error {
	if _, err := ParseKind(r.Type); err != nil {
		return err
	}
	if r.Timestamp == "" {
		return fmt.Errorf("record missing timestamp")
	}
	if strings.TrimSpace(r.Intent) == "" {
		return fmt.Errorf("record missing intent")
	}
	if r.ExtractedValues == nil {
		return fmt.Errorf("record missing extracted_values")
	}
	return nil
}
