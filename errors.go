package docflow

import "errors"

var (
	// ErrClassification is returned when the classification oracle returns
	// no label or a label outside the closed {pdf, json, email} set.
	ErrClassification = errors.New("docflow: classification failed")

	// ErrSourceUnavailable is returned when a PDF input path does not
	// resolve to a readable document.
	ErrSourceUnavailable = errors.New("docflow: source unavailable")

	// ErrMalformedExtraction is returned when the extraction oracle's
	// output cannot be parsed as a canonical record.
	ErrMalformedExtraction = errors.New("docflow: malformed extraction output")

	// ErrStoreWrite is returned when persisting a record fails. The run
	// is reported failed even though extraction itself succeeded.
	ErrStoreWrite = errors.New("docflow: store write failed")

	// ErrUnknownKind is returned when no extraction branch is registered
	// for a classified kind. Reaching it indicates a wiring bug, not a
	// runtime condition.
	ErrUnknownKind = errors.New("docflow: no extractor for document kind")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("docflow: invalid configuration")
)
