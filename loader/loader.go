// Package loader turns a file-system path into page-segmented plain text.
// It is the PDF extraction branch's only collaborator besides the oracle.
package loader

import "context"

// Page is the plain text of a single document page.
type Page struct {
	Number int
	Text   string
}

// Loader reads a document's pages into plain text. Implementations fail
// when the path is unreadable or not a document they understand.
type Loader interface {
	Load(ctx context.Context, path string) ([]Page, error)
}
