package store

import "fmt"

// schemaSQL returns the DDL for the record log. embeddingDim controls the
// vec0 virtual table dimension and must match the embedding model.
//
// The memory table is the only on-disk contract: records are appended and
// read, never updated or deleted. extracted_values is a serialized JSON
// blob whose internal key order carries no meaning.
func schemaSQL(embeddingDim int) string {
	return fmt.Sprintf(`
-- Append-only record log
CREATE TABLE IF NOT EXISTS memory (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT,
    type TEXT NOT NULL,
    timestamp TEXT NOT NULL,
    intent TEXT NOT NULL,
    extracted_values TEXT NOT NULL,
    thread_id TEXT
);

-- Vector index over record text renderings via sqlite-vec.
-- Auxiliary: rows appear here only when an embedding provider is
-- configured, and their absence never fails a run.
CREATE VIRTUAL TABLE IF NOT EXISTS vec_records USING vec0(
    record_id INTEGER PRIMARY KEY,
    embedding float[%d]
);
`, embeddingDim)
}
