package models

import "time"

// Document is a raw text blob submitted for ingestion. It exists only
// transiently while being chunked and embedded.
type Document struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
}

// Chunk is a bounded-length segment of a document, produced by the chunker.
// Consecutive chunks from the same document share the configured overlap.
type Chunk struct {
	DocumentID string `json:"document_id"`
	Index      int    `json:"index"`
	Text       string `json:"text"`
}

// IndexEntry is a persisted vector index record: one chunk's text with its
// embedding vector. Entries are never mutated in place; updates are modeled
// as delete+insert.
type IndexEntry struct {
	ID        string    `json:"id" badgerhold:"key"`
	Text      string    `json:"text"`
	Source    string    `json:"source,omitempty"`
	Vector    []float32 `json:"vector"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchResult pairs an index entry with its similarity score to a query.
type SearchResult struct {
	Entry IndexEntry `json:"entry"`
	Score float32    `json:"score"`
}
