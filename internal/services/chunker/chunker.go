package chunker

import (
	"github.com/ternarybob/colloquy/internal/models"
)

const (
	// DefaultChunkSize is the default maximum chunk length in characters
	DefaultChunkSize = 500
	// DefaultChunkOverlap is the default overlap between consecutive chunks
	DefaultChunkOverlap = 50
)

// Splitter splits documents into fixed-size character windows with overlap.
// Consecutive chunks from the same document share overlap characters at the
// boundary so context survives the cut points.
type Splitter struct {
	chunkSize int
	overlap   int
}

// NewSplitter creates a Splitter. Invalid parameters fall back to the
// defaults: chunkSize must be positive and overlap must satisfy
// 0 <= overlap < chunkSize.
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultChunkOverlap
		if overlap >= chunkSize {
			overlap = chunkSize / 10
		}
	}
	return &Splitter{
		chunkSize: chunkSize,
		overlap:   overlap,
	}
}

// ChunkSize returns the configured maximum chunk length
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured chunk overlap
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split chunks each document into successive windows of at most chunkSize
// characters, advancing the window start by chunkSize-overlap each step.
// The final chunk of a document may be shorter than chunkSize. An empty
// document yields zero chunks.
func (s *Splitter) Split(documents []models.Document) []models.Chunk {
	var chunks []models.Chunk
	for _, doc := range documents {
		chunks = append(chunks, s.splitOne(doc)...)
	}
	return chunks
}

func (s *Splitter) splitOne(doc models.Document) []models.Chunk {
	runes := []rune(doc.Content)
	if len(runes) == 0 {
		return nil
	}

	step := s.chunkSize - s.overlap
	var chunks []models.Chunk
	idx := 0
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, models.Chunk{
			DocumentID: doc.ID,
			Index:      idx,
			Text:       string(runes[start:end]),
		})
		idx++
		if end == len(runes) {
			break
		}
	}
	return chunks
}
