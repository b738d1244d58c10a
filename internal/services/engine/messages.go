package engine

import (
	"fmt"

	"github.com/ternarybob/colloquy/internal/models"
)

// synthesizeAnswer builds a retrieval-only answer from the top search
// results, using at most limit chunks of context.
func synthesizeAnswer(results []models.SearchResult, limit int) string {
	if limit <= 0 {
		limit = 1
	}
	if limit > len(results) {
		limit = len(results)
	}

	if limit == 1 {
		return fmt.Sprintf("%s\n\nThis information is retrieved from the knowledge base using semantic search.", results[0].Entry.Text)
	}
	return fmt.Sprintf("%s\n\nAdditionally: %s", results[0].Entry.Text, results[1].Entry.Text)
}

// initFailureMessage is returned when the capability bootstrap itself
// failed. Like every other fallback it echoes the question back.
func initFailureMessage(question string, err error) string {
	return fmt.Sprintf(
		"I received your question: '%s'\n\n"+
			"RAG system is initializing. Please try again in a moment. Error: %s",
		question, err)
}

// noResultsMessage is returned when retrieval works but finds nothing
// relevant to the question.
func noResultsMessage(question string) string {
	return fmt.Sprintf(
		"I received your question: '%s'\n\n"+
			"However, I couldn't find directly relevant information in the knowledge base. "+
			"The RAG retrieval system is working, but you may want to add more documents "+
			"related to your question. For AI-generated responses, configure a generation provider.",
		question)
}

// retrievalErrorMessage is returned when the similarity search itself fails
func retrievalErrorMessage(question string, err error) string {
	return fmt.Sprintf(
		"Retrieval error: %s\n\n"+
			"I received your question: '%s'. "+
			"The system is working but encountered an issue during retrieval.",
		err, question)
}

// initializingMessage is the last-resort answer when no vector index is
// available at all.
func initializingMessage(question string) string {
	return fmt.Sprintf(
		"Hello! I received your question: '%s'\n\n"+
			"The RAG system is still initializing. Please wait a moment and try again. "+
			"If this persists, check the embedding provider configuration.",
		question)
}
