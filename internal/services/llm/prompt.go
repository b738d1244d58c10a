package llm

import (
	"fmt"
	"strings"
)

// buildGroundedSystemPrompt assembles the system instruction used for
// generation-grounded answers. Context chunks are numbered so the model can
// reference them.
func buildGroundedSystemPrompt(contextChunks []string) string {
	if len(contextChunks) == 0 {
		return "You are a helpful assistant. Answer the user's question concisely."
	}

	var b strings.Builder
	b.WriteString("You are a helpful assistant. Answer the user's question using the ")
	b.WriteString("reference passages below. If the passages do not contain the answer, ")
	b.WriteString("say so rather than inventing one.\n\n")
	for i, chunk := range contextChunks {
		b.WriteString(fmt.Sprintf("Passage %d:\n%s\n\n", i+1, chunk))
	}
	return strings.TrimRight(b.String(), "\n")
}
