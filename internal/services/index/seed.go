package index

// seedSentences is the starter knowledge base used when no persisted index
// exists yet. Ingested documents extend it over time.
var seedSentences = []string{
	"FastAPI is a modern Python web framework for building APIs quickly and efficiently.",
	"RAG (Retrieval-Augmented Generation) combines information retrieval with language generation for more accurate AI responses.",
	"ChromaDB is a vector database that stores embeddings for semantic search and similarity matching.",
	"LangChain is a framework for building applications powered by large language models.",
	"Vector embeddings convert text into numerical representations that capture semantic meaning.",
	"Semantic search allows finding information based on meaning rather than exact keyword matches.",
	"The RAG automation system stores conversation threads in a SQLite database for persistence.",
	"Users can create multiple conversation threads, each maintaining its own message history.",
	"The frontend interface allows real-time chat with the RAG-powered assistant.",
	"Embeddings enable the system to find relevant information even when exact words don't match.",
}

// SeedDocumentCount returns the number of starter knowledge base sentences
func SeedDocumentCount() int {
	return len(seedSentences)
}
