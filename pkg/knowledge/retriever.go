package knowledge

import (
	"context"
	"log"

	"ai-gateway-be/pkg/embedding"
	"ai-gateway-be/pkg/vectorindex"
)

// Namespace is the manually curated grounding corpus, shared by the retriever
// and the ingestor and independent of the active model.
const Namespace = "knowledge"

// Retriever pulls the single nearest knowledge snippet for prompt grounding.
// Unlike the semantic cache there is no similarity gate: injected context is a
// soft hint, so the top match is always used when the corpus is non-empty.
type Retriever struct {
	index    vectorindex.Index
	embedder embedding.Provider
}

func NewRetriever(index vectorindex.Index, embedder embedding.Provider) *Retriever {
	return &Retriever{
		index:    index,
		embedder: embedder,
	}
}

// Retrieve returns the best grounding snippet, or ok=false when the corpus is
// empty or the lookup degrades.
func (r *Retriever) Retrieve(ctx context.Context, prompt string) (string, bool) {
	vec, err := r.embedder.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[WARN] retrieval degraded, embedding failed: %v", err)
		return "", false
	}

	matches, err := r.index.Query(ctx, Namespace, vec, 1)
	if err != nil {
		log.Printf("[WARN] retrieval degraded, index query failed: %v", err)
		return "", false
	}
	if len(matches) == 0 {
		return "", false
	}

	return matches[0].Entry.Text, true
}
