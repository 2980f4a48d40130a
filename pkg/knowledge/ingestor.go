package knowledge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"ai-gateway-be/pkg/embedding"
	"ai-gateway-be/pkg/vectorindex"
)

// Ingestor writes knowledge snippets into the grounding namespace. The record
// id is a content hash, so re-ingesting the same text is an overwrite.
type Ingestor struct {
	index    vectorindex.Index
	embedder embedding.Provider
}

func NewIngestor(index vectorindex.Index, embedder embedding.Provider) *Ingestor {
	return &Ingestor{
		index:    index,
		embedder: embedder,
	}
}

func (i *Ingestor) Ingest(ctx context.Context, text, source string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("knowledge text is empty")
	}
	if source == "" {
		source = "manual"
	}

	vec, err := i.embedder.Generate(ctx, text)
	if err != nil {
		return fmt.Errorf("embed knowledge: %w", err)
	}

	entry := vectorindex.Entry{
		ID:     ContentHash(text),
		Text:   text,
		Source: source,
	}
	if err := i.index.Upsert(ctx, Namespace, entry, vec); err != nil {
		return fmt.Errorf("upsert knowledge record: %w", err)
	}
	return nil
}

func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
