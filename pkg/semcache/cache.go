package semcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"log"
	"sync/atomic"

	"ai-gateway-be/pkg/embedding"
	"ai-gateway-be/pkg/vectorindex"
)

// Cache reuses responses for semantically equivalent prompts. The namespace
// carries a hash of the active model identifier, so switching models starts
// cold instead of serving answers another model generated.
type Cache struct {
	index     vectorindex.Index
	embedder  embedding.Provider
	namespace string
	threshold float64
	hits      atomic.Int64
}

// NewCache builds a cache bound to modelID's namespace. threshold is the
// minimum cosine similarity for a lookup to count as a hit; it trades
// false-positive reuse against recall, defaulting high on purpose.
func NewCache(index vectorindex.Index, embedder embedding.Provider, modelID string, threshold float64) *Cache {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.85
	}
	return &Cache{
		index:     index,
		embedder:  embedder,
		namespace: fmt.Sprintf("cache:%s", modelHash(modelID)),
		threshold: threshold,
	}
}

// Lookup returns the stored response for the nearest previous prompt when its
// similarity clears the threshold. Backend and embedding failures degrade to
// a miss; caching is an optimization, never a reason to fail the request.
func (c *Cache) Lookup(ctx context.Context, prompt string) (string, bool) {
	vec, err := c.embedder.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[WARN] cache lookup degraded, embedding failed: %v", err)
		return "", false
	}

	matches, err := c.index.Query(ctx, c.namespace, vec, 1)
	if err != nil {
		log.Printf("[WARN] cache lookup degraded, index query failed: %v", err)
		return "", false
	}
	if len(matches) == 0 {
		return "", false
	}

	best := matches[0]
	if best.Similarity() < c.threshold {
		return "", false
	}

	c.hits.Add(1)
	return best.Entry.Response, true
}

// Store upserts (prompt, response) keyed by the prompt's content hash, so
// storing the identical prompt twice overwrites instead of duplicating.
func (c *Cache) Store(ctx context.Context, prompt, response string) error {
	vec, err := c.embedder.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("embed prompt: %w", err)
	}

	entry := vectorindex.Entry{
		ID:       PromptHash(prompt),
		Text:     prompt,
		Response: response,
	}
	if err := c.index.Upsert(ctx, c.namespace, entry, vec); err != nil {
		return fmt.Errorf("upsert cache record: %w", err)
	}
	return nil
}

// Hits reports successful lookups since startup. Observability only.
func (c *Cache) Hits() int64 {
	return c.hits.Load()
}

func (c *Cache) Namespace() string {
	return c.namespace
}

func PromptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

func modelHash(modelID string) string {
	h := fnv.New32a()
	h.Write([]byte(modelID))
	return fmt.Sprintf("%08x", h.Sum32())
}
