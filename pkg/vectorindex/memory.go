package vectorindex

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryIndex is a brute-force in-process Index. It backs unit tests and the
// no-postgres development mode; production uses the pgvector repository.
type MemoryIndex struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]memoryRecord
}

type memoryRecord struct {
	entry     Entry
	embedding []float32
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		namespaces: make(map[string]map[string]memoryRecord),
	}
}

func (m *MemoryIndex) Upsert(_ context.Context, namespace string, entry Entry, embedding []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.namespaces[namespace]
	if !ok {
		ns = make(map[string]memoryRecord)
		m.namespaces[namespace] = ns
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)
	ns[entry.ID] = memoryRecord{entry: entry, embedding: vec}
	return nil
}

func (m *MemoryIndex) Query(_ context.Context, namespace string, embedding []float32, k int) ([]Match, error) {
	if k <= 0 {
		k = 1
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	ns, ok := m.namespaces[namespace]
	if !ok {
		return []Match{}, nil
	}

	matches := make([]Match, 0, len(ns))
	for _, rec := range ns {
		matches = append(matches, Match{
			Entry:    rec.entry,
			Distance: cosineDistance(embedding, rec.embedding),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
