package vectorindex

import "context"

// Entry is one stored document in a namespace. Response is only populated for
// cache-style namespaces; knowledge namespaces leave it empty.
type Entry struct {
	ID       string
	Text     string
	Response string
	Source   string
}

// Match pairs an entry with its cosine distance to the query vector.
// Similarity is 1 - Distance.
type Match struct {
	Entry    Entry
	Distance float64
}

func (m Match) Similarity() float64 {
	return 1 - m.Distance
}

// Index is a namespace-partitioned nearest-neighbor store. Implementations
// must order Query results ascending by distance and return an empty slice,
// not an error, for a namespace that has never been written.
type Index interface {
	Upsert(ctx context.Context, namespace string, entry Entry, embedding []float32) error
	Query(ctx context.Context, namespace string, embedding []float32, k int) ([]Match, error)
}
