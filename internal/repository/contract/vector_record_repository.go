package contract

import (
	"context"

	"ai-gateway-be/internal/entity"
)

// ScoredVectorRecord pairs a record with its cosine similarity to a query
// vector (1 - pgvector cosine distance).
type ScoredVectorRecord struct {
	Record     *entity.VectorRecord
	Similarity float64
}

type VectorRecordRepository interface {
	// Upsert inserts or replaces the record identified by (namespace, record id).
	Upsert(ctx context.Context, record *entity.VectorRecord) error

	// SearchSimilar returns up to limit records in the namespace ordered by
	// descending similarity. An unknown namespace yields an empty slice.
	SearchSimilar(ctx context.Context, namespace string, embedding []float32, limit int) ([]*ScoredVectorRecord, error)

	CountByNamespace(ctx context.Context, namespace string) (int64, error)
}
