package implementation

import (
	"context"

	"ai-gateway-be/internal/entity"
	"ai-gateway-be/internal/repository/contract"
	"ai-gateway-be/pkg/vectorindex"
)

// pgVectorIndex exposes the gorm/pgvector repository through the
// backend-agnostic vectorindex.Index contract used by the cache and retriever.
type pgVectorIndex struct {
	repo contract.VectorRecordRepository
}

func NewPgVectorIndex(repo contract.VectorRecordRepository) vectorindex.Index {
	return &pgVectorIndex{repo: repo}
}

func (p *pgVectorIndex) Upsert(ctx context.Context, namespace string, e vectorindex.Entry, embedding []float32) error {
	record := &entity.VectorRecord{
		Namespace: namespace,
		RecordId:  e.ID,
		Document:  e.Text,
		Response:  e.Response,
		Embedding: embedding,
	}
	if e.Source != "" {
		record.Metadata = map[string]interface{}{"source": e.Source}
	}
	return p.repo.Upsert(ctx, record)
}

func (p *pgVectorIndex) Query(ctx context.Context, namespace string, embedding []float32, k int) ([]vectorindex.Match, error) {
	scored, err := p.repo.SearchSimilar(ctx, namespace, embedding, k)
	if err != nil {
		return nil, err
	}

	matches := make([]vectorindex.Match, len(scored))
	for i, s := range scored {
		source := ""
		if s.Record.Metadata != nil {
			if v, ok := s.Record.Metadata["source"].(string); ok {
				source = v
			}
		}
		matches[i] = vectorindex.Match{
			Entry: vectorindex.Entry{
				ID:       s.Record.RecordId,
				Text:     s.Record.Document,
				Response: s.Record.Response,
				Source:   source,
			},
			Distance: 1 - s.Similarity,
		}
	}
	return matches, nil
}
