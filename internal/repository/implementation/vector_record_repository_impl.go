package implementation

import (
	"context"

	"ai-gateway-be/internal/entity"
	"ai-gateway-be/internal/mapper"
	"ai-gateway-be/internal/model"
	"ai-gateway-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VectorRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VectorRecordMapper
}

func NewVectorRecordRepository(db *gorm.DB) contract.VectorRecordRepository {
	return &VectorRecordRepositoryImpl{
		db:     db,
		mapper: mapper.NewVectorRecordMapper(),
	}
}

func (r *VectorRecordRepositoryImpl) Upsert(ctx context.Context, record *entity.VectorRecord) error {
	m := r.mapper.ToModel(record)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "record_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "response", "embedding", "metadata", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *VectorRecordRepositoryImpl) SearchSimilar(ctx context.Context, namespace string, embedding []float32, limit int) ([]*contract.ScoredVectorRecord, error) {
	if limit <= 0 {
		limit = 1
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding <=> query_vector) recovers the similarity.
	type result struct {
		model.VectorRecord
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("vector_records").
		Select("vector_records.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("namespace = ?", namespace).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredVectorRecord, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredVectorRecord{
			Record:     r.mapper.ToEntity(&res.VectorRecord),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *VectorRecordRepositoryImpl) CountByNamespace(ctx context.Context, namespace string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.VectorRecord{}).
		Where("namespace = ?", namespace).
		Count(&count).Error
	return count, err
}
