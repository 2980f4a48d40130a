package mapper

import (
	"time"

	"ai-gateway-be/internal/entity"
	"ai-gateway-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type VectorRecordMapper struct{}

func NewVectorRecordMapper() *VectorRecordMapper {
	return &VectorRecordMapper{}
}

func (m *VectorRecordMapper) ToEntity(r *model.VectorRecord) *entity.VectorRecord {
	if r == nil {
		return nil
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.VectorRecord{
		Id:        r.Id,
		Namespace: r.Namespace,
		RecordId:  r.RecordId,
		Document:  r.Document,
		Response:  r.Response,
		Embedding: r.Embedding.Slice(),
		Metadata:  r.Metadata,
		CreatedAt: r.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *VectorRecordMapper) ToModel(e *entity.VectorRecord) *model.VectorRecord {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.VectorRecord{
		Id:        e.Id,
		Namespace: e.Namespace,
		RecordId:  e.RecordId,
		Document:  e.Document,
		Response:  e.Response,
		Embedding: pgvector.NewVector(e.Embedding),
		Metadata:  datatypes.JSONMap(e.Metadata),
		CreatedAt: e.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *VectorRecordMapper) ToEntities(records []*model.VectorRecord) []*entity.VectorRecord {
	entities := make([]*entity.VectorRecord, len(records))
	for i, r := range records {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
