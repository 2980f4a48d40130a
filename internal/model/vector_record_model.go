package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type VectorRecord struct {
	Id        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Namespace string            `gorm:"size:128;not null;uniqueIndex:idx_vector_records_ns_record"`
	RecordId  string            `gorm:"size:64;not null;uniqueIndex:idx_vector_records_ns_record"`
	Document  string            `gorm:"type:text;not null"`
	Response  string            `gorm:"type:text"`
	Embedding pgvector.Vector   `gorm:"type:vector(768)"` // nomic-embed-text uses 768 dimensions
	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"autoCreateTime"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime"`
}

func (VectorRecord) TableName() string {
	return "vector_records"
}
