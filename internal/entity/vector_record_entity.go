package entity

import (
	"time"

	"github.com/google/uuid"
)

// VectorRecord is one embedded document in a namespace. RecordId is the
// content hash the writer supplies (cache: hash of prompt, knowledge: hash of
// text), which is what makes upserts idempotent.
type VectorRecord struct {
	Id        uuid.UUID
	Namespace string
	RecordId  string
	Document  string
	Response  string
	Embedding []float32
	Metadata  map[string]interface{}
	CreatedAt time.Time
	UpdatedAt *time.Time
}
