package dto

type IngestKnowledgeRequest struct {
	Text   string `json:"text" validate:"required"`
	Source string `json:"source"`
}

// PublishIngestMessage is the bus payload between the knowledge endpoint and
// the ingestion consumer.
type PublishIngestMessage struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}
