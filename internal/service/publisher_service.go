package service

import (
	"context"
	"encoding/json"

	"ai-gateway-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IPublisherService hands knowledge snippets to the ingestion consumer so the
// admin endpoint can return 202 without waiting on the embedder.
type IPublisherService interface {
	PublishIngestKnowledge(ctx context.Context, text, source string) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (ps *publisherService) PublishIngestKnowledge(_ context.Context, text, source string) error {
	payload, err := json.Marshal(dto.PublishIngestMessage{Text: text, Source: source})
	if err != nil {
		return err
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	return ps.pubSub.Publish(ps.topicName, msg)
}
