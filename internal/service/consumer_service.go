package service

import (
	"context"
	"encoding/json"

	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/pkg/logger"
	"ai-gateway-be/pkg/knowledge"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the ingest topic and writes knowledge records. One
// consumer is enough; the ingestor upsert is idempotent per content hash, so
// redelivery is harmless.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	ingestor  *knowledge.Ingestor
	log       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	ingestor *knowledge.Ingestor,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		ingestor:  ingestor,
		log:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("ingest", "Failed to unmarshal ingest message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed payloads never become valid, drop them
		return
	}

	if err := cs.ingestor.Ingest(ctx, payload.Text, payload.Source); err != nil {
		cs.log.Error("ingest", "Failed to ingest knowledge", map[string]interface{}{
			"error":  err.Error(),
			"source": payload.Source,
		})
		msg.Nack() // retriable: embedder or store hiccup
		return
	}

	cs.log.Info("ingest", "Knowledge ingested", map[string]interface{}{
		"source": payload.Source,
	})
	msg.Ack()
}
