package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SophiaCH21/NoteBookApp/internal/dto"
	"github.com/SophiaCH21/NoteBookApp/pkg/logger/slogx"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	// Consume blocks until ctx is done or the subscription closes. Both are a
	// clean stop.
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
}

func NewConsumerService(subscriber message.Subscriber, topicName string) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return fmt.Errorf("subscribe %s: %v", cs.topicName, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			cs.processMessage(ctx, msg)
		}
	}
}

// processMessage always acks: a payload that cannot be read now never will be.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	defer func() {
		if e := recover(); e != nil {
			slogx.Error(ctx, "panic while processing note event", slog.String("panic", fmt.Sprintf("%v", e)))
		}
	}()

	var payload dto.NoteEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		slogx.Warn(ctx, "drop malformed note event",
			slogx.Err(err),
			slog.String("message_id", msg.UUID),
		)
		return
	}

	if !payload.Type.Valid() {
		slogx.Warn(ctx, "drop note event with unknown type",
			slog.String("type", string(payload.Type)),
			slog.String("message_id", msg.UUID),
		)
		return
	}

	slogx.Info(ctx, "note activity",
		slog.String("type", string(payload.Type)),
		slogx.NoteID(payload.NoteId.String()),
		slogx.OwnerID(payload.OwnerId.String()),
		slog.Time("occurred_at", payload.OccurredAt),
	)
}
