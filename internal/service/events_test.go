package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SophiaCH21/NoteBookApp/internal/dto"
	"github.com/SophiaCH21/NoteBookApp/pkg/logger/slogx"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestPublisherAndConsumer(t *testing.T) {
	prev := slogx.Default()
	t.Cleanup(func() { slogx.SetDefault(prev) })

	out := &syncBuffer{}
	require.NoError(t, slogx.InitGlobal(out, "info", false))

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := NewConsumerService(pubSub, "note.events")
	done := make(chan error, 1)
	go func() { done <- consumer.Consume(ctx) }()

	publisher := NewPublisherService("note.events", pubSub)

	noteId := uuid.New()
	payload, err := json.Marshal(dto.NoteEventMessage{
		Type:       dto.NoteEventCreated,
		NoteId:     noteId,
		OwnerId:    uuid.New(),
		OccurredAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	// gochannel drops messages published before the subscription exists
	require.Eventually(t, func() bool {
		_ = publisher.Publish(ctx, []byte("not json"))
		_ = publisher.Publish(ctx, payload)
		return strings.Contains(out.String(), noteId.String())
	}, 2*time.Second, 20*time.Millisecond)

	assert.Contains(t, out.String(), "drop malformed note event")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
