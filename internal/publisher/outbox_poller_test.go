package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	r "github.com/Narutostha/ww/internal/repository"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockOutboxRepository implements OutboxRepository for testing
type MockOutboxRepository struct {
	Events       []*r.OutboxEvent
	GetErr       error
	MarkErr      error
	ProcessedIDs []int
}

func (m *MockOutboxRepository) GetUnprocessedEvents(_ context.Context, _ int) ([]*r.OutboxEvent, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	events := m.Events
	m.Events = nil // Each batch is returned once
	return events, nil
}

func (m *MockOutboxRepository) MarkEventAsProcessed(_ context.Context, id int) error {
	if m.MarkErr != nil {
		return m.MarkErr
	}
	m.ProcessedIDs = append(m.ProcessedIDs, id)
	return nil
}

// MockWriter implements messageWriter for testing
type MockWriter struct {
	Written  []kafka.Message
	WriteErr error
}

func (m *MockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Written = append(m.Written, msgs...)
	return nil
}

func (m *MockWriter) Close() error {
	return nil
}

func outboxEvent(id int, orderID string) *r.OutboxEvent {
	return &r.OutboxEvent{
		ID:          id,
		AggregateId: orderID,
		EventType:   "ORDER_PLACED",
		Payload:     json.RawMessage(`{"order_id":"` + orderID + `"}`),
		CreatedAt:   time.Now(),
	}
}

func TestOutboxPoller_PublishesAndMarksProcessed(t *testing.T) {
	repo := &MockOutboxRepository{
		Events: []*r.OutboxEvent{
			outboxEvent(1, "order-aaa"),
			outboxEvent(2, "order-bbb"),
		},
	}
	writer := &MockWriter{}
	poller := &OutboxPoller{eventTick: time.Second, batchSize: 100, repo: repo, writer: writer}

	poller.processUnpublishedEvents(context.Background())

	require.Len(t, writer.Written, 2)
	assert.Equal(t, "order-aaa", string(writer.Written[0].Key))
	assert.JSONEq(t, `{"order_id":"order-aaa"}`, string(writer.Written[0].Value))
	require.Len(t, writer.Written[0].Headers, 1)
	assert.Equal(t, "event_type", writer.Written[0].Headers[0].Key)
	assert.Equal(t, "ORDER_PLACED", string(writer.Written[0].Headers[0].Value))

	assert.Equal(t, []int{1, 2}, repo.ProcessedIDs)
}

func TestOutboxPoller_PublishFailureLeavesEventUnprocessed(t *testing.T) {
	repo := &MockOutboxRepository{
		Events: []*r.OutboxEvent{outboxEvent(1, "order-aaa")},
	}
	writer := &MockWriter{WriteErr: errors.New("broker unavailable")}
	poller := &OutboxPoller{eventTick: time.Second, batchSize: 100, repo: repo, writer: writer}

	poller.processUnpublishedEvents(context.Background())

	// Unpublished events must stay unmarked so the next tick retries them.
	assert.Empty(t, repo.ProcessedIDs)
}

func TestOutboxPoller_RepositoryErrorIsHandled(t *testing.T) {
	repo := &MockOutboxRepository{GetErr: errors.New("database connection error")}
	writer := &MockWriter{}
	poller := &OutboxPoller{eventTick: time.Second, batchSize: 100, repo: repo, writer: writer}

	// Should not panic, just log and wait for the next tick.
	poller.processUnpublishedEvents(context.Background())

	assert.Empty(t, writer.Written)
}

func TestOutboxPoller_RunStopsOnContextCancel(t *testing.T) {
	repo := &MockOutboxRepository{}
	writer := &MockWriter{}
	poller := &OutboxPoller{eventTick: 10 * time.Millisecond, batchSize: 100, repo: repo, writer: writer}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after context cancellation")
	}
}
