package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/fiyatly/price-catalog/internal/model"
	"github.com/fiyatly/price-catalog/internal/service"
	"github.com/fiyatly/price-catalog/internal/sqs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockSendClient records SQS sends for the outbox worker tests.
type mockSendClient struct {
	sent chan string
	err  error
}

func (m *mockSendClient) SendMessage(_ context.Context, params *awssqs.SendMessageInput, _ ...func(*awssqs.Options)) (*awssqs.SendMessageOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.sent != nil {
		m.sent <- *params.MessageBody
	}
	return &awssqs.SendMessageOutput{}, nil
}

func pendingListingEvent(t *testing.T) *model.Event {
	t.Helper()
	data, err := json.Marshal(sqs.ListingMessage{
		Action:    "created",
		ListingID: uuid.New().String(),
		ProductID: uuid.New().String(),
		Platform:  "trendyol",
		Price:     450,
		Currency:  "TRY",
		InStock:   true,
	})
	require.NoError(t, err)

	return &model.Event{
		ID:        uuid.New(),
		EventType: model.EventTypeListingCreated,
		EventData: data,
		Status:    model.EventStatusPending,
	}
}

func TestOutboxWorker_PublishesPendingEvents(t *testing.T) {
	ctx := context.Background()
	mockEvents := new(MockEventRepository)
	client := &mockSendClient{sent: make(chan string, 1)}
	publisher := sqs.NewPublisher(client, "https://sqs.test/queue")

	event := pendingListingEvent(t)

	processed := make(chan struct{}, 1)
	mockEvents.On("ListPending", ctx, 100).Return([]*model.Event{event}, nil).Once()
	mockEvents.On("ListPending", ctx, 100).Return([]*model.Event{}, nil)
	mockEvents.On("UpdateStatus", ctx, event.ID, model.EventStatusProcessed).
		Run(func(_ mock.Arguments) { processed <- struct{}{} }).
		Return(nil).Once()

	worker := service.NewOutboxWorker(mockEvents, publisher, 5*time.Millisecond)
	go worker.Start(ctx)
	defer worker.Stop()

	select {
	case body := <-client.sent:
		var msg sqs.ListingMessage
		require.NoError(t, json.Unmarshal([]byte(body), &msg))
		require.Equal(t, "created", msg.Action)
		require.Equal(t, "trendyol", msg.Platform)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the event to be published")
	}

	select {
	case <-processed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the event status update")
	}

	mockEvents.AssertExpectations(t)
}

func TestOutboxWorker_MarksFailedEvents(t *testing.T) {
	ctx := context.Background()
	mockEvents := new(MockEventRepository)
	client := &mockSendClient{err: errors.New("queue unavailable")}
	publisher := sqs.NewPublisher(client, "https://sqs.test/queue")

	event := pendingListingEvent(t)

	failed := make(chan struct{}, 1)
	mockEvents.On("ListPending", ctx, 100).Return([]*model.Event{event}, nil).Once()
	mockEvents.On("ListPending", ctx, 100).Return([]*model.Event{}, nil)
	mockEvents.On("UpdateStatus", ctx, event.ID, model.EventStatusFailed).
		Run(func(_ mock.Arguments) { failed <- struct{}{} }).
		Return(nil).Once()

	worker := service.NewOutboxWorker(mockEvents, publisher, 5*time.Millisecond)
	go worker.Start(ctx)
	defer worker.Stop()

	select {
	case <-failed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the failed status update")
	}

	mockEvents.AssertExpectations(t)
}

func TestOutboxWorker_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mockEvents := new(MockEventRepository)
	publisher := sqs.NewPublisher(&mockSendClient{}, "https://sqs.test/queue")

	worker := service.NewOutboxWorker(mockEvents, publisher, time.Hour)

	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}
