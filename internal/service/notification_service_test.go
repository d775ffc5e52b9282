package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/integrity-rating-api/pkg/jobs"
	"github.com/noah-isme/integrity-rating-api/pkg/middleware/requestid"
)

type stubEnqueuer struct {
	jobs []jobs.Job
	err  error
}

func (s *stubEnqueuer) Enqueue(job jobs.Job) error {
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

type stubPublisher struct {
	keys   []string
	values [][]byte
	err    error
}

func (s *stubPublisher) Publish(ctx context.Context, key, value []byte) error {
	if s.err != nil {
		return s.err
	}
	s.keys = append(s.keys, string(key))
	s.values = append(s.values, value)
	return nil
}

func TestNotificationServiceEnqueues(t *testing.T) {
	queue := &stubEnqueuer{}
	svc := NewNotificationService(queue, nil)

	ctx := requestid.WithID(context.Background(), "req-9")
	err := svc.Notify(ctx, Notification{Recipient: "a@example.com", TemplateKind: "rating_outcome", Action: "APPROVE", ResourceType: "RATING", ResourceID: 4})
	require.NoError(t, err)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, NotificationJobType, queue.jobs[0].Type)
	assert.NotEmpty(t, queue.jobs[0].ID)
	n := queue.jobs[0].Payload.(Notification)
	assert.False(t, n.OccurredAt.IsZero())
	assert.Equal(t, "req-9", n.RequestID)
}

func TestNotificationServiceRequiresRecipient(t *testing.T) {
	svc := NewNotificationService(&stubEnqueuer{}, nil)
	assert.Error(t, svc.Notify(context.Background(), Notification{ResourceType: "COMMENT", ResourceID: 1}))
}

func TestNotificationServiceDisabled(t *testing.T) {
	svc := NewNotificationService(nil, nil)
	assert.NoError(t, svc.Notify(context.Background(), Notification{Recipient: "a@example.com"}))
}

func TestNotificationServiceQueueFull(t *testing.T) {
	svc := NewNotificationService(&stubEnqueuer{err: jobs.ErrQueueFull}, nil)
	ctx := requestid.WithID(context.Background(), "req-9")
	err := svc.Notify(ctx, Notification{Recipient: "a@example.com"})
	assert.ErrorIs(t, err, jobs.ErrQueueFull)
}

func TestNotificationWorkerPublishes(t *testing.T) {
	publisher := &stubPublisher{}
	metrics := NewMetricsService()
	worker := NewNotificationWorker(publisher, metrics, nil)

	err := worker.Handle(context.Background(), jobs.Job{ID: "j1", Type: NotificationJobType, Payload: Notification{Recipient: "a@example.com", Action: "REJECT"}})
	require.NoError(t, err)
	require.Len(t, publisher.keys, 1)
	assert.Equal(t, "a@example.com", publisher.keys[0])

	var decoded Notification
	require.NoError(t, json.Unmarshal(publisher.values[0], &decoded))
	assert.Equal(t, "REJECT", decoded.Action)
	assert.Equal(t, uint64(1), metrics.Snapshot().NotificationsSent)
}

func TestNotificationWorkerReturnsPublishError(t *testing.T) {
	worker := NewNotificationWorker(&stubPublisher{err: errors.New("broker down")}, nil, nil)
	err := worker.Handle(context.Background(), jobs.Job{ID: "j1", Payload: Notification{Recipient: "a@example.com"}})
	assert.Error(t, err)

	assert.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: "j2", Payload: "garbage"}))
}
