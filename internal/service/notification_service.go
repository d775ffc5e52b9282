package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/integrity-rating-api/pkg/jobs"
	"github.com/noah-isme/integrity-rating-api/pkg/middleware/requestid"
)

// NotificationJobType tags moderation outcome jobs on the queue.
const NotificationJobType = "moderation_outcome"

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

type messagePublisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// Notification tells a submitter what happened to their rating or comment.
type Notification struct {
	Recipient    string    `json:"recipient"`
	TemplateKind string    `json:"template_kind"`
	Action       string    `json:"action"`
	TargetName   string    `json:"target_name"`
	ResourceType string    `json:"resource_type"`
	ResourceID   int64     `json:"resource_id"`
	OccurredAt   time.Time `json:"occurred_at"`
	RequestID    string    `json:"request_id,omitempty"`
}

// NotificationService hands outcome notifications to the background queue without blocking.
type NotificationService struct {
	queue  jobEnqueuer
	logger *zap.Logger
}

// NewNotificationService constructs the service. A nil queue disables delivery.
func NewNotificationService(queue jobEnqueuer, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{queue: queue, logger: logger}
}

// Notify enqueues n. The returned error only reports that the job could not be queued.
func (s *NotificationService) Notify(ctx context.Context, n Notification) error {
	if n.Recipient == "" {
		return fmt.Errorf("notification for %s %d has no recipient", n.ResourceType, n.ResourceID)
	}
	if s.queue == nil {
		s.logger.Debug("notification delivery disabled",
			zap.String("template", n.TemplateKind),
			zap.Int64("resource_id", n.ResourceID),
		)
		return nil
	}
	if n.OccurredAt.IsZero() {
		n.OccurredAt = time.Now().UTC()
	}
	if n.RequestID == "" {
		n.RequestID = requestid.FromContext(ctx)
	}
	return s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: NotificationJobType, Payload: n})
}

// NotificationWorker publishes queued notifications to the mail topic.
type NotificationWorker struct {
	publisher messagePublisher
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewNotificationWorker constructs a worker.
func NewNotificationWorker(publisher messagePublisher, metrics *MetricsService, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{publisher: publisher, metrics: metrics, logger: logger}
}

// Handle processes a queue job. Returning an error lets the queue retry it.
func (w *NotificationWorker) Handle(ctx context.Context, job jobs.Job) error {
	n, ok := job.Payload.(Notification)
	if !ok {
		w.logger.Error("unexpected notification payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return nil
	}
	value, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := w.publisher.Publish(ctx, []byte(n.Recipient), value); err != nil {
		w.metrics.RecordNotification("retry")
		return err
	}
	w.metrics.RecordNotification("sent")
	w.logger.Debug("notification published", zap.String("job_id", job.ID), zap.String("template", n.TemplateKind))
	return nil
}

// OnDrop records a notification that exhausted its retries.
func (w *NotificationWorker) OnDrop(job jobs.Job, err error) {
	w.metrics.RecordNotification("dropped")
	w.logger.Warn("notification dropped", zap.String("job_id", job.ID), zap.Int("attempts", job.Attempt), zap.Error(err))
}
