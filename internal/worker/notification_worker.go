package worker

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_market/internal/models"
	"github.com/GTDGit/gtd_market/internal/service"
	"github.com/GTDGit/gtd_market/internal/sse"
)

// Composer builds an admin alert for an event. service.NotificationComposer
// satisfies it.
type Composer interface {
	Compose(ctx context.Context, notifType models.NotificationType, data any) models.AdminNotification
}

type notificationJob struct {
	notifType models.NotificationType
	data      any
}

// NotificationWorker composes admin alerts off the request path. It
// implements service.EventNotifier so the registry never waits on text
// generation.
type NotificationWorker struct {
	composer  Composer
	feed      *service.NotificationLog
	publisher sse.NotificationPublisher
	queue     chan notificationJob
}

// NewNotificationWorker constructs a NotificationWorker with a queue of
// queueSize pending events.
func NewNotificationWorker(
	composer Composer,
	feed *service.NotificationLog,
	publisher sse.NotificationPublisher,
	queueSize int,
) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = 64
	}
	if publisher == nil {
		publisher = sse.NopNotifier{}
	}
	return &NotificationWorker{
		composer:  composer,
		feed:      feed,
		publisher: publisher,
		queue:     make(chan notificationJob, queueSize),
	}
}

var _ service.EventNotifier = (*NotificationWorker)(nil)

// NotifyNewSeller queues a NEW_SELLER alert.
func (w *NotificationWorker) NotifyNewSeller(seller models.Seller) {
	w.enqueue(notificationJob{notifType: models.NotificationNewSeller, data: seller})
}

// NotifyNewOrder queues a NEW_ORDER alert.
func (w *NotificationWorker) NotifyNewOrder(order models.Order) {
	w.enqueue(notificationJob{notifType: models.NotificationNewOrder, data: order})
}

// enqueue never blocks; when the queue is full the event is dropped.
func (w *NotificationWorker) enqueue(job notificationJob) {
	select {
	case w.queue <- job:
	default:
		log.Warn().
			Str("type", string(job.notifType)).
			Int("queue_size", cap(w.queue)).
			Msg("Notification queue full, dropping event")
	}
}

// Start processes queued events until context is canceled.
func (w *NotificationWorker) Start(ctx context.Context) {
	log.Info().Int("queue_size", cap(w.queue)).Msg("Starting notification worker")

	for {
		select {
		case job := <-w.queue:
			w.process(ctx, job)
		case <-ctx.Done():
			log.Info().Int("pending", len(w.queue)).Msg("Notification worker stopped")
			return
		}
	}
}

func (w *NotificationWorker) process(ctx context.Context, job notificationJob) {
	notification := w.composer.Compose(ctx, job.notifType, job.data)
	w.feed.Add(notification)
	w.publisher.Publish(notification)

	log.Info().
		Str("notification_id", notification.ID).
		Str("type", string(notification.Type)).
		Bool("sent", notification.Sent).
		Msg("Admin notification composed")
}
