package sse

import (
	"time"

	"github.com/GTDGit/gtd_market/internal/models"
)

// NotificationPublisher is what the notification worker uses to push
// composed alerts to live admin sessions.
type NotificationPublisher interface {
	Publish(n models.AdminNotification)
}

// HubNotifier implements NotificationPublisher using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) Publish(notification models.AdminNotification) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&NotificationEvent{
		Event:        EventNotificationCreated,
		Notification: notification,
		Timestamp:    time.Now(),
	})
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (NopNotifier) Publish(models.AdminNotification) {}
