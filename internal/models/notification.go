package models

import "time"

// NotificationType identifies the event an admin alert is about.
type NotificationType string

const (
	NotificationNewSeller NotificationType = "NEW_SELLER"
	NotificationNewOrder  NotificationType = "NEW_ORDER"
)

// NotificationContent holds the per-channel alert text.
type NotificationContent struct {
	Whatsapp string `json:"whatsapp"`
	Email    string `json:"email"`
}

// AdminNotification is an alert composed for the marketplace admin.
// Sent is false only when generation failed and fallback text was used.
type AdminNotification struct {
	ID        string              `json:"id"`
	Type      NotificationType    `json:"type"`
	Timestamp time.Time           `json:"timestamp"`
	Content   NotificationContent `json:"content"`
	Sent      bool                `json:"sent"`
}
