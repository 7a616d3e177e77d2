package service

import (
	"sync"

	"github.com/GTDGit/gtd_market/internal/models"
)

// DefaultNotificationLogSize is how many alerts the admin feed keeps.
const DefaultNotificationLogSize = 100

// NotificationLog is a bounded, newest-first feed of composed alerts.
// It lives in memory only and is lost on restart.
type NotificationLog struct {
	mu    sync.RWMutex
	items []models.AdminNotification
	size  int
}

// NewNotificationLog creates a log holding at most size entries.
func NewNotificationLog(size int) *NotificationLog {
	if size <= 0 {
		size = DefaultNotificationLogSize
	}
	return &NotificationLog{size: size}
}

// Add prepends n, evicting the oldest entry when full.
func (l *NotificationLog) Add(n models.AdminNotification) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = append([]models.AdminNotification{n}, l.items...)
	if len(l.items) > l.size {
		l.items = l.items[:l.size]
	}
}

// Recent returns up to limit entries, newest first. limit <= 0 returns all.
func (l *NotificationLog) Recent(limit int) []models.AdminNotification {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 || limit > len(l.items) {
		limit = len(l.items)
	}
	out := make([]models.AdminNotification, limit)
	copy(out, l.items[:limit])
	return out
}
