package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_market/internal/models"
)

// DefaultNotificationTimeout bounds a single generation attempt.
const DefaultNotificationTimeout = 5 * time.Second

// OutputSchema names the string fields the generator must return.
type OutputSchema struct {
	Fields []string
}

// NotificationSchema is the {whatsapp, email} shape of admin alerts.
var NotificationSchema = OutputSchema{Fields: []string{"whatsapp", "email"}}

// Instruction renders the schema as a prompt suffix.
func (s OutputSchema) Instruction() string {
	keys := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		keys = append(keys, fmt.Sprintf("%q: string", f))
	}
	return "Return ONLY a JSON object of the form {" + strings.Join(keys, ", ") + "}."
}

// TextGenerator produces alert text for a prompt. Implementations may fail
// or block; the composer bounds and absorbs both.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, schema OutputSchema) (*models.NotificationContent, error)
}

// NotificationComposer builds admin alerts. Compose never fails: when the
// generator errors, times out, panics or returns empty text the alert is
// built from a fixed template and marked Sent=false.
type NotificationComposer struct {
	generator TextGenerator
	timeout   time.Duration
	now       func() time.Time
}

// NewNotificationComposer creates a composer. A nil generator means every
// alert uses the fallback template; timeout <= 0 uses DefaultNotificationTimeout.
func NewNotificationComposer(generator TextGenerator, timeout time.Duration) *NotificationComposer {
	if timeout <= 0 {
		timeout = DefaultNotificationTimeout
	}
	return &NotificationComposer{
		generator: generator,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Compose builds the alert for a NEW_SELLER (models.Seller) or NEW_ORDER
// (models.Order) event.
func (c *NotificationComposer) Compose(ctx context.Context, notifType models.NotificationType, data any) models.AdminNotification {
	notification := models.AdminNotification{
		ID:        uuid.New().String(),
		Type:      notifType,
		Timestamp: c.now(),
	}

	content, err := c.generate(ctx, buildPrompt(notifType, data))
	if err != nil {
		log.Warn().
			Err(err).
			Str("type", string(notifType)).
			Str("record_id", recordID(data)).
			Msg("Notification generation failed, using fallback text")
		notification.Content = FallbackContent(notifType, data)
		return notification
	}

	notification.Content = *content
	notification.Sent = true
	return notification
}

// generate runs the generator in its own goroutine so that a generator that
// ignores ctx still cannot hold the caller past the timeout.
func (c *NotificationComposer) generate(ctx context.Context, prompt string) (*models.NotificationContent, error) {
	if c.generator == nil {
		return nil, errors.New("no text generator configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type result struct {
		content *models.NotificationContent
		err     error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("text generator panicked: %v", r)}
			}
		}()
		content, err := c.generator.Generate(ctx, prompt, NotificationSchema)
		done <- result{content: content, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		if res.content == nil ||
			strings.TrimSpace(res.content.Whatsapp) == "" ||
			strings.TrimSpace(res.content.Email) == "" {
			return nil, errors.New("text generator returned incomplete content")
		}
		return res.content, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("text generation timed out after %s: %w", c.timeout, ctx.Err())
	}
}

func buildPrompt(notifType models.NotificationType, data any) string {
	switch v := deref(data).(type) {
	case models.Seller:
		return fmt.Sprintf(`A new seller has verified their shop on our multi-vendor marketplace and is waiting for admin approval.

Seller name: %s
Seller ID: %s
Shop ID: %s
Email: %s
Phone: %s
Payout method: %s

Write a short WhatsApp alert (max 2 sentences, one emoji allowed) and a brief professional email body for the marketplace admin. Both must mention the seller ID.`,
			v.FullName, v.ID, v.ShopID, v.Email, v.PhoneNumber, v.PayoutInfo.Method)
	case models.Order:
		return fmt.Sprintf(`A new order was placed on our multi-vendor marketplace.

Order ID: %s
Shop ID: %s
Customer: %s
Items: %d
Total amount: %.2f
Payment method: %s

Write a short WhatsApp alert (max 2 sentences, one emoji allowed) and a brief professional email body for the marketplace admin. Both must mention the order ID.`,
			v.ID, v.ShopID, v.CustomerName, len(v.Items), v.TotalAmount, v.PaymentMethod)
	default:
		return fmt.Sprintf("A %s event (ID: %s) happened on our marketplace. Write a short admin alert.", notifType, recordID(data))
	}
}

// FallbackContent is the deterministic alert text used when generation
// fails. It always embeds the event type and the record id.
func FallbackContent(notifType models.NotificationType, data any) models.NotificationContent {
	switch v := deref(data).(type) {
	case models.Seller:
		return models.NotificationContent{
			Whatsapp: fmt.Sprintf("[%s] New seller %s (ID: %s) verified shop %s and is awaiting approval.",
				notifType, v.FullName, v.ID, v.ShopID),
			Email: fmt.Sprintf("Subject: [%s] Seller %s awaiting approval\n\nSeller %s (ID: %s, shop %s, %s) has completed verification. Please review the shop in the admin panel.",
				notifType, v.ID, v.FullName, v.ID, v.ShopID, v.Email),
		}
	case models.Order:
		return models.NotificationContent{
			Whatsapp: fmt.Sprintf("[%s] New order %s for shop %s. Total: %.2f.",
				notifType, v.ID, v.ShopID, v.TotalAmount),
			Email: fmt.Sprintf("Subject: [%s] Order %s received\n\nOrder %s from %s for shop %s totals %.2f across %d item(s).",
				notifType, v.ID, v.ID, v.CustomerName, v.ShopID, v.TotalAmount, len(v.Items)),
		}
	default:
		id := recordID(data)
		return models.NotificationContent{
			Whatsapp: fmt.Sprintf("[%s] New marketplace event (ID: %s).", notifType, id),
			Email:    fmt.Sprintf("Subject: [%s] Marketplace event %s\n\nA %s event was recorded for ID %s.", notifType, id, notifType, id),
		}
	}
}

func recordID(data any) string {
	switch v := deref(data).(type) {
	case models.Seller:
		return v.ID
	case models.Order:
		return v.ID
	case models.Shop:
		return v.ID
	case nil:
		return "unknown"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// deref turns *Seller / *Order into values so callers may pass either.
func deref(data any) any {
	switch v := data.(type) {
	case *models.Seller:
		if v == nil {
			return nil
		}
		return *v
	case *models.Order:
		if v == nil {
			return nil
		}
		return *v
	case *models.Shop:
		if v == nil {
			return nil
		}
		return *v
	default:
		return data
	}
}
