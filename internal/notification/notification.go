package notification

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/arpitmofficial/fest-management-system/internal/event"
	"github.com/arpitmofficial/fest-management-system/utils"
)

// Message is the wire format on the notification topic. Each delivery
// carries its own id so consumer retries stay traceable in the logs.
type Message struct {
	DeliveryID    string    `json:"delivery_id"`
	WebhookURL    string    `json:"webhook_url"`
	OrganizerName string    `json:"organizer_name"`
	EventID       uint      `json:"event_id"`
	EventName     string    `json:"event_name"`
	Description   string    `json:"description"`
	StartDate     time.Time `json:"start_date"`
	Deadline      time.Time `json:"deadline"`
	QueuedAt      time.Time `json:"queued_at"`
}

// Publisher queues announcement messages onto kafka. It satisfies the
// event service's Notifier interface.
type Publisher struct{}

func NewPublisher() *Publisher {
	return &Publisher{}
}

// EventPublished enqueues an announcement; failures are logged and
// swallowed so publishing an event never fails on a broker hiccup.
func (p *Publisher) EventPublished(ctx context.Context, webhookURL, organizerName string, e *event.Event) {
	msg := Message{
		DeliveryID:    uuid.NewString(),
		WebhookURL:    webhookURL,
		OrganizerName: organizerName,
		EventID:       e.ID,
		EventName:     e.EventName,
		Description:   e.Description,
		StartDate:     e.EventStartDate,
		Deadline:      e.RegistrationDeadline,
		QueuedAt:      time.Now(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("notification encode failed for event %d: %v", e.ID, err)
		return
	}

	if err := utils.PublishMessage(ctx, msg.DeliveryID, payload); err != nil {
		log.Printf("notification enqueue failed for event %d (delivery %s): %v", e.ID, msg.DeliveryID, err)
	}
}

// Announce publishes a free-form message on an organizer's webhook
// through the same pipeline, for manual announcements.
func (p *Publisher) Announce(ctx context.Context, webhookURL, organizerName, title, body string) error {
	msg := Message{
		DeliveryID:    uuid.NewString(),
		WebhookURL:    webhookURL,
		OrganizerName: organizerName,
		EventName:     title,
		Description:   body,
		QueuedAt:      time.Now(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return utils.PublishMessage(ctx, msg.DeliveryID, payload)
}
