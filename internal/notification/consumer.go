package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/arpitmofficial/fest-management-system/config"
	"github.com/arpitmofficial/fest-management-system/utils"
)

const consumerGroup = "webhook-notifier"

// discordEmbed mirrors the subset of Discord's webhook payload we send.
type discordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Timestamp   string              `json:"timestamp"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordPayload struct {
	Username string         `json:"username"`
	Content  string         `json:"content,omitempty"`
	Embeds   []discordEmbed `json:"embeds"`
}

// BuildWebhookPayload turns a queued message into the Discord webhook
// body the consumer posts.
func BuildWebhookPayload(msg *Message) ([]byte, error) {
	embed := discordEmbed{
		Title:       msg.EventName,
		Description: msg.Description,
		Color:       0x5865F2,
		Timestamp:   msg.QueuedAt.UTC().Format(time.RFC3339),
	}

	if !msg.StartDate.IsZero() {
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name:   "Starts",
			Value:  msg.StartDate.Format("Mon, 02 Jan 2006 15:04 MST"),
			Inline: true,
		})
	}
	if !msg.Deadline.IsZero() {
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name:   "Register by",
			Value:  msg.Deadline.Format("Mon, 02 Jan 2006 15:04 MST"),
			Inline: true,
		})
	}

	return json.Marshal(discordPayload{
		Username: msg.OrganizerName,
		Embeds:   []discordEmbed{embed},
	})
}

// Consumer drains the notification topic and posts each message to its
// webhook. Delivery is at-most-once per consumer read; a failed POST is
// logged and dropped rather than retried forever.
type Consumer struct {
	cfg    *config.Config
	client *http.Client
}

func NewConsumer(cfg *config.Config) *Consumer {
	return &Consumer{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Start runs the consume loop until the context is cancelled. It is a
// no-op when kafka is not configured.
func (c *Consumer) Start(ctx context.Context) {
	reader := utils.NewReader(c.cfg, consumerGroup)
	if reader == nil {
		return
	}

	go func() {
		defer reader.Close()
		for {
			m, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("notification consumer read error: %v", err)
				continue
			}

			var msg Message
			if err := json.Unmarshal(m.Value, &msg); err != nil {
				log.Printf("notification consumer: bad message %s: %v", string(m.Key), err)
				continue
			}

			if err := c.deliver(ctx, &msg); err != nil {
				log.Printf("webhook delivery %s failed: %v", msg.DeliveryID, err)
			}
		}
	}()
}

func (c *Consumer) deliver(ctx context.Context, msg *Message) error {
	body, err := BuildWebhookPayload(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, msg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}
