package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"partsnotifier/logger"
	"partsnotifier/pkg/errors"
)

// Discord rejects message bodies over this many characters
const discordContentLimit = 2000

// DiscordNotifier implements Notifier using a Discord webhook
type DiscordNotifier struct {
	webhookURL  string
	roleMention string
	client      *http.Client
	log         *logger.Logger
}

// Ensure DiscordNotifier implements Notifier
var _ Notifier = (*DiscordNotifier)(nil)

// NewDiscordNotifier creates a Discord webhook notifier. When
// roleMention is set it is prepended to every message so Discord pings
// the role.
func NewDiscordNotifier(webhookURL, roleMention string, timeout time.Duration) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL:  webhookURL,
		roleMention: roleMention,
		client:      &http.Client{Timeout: timeout},
		log:         logger.ForNotifier(),
	}
}

// Notify posts one notification to the webhook
func (d *DiscordNotifier) Notify(ctx context.Context, n Notification) error {
	var sb strings.Builder
	sb.WriteString(n.Title)
	sb.WriteString("\n")
	sb.WriteString(n.Reason)
	if n.Excerpt != "" {
		sb.WriteString("\n")
		sb.WriteString(n.Excerpt)
	}
	sb.WriteString("\n")
	sb.WriteString(n.Link)

	return d.send(ctx, sb.String())
}

// NotifyTest posts a synthetic message
func (d *DiscordNotifier) NotifyTest(ctx context.Context) error {
	return d.send(ctx, "This is a test notification to confirm the role mention is working.")
}

// send delivers a message body, prefixed with the role mention when one
// is configured, clipped to Discord's content limit
func (d *DiscordNotifier) send(ctx context.Context, content string) error {
	if d.roleMention != "" {
		content = d.roleMention + "\n\n" + content
	}
	if runes := []rune(content); len(runes) > discordContentLimit {
		content = string(runes[:discordContentLimit])
	}

	payload, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return errors.NewNotify("discord", "failed to encode payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return errors.NewNotify("discord", "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return errors.NewNotify("discord", "webhook request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewNotify("discord", fmt.Sprintf("webhook returned status %d", resp.StatusCode), nil)
	}

	d.log.Debug().Int("status", resp.StatusCode).Msg("Webhook delivered")
	return nil
}
