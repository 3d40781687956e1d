// Package notify delivers a rendered report over the configured channels.
// Channels are independent side effects: each one is attempted, each
// failure is logged on its own, and none suppresses the others.
package notify

import (
	"context"
	"sync"

	"github.com/martinaparikova/calendar-asistant/internal/config"
	applog "github.com/martinaparikova/calendar-asistant/internal/log"
)

type Dispatcher struct {
	cfg *config.Config
}

func NewDispatcher(cfg *config.Config) *Dispatcher {
	return &Dispatcher{cfg: cfg}
}

// Send delivers the report over email and any enabled Slack channel,
// concurrently. Enabled but misconfigured channels log a warning and are
// skipped.
func (d *Dispatcher) Send(ctx context.Context, subject, htmlBody string) {
	var wg sync.WaitGroup

	if d.cfg.SMTP.From != "" && len(d.cfg.SMTP.To) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := Email(ctx, d.cfg.SMTP, subject, htmlBody); err != nil {
				applog.Error("email delivery failed", err, "channel", "email")
			} else {
				applog.Info("email sent", "to_count", len(d.cfg.SMTP.To))
			}
		}()
	} else {
		applog.Warn("email delivery skipped: smtp from/to missing", nil, "channel", "email")
	}

	if d.cfg.Slack.Enabled {
		if d.cfg.Slack.WebhookURL == "" {
			applog.Warn("slack webhook enabled but webhook_url missing", nil, "channel", "slack_webhook")
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := SlackWebhook(ctx, d.cfg.Slack, subject, htmlBody); err != nil {
					applog.Error("slack webhook delivery failed", err, "channel", "slack_webhook")
				} else {
					applog.Info("slack webhook sent")
				}
			}()
		}
	}

	if d.cfg.SlackBot.Enabled {
		if d.cfg.SlackBot.Token == "" || d.cfg.SlackBot.ChannelID == "" {
			applog.Warn("slack bot enabled but token/channel_id missing", nil, "channel", "slack_bot")
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := SlackBot(ctx, d.cfg.SlackBot, subject, htmlBody); err != nil {
					applog.Error("slack bot delivery failed", err, "channel", "slack_bot")
				} else {
					applog.Info("slack bot message sent", "channel_id", d.cfg.SlackBot.ChannelID)
				}
			}()
		}
	}

	wg.Wait()
}
