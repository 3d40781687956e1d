package notify

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/slack-go/slack"

	"github.com/martinaparikova/calendar-asistant/internal/config"
)

// webhookTextLimit caps the body posted to an incoming webhook; Slack
// rejects oversized payloads.
const webhookTextLimit = 38000

func chatText(subject, htmlBody string) string {
	text := HTMLToText(htmlBody)
	if len(text) > webhookTextLimit {
		// Back off to a rune boundary so the cut never splits a
		// multibyte character.
		cut := webhookTextLimit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return fmt.Sprintf("*%s*\n%s", subject, text)
}

// SlackWebhook posts the report as plain text to an incoming webhook.
func SlackWebhook(ctx context.Context, cfg config.SlackWebhookConfig, subject, htmlBody string) error {
	msg := &slack.WebhookMessage{Text: chatText(subject, htmlBody)}
	if err := slack.PostWebhookContext(ctx, cfg.WebhookURL, msg); err != nil {
		return fmt.Errorf("slack webhook: %w", err)
	}
	return nil
}

// SlackBot posts the report to a channel via the chat.postMessage API.
func SlackBot(ctx context.Context, cfg config.SlackBotConfig, subject, htmlBody string) error {
	api := slack.New(cfg.Token)
	_, _, err := api.PostMessageContext(ctx, cfg.ChannelID,
		slack.MsgOptionText(chatText(subject, htmlBody), false))
	if err != nil {
		return fmt.Errorf("slack bot: %w", err)
	}
	return nil
}
