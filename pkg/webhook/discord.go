// Package webhook posts best-effort notifications to a Discord channel.
// Delivery failures are logged and never propagated to the caller; a webhook
// must not be able to fail the primary operation that triggered it.
package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// DiscordNotifier sends messages to a single Discord webhook URL.
// A notifier with an empty URL is valid and drops every message.
type DiscordNotifier struct {
	url    string
	client *http.Client
}

type discordPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds,omitempty"`
}

type discordEmbed struct {
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color,omitempty"`
	Fields      []discordField `json:"fields,omitempty"`
}

// Field is a single name/value pair rendered inside a Discord embed.
type Field struct {
	Name  string
	Value string
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

func NewDiscordNotifier(url string) *DiscordNotifier {
	return &DiscordNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// NotifyEmbed posts a titled embed with the given fields. Errors are logged
// server-side and swallowed.
func (n *DiscordNotifier) NotifyEmbed(title string, fields []Field) {
	if n == nil || n.url == "" {
		return
	}

	embed := discordEmbed{Title: title, Color: 0x5865F2}
	for _, f := range fields {
		embed.Fields = append(embed.Fields, discordField{Name: f.Name, Value: f.Value, Inline: true})
	}

	if err := n.post(discordPayload{Embeds: []discordEmbed{embed}}); err != nil {
		log.Warn().Err(err).Str("title", title).Msg("discord webhook delivery failed")
	}
}

func (n *DiscordNotifier) post(payload discordPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return nil
}
