// Package notify delivers purchase submissions to the human-reviewed
// fulfillment channel, a Discord webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/Tentennnn/anachaktopup/internal/clock"
)

const (
	botName      = "ANACHAK Store Bot"
	botAvatarURL = "https://i.postimg.cc/fL4fSPVf/minecraft-title2.png"
	embedColor   = 0x9fe870
	footerText   = "Please verify payment and grant items in-game."
	// The proof image travels as this multipart field and is referenced from
	// the embed as attachment://<filename>.
	attachmentField = "file1"
)

// Purchase is the submission forwarded for review.
type Purchase struct {
	ItemName      string
	ItemPrice     float64
	BuyerName     string
	Platform      string // "java" or "bedrock"
	DiscordHandle string
	ProofFilename string
	Proof         []byte
}

// StatusError reports a non-2xx webhook response, carrying the endpoint's
// status and response text for diagnostics.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook responded with %d: %s", e.StatusCode, e.Body)
}

// DiscordWebhook posts purchase submissions to a configured webhook URL as a
// multipart body: one payload_json part and one binary attachment part.
type DiscordWebhook struct {
	url    string
	client *http.Client
	clock  clock.Clock
}

func NewDiscordWebhook(url string, client *http.Client, clk clock.Clock) *DiscordWebhook {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &DiscordWebhook{url: url, client: client, clock: clk}
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title     string       `json:"title"`
	Color     int          `json:"color"`
	Fields    []embedField `json:"fields"`
	Image     embedImage   `json:"image"`
	Timestamp string       `json:"timestamp"`
	Footer    embedFooter  `json:"footer"`
}

type embedImage struct {
	URL string `json:"url"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type webhookPayload struct {
	Username  string  `json:"username"`
	AvatarURL string  `json:"avatar_url"`
	Embeds    []embed `json:"embeds"`
}

// Send performs a single POST; there is no retry. A transport failure or a
// non-2xx response is returned to the caller (as *StatusError for the latter).
func (w *DiscordWebhook) Send(ctx context.Context, p Purchase) error {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	payload, err := json.Marshal(w.buildPayload(p))
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}
	if err := mw.WriteField("payload_json", string(payload)); err != nil {
		return fmt.Errorf("writing payload part: %w", err)
	}

	part, err := mw.CreateFormFile(attachmentField, p.ProofFilename)
	if err != nil {
		return fmt.Errorf("writing attachment part: %w", err)
	}
	if _, err := part.Write(p.Proof); err != nil {
		return fmt.Errorf("writing attachment part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finishing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(text)}
	}
	return nil
}

func (w *DiscordWebhook) buildPayload(p Purchase) webhookPayload {
	platform := "Java"
	if p.Platform == "bedrock" {
		platform = "Bedrock"
	}

	fields := []embedField{
		{Name: "Item", Value: fmt.Sprintf("%s - $%.2f", p.ItemName, p.ItemPrice)},
		{Name: "Minecraft Username", Value: p.BuyerName, Inline: true},
		{Name: "Platform", Value: platform, Inline: true},
	}
	if p.DiscordHandle != "" {
		fields = append(fields, embedField{Name: "Discord Username", Value: p.DiscordHandle})
	}

	return webhookPayload{
		Username:  botName,
		AvatarURL: botAvatarURL,
		Embeds: []embed{{
			Title:     "New Purchase Submission",
			Color:     embedColor,
			Fields:    fields,
			Image:     embedImage{URL: "attachment://" + p.ProofFilename},
			Timestamp: w.clock.Now().UTC().Format(time.RFC3339),
			Footer:    embedFooter{Text: footerText},
		}},
	}
}
