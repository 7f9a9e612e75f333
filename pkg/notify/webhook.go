package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookGateway posts new leads as JSON to a configured endpoint
type WebhookGateway struct {
	url    string
	client *http.Client
}

// NewWebhookGateway creates a webhook notification gateway
func NewWebhookGateway(url string) *WebhookGateway {
	return &WebhookGateway{
		url: url,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Notify posts the lead to the webhook endpoint
func (g *WebhookGateway) Notify(ctx context.Context, lead LeadPayload) error {
	body, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("failed to marshal lead payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little of the body for the error message
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(snippet))
	}

	return nil
}

// Name returns the gateway name
func (g *WebhookGateway) Name() string {
	return "webhook"
}
