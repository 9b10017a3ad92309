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

// WebhookHost posts notifications as {"text": ...} JSON, the shape
// accepted by Slack incoming webhooks.
type WebhookHost struct {
	url        string
	httpClient *http.Client
}

func NewWebhookHost(url string) *WebhookHost {
	return &WebhookHost{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (h *WebhookHost) Available() bool {
	return h != nil && h.url != ""
}

func (h *WebhookHost) RequestPermission(ctx context.Context) (Permission, error) {
	if !h.Available() {
		return PermissionDenied, nil
	}
	return PermissionGranted, nil
}

func (h *WebhookHost) Show(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(map[string]any{
		"text": fmt.Sprintf("*%s*\n%s", n.Title, n.Body),
	})
	if err != nil {
		return fmt.Errorf("webhook (marshal): %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("webhook (new request): %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook (do): %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("webhook returned %s: %s", res.Status, bytes.TrimSpace(body))
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}
