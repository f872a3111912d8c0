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

// HTTPNotifier posts {email, name} to the platform's notify-driver endpoint,
// which sends the approval email.
type HTTPNotifier struct {
	endpoint string
	client   *http.Client
}

func NewHTTPNotifier(endpoint string, timeout time.Duration) *HTTPNotifier {
	return &HTTPNotifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (h *HTTPNotifier) Name() string {
	return "http"
}

func (h *HTTPNotifier) NotifyDriverApproved(ctx context.Context, approval *DriverApproval) error {
	if approval.Email == "" {
		return ErrNoRecipient
	}

	body, err := json.Marshal(approval)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification endpoint returned %d", resp.StatusCode)
	}
	return nil
}
