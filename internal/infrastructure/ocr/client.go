package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/signal-verifier/internal/domain"
)

// Client talks to the text-detection sidecar: POST raw image bytes, get back
// the detected regions. Detection is model-bound and slow, so the timeout is
// generous compared to the rest of the system.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
	}
}

// Detect submits image bytes and returns the detected text regions.
// Any non-2xx response is fatal for the detection attempt.
func (c *Client) Detect(ctx context.Context, image []byte) ([]domain.Region, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return nil, fmt.Errorf("ocr detect failed (%d): %s", resp.StatusCode, body)
	}

	var payload struct {
		Regions []domain.Region `json:"regions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode ocr response: %w", err)
	}
	return payload.Regions, nil
}
