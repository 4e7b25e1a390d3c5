package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"invoice-service/internal/models"
)

// HTTPExtractionClient posts extraction requests to the extractor's endpoint.
type HTTPExtractionClient struct {
	url    string
	client *http.Client
}

func NewHTTPExtractionClient(url string, timeout time.Duration) *HTTPExtractionClient {
	return &HTTPExtractionClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPExtractionClient) Dispatch(ctx context.Context, req models.ExtractionRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal extraction request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build extraction request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call extraction service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("extraction service returned status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	return nil
}
