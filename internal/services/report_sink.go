package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPReportSink posts the daily report as JSON to a configured endpoint.
// One shot, no retries.
type HTTPReportSink struct {
	endpoint string
	client   *http.Client
}

func NewHTTPReportSink(endpoint string) *HTTPReportSink {
	return &HTTPReportSink{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

func (sink *HTTPReportSink) Deliver(ctx context.Context, report DailyReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sink.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := sink.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("report sink status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
