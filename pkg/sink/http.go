package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/feedship/feedship/pkg/log"
)

// HTTPClient abstracts HTTP operations for dependency injection.
// The standard *http.Client satisfies this interface.
type HTTPClient interface {
	// Do sends an HTTP request and returns an HTTP response.
	Do(req *http.Request) (*http.Response, error)
}

// maxErrorBody bounds how much of a rejection response is read into the
// returned error.
const maxErrorBody = 512

// HTTPSink delivers batch payloads by POSTing them as application/json
// to an ingestion endpoint.
type HTTPSink struct {
	client   HTTPClient
	endpoint string
	authKey  string
	logger   log.Logger
}

// NewHTTPSink creates an HTTP sink posting to endpoint. authKey may be
// empty, in which case no Authorization header is sent.
func NewHTTPSink(client HTTPClient, endpoint, authKey string, logger log.Logger) *HTTPSink {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &HTTPSink{
		client:   client,
		endpoint: endpoint,
		authKey:  authKey,
		logger:   logger,
	}
}

// Emit POSTs one batch payload. Any status outside 2xx is an error
// carrying a snippet of the response body.
func (s *HTTPSink) Emit(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.authKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.authKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("batch rejected: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	s.logger.Debug("batch delivered",
		log.Int("bytes", len(payload)),
		log.Int("status", resp.StatusCode),
	)
	return nil
}
