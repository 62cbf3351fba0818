package dispatch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/dataserver/pkg/storage"
)

const (
	payloadContentType = "text/plain; charset=utf-8"
	maxResponseBytes   = 1 << 20
)

// Sink delivers a payload downstream and returns the downstream response.
type Sink interface {
	Send(ctx context.Context, payload string) (string, error)
}

// NewSink builds the sink selected by cfg. The store is required for the blob sink.
func NewSink(cfg *Config, store storage.System) (Sink, error) {
	switch cfg.Sink {
	case SinkHTTP:
		return NewHTTPSink(cfg.Endpoint, cfg.ConnectTimeoutDuration(), cfg.RequestTimeoutDuration()), nil
	case SinkBlob:
		if store == nil {
			return nil, fmt.Errorf("blob sink requires storage")
		}
		return NewBlobSink(store), nil
	default:
		return nil, fmt.Errorf("unknown sink: %q", cfg.Sink)
	}
}

// HTTPSink POSTs payloads to a fixed endpoint.
type HTTPSink struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSink creates an HTTPSink whose dials are bounded by connectTimeout
// and whose calls are bounded by requestTimeout.
func NewHTTPSink(endpoint string, connectTimeout, requestTimeout time.Duration) *HTTPSink {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: connectTimeout}).DialContext

	return &HTTPSink{
		endpoint: endpoint,
		client: &http.Client{
			Transport: transport,
			Timeout:   requestTimeout,
		},
	}
}

// Send posts payload as the raw request body. Any 2xx status is a delivery.
func (s *HTTPSink) Send(ctx context.Context, payload string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", payloadContentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post %s: %w", s.endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return string(body), fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}
	return string(body), nil
}

// BlobSink writes each payload to its own blob under a date-partitioned key.
type BlobSink struct {
	store storage.System
}

// NewBlobSink creates a BlobSink over store.
func NewBlobSink(store storage.System) *BlobSink {
	return &BlobSink{store: store}
}

// Send uploads payload and returns the blob key.
func (s *BlobSink) Send(ctx context.Context, payload string) (string, error) {
	now := time.Now().UTC()
	key := s.store.Key(
		now.Format("2006"),
		now.Format("01"),
		now.Format("02"),
		uuid.NewString(),
	)

	if err := s.store.Upload(ctx, key, strings.NewReader(payload), payloadContentType); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}
