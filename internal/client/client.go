// Package client talks to the data server HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JaimeStill/dataserver/internal/envelope"
)

// StatusError is returned when the server answers with an unexpected status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Client is an API client rooted at the server's API base URL, for
// example http://localhost:8080/api.
type Client struct {
	baseURL string
	http    *http.Client
	codec   envelope.Codec
}

// New creates a Client whose requests are bounded by timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		codec:   envelope.Text{},
	}
}

// Push submits env. It returns false when the server rejects the checksum.
func (c *Client) Push(ctx context.Context, env envelope.Envelope) (bool, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return false, fmt.Errorf("encode envelope: %w", err)
	}

	code, resp, err := c.do(ctx, http.MethodPost, "/blocks", bytes.NewReader(body))
	if err != nil {
		return false, err
	}

	switch code {
	case http.StatusOK:
		return decodeBool(resp)
	case http.StatusBadRequest:
		// A rejected checksum answers with a bare false; anything else is an error.
		if ok, err := decodeBool(resp); err == nil {
			return ok, nil
		}
	}
	return false, statusError(code, resp)
}

// Query returns every envelope of type t, recovered from the text dump.
// Checksums are not part of the recovered envelopes.
//
// The dump is one unescaped envelope per line. A stored payload containing a
// newline, a comma, or a bracket does not survive the dump, and the first
// such line fails the whole Query with envelope.ErrMalformedEnvelope.
func (c *Client) Query(ctx context.Context, t envelope.BlockType) ([]envelope.Envelope, error) {
	code, resp, err := c.do(ctx, http.MethodGet, "/blocks/type/"+url.PathEscape(t.String())+"/dump", nil)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, statusError(code, resp)
	}

	envs := make([]envelope.Envelope, 0)
	for i, line := range strings.Split(string(resp), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		env, err := c.codec.Decode(line)
		if err != nil {
			return nil, fmt.Errorf("decode dump line %d: %w", i+1, err)
		}
		envs = append(envs, env)
	}

	return envs, nil
}

// Update reclassifies the named block. It returns false when no block has the name.
func (c *Client) Update(ctx context.Context, name, blockType string) (bool, error) {
	path := "/blocks/" + url.PathEscape(name) + "/type/" + url.PathEscape(blockType)

	code, resp, err := c.do(ctx, http.MethodPatch, path, nil)
	if err != nil {
		return false, err
	}
	if code != http.StatusOK {
		return false, statusError(code, resp)
	}
	return decodeBool(resp)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

func decodeBool(data []byte) (bool, error) {
	var ok bool
	if err := json.Unmarshal(data, &ok); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return ok, nil
}

func statusError(code int, data []byte) error {
	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(data))
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		msg = body.Error
	}
	return &StatusError{Code: code, Message: msg}
}

// IsConflict reports whether err is a 409 from the server.
func IsConflict(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusConflict
}
