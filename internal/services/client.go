// Package services contains typed HTTP clients for the internal backend
// services the gateway fronts: users, chats, beatmaps and scores. Every
// backend speaks the same JSON envelope, with the payload under "data".
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hoshizora/bancho-gateway/internal/config"
	"github.com/hoshizora/bancho-gateway/internal/logging"
	"github.com/hoshizora/bancho-gateway/internal/monitoring"
)

// ErrServiceCall marks a backend response outside the 2xx range. Callers
// match it with errors.Is to distinguish backend refusals from transport
// failures.
var ErrServiceCall = errors.New("services: backend call failed")

// Clients bundles one client per backend service.
type Clients struct {
	Users    *UsersClient
	Chats    *ChatsClient
	Beatmaps *BeatmapsClient
	Scores   *ScoresClient
}

// New builds the backend clients from configuration.
func New(cfg config.ServicesConfig, metrics *monitoring.Metrics) *Clients {
	timeout := cfg.CallTimeout()
	return &Clients{
		Users:    &UsersClient{client: newClient("users", cfg.UsersBaseURL, timeout, metrics)},
		Chats:    &ChatsClient{client: newClient("chats", cfg.ChatsBaseURL, timeout, metrics)},
		Beatmaps: &BeatmapsClient{client: newClient("beatmaps", cfg.BeatmapsBaseURL, timeout, metrics)},
		Scores:   &ScoresClient{client: newClient("scores", cfg.ScoresBaseURL, timeout, metrics)},
	}
}

type client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	metrics    *monitoring.Metrics
}

func newClient(name, baseURL string, timeout time.Duration, metrics *monitoring.Metrics) *client {
	return &client{
		name:    name,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
	}
}

// call performs one backend request. A non-nil body is sent as JSON; a
// non-nil out receives the decoded "data" payload.
func (c *client) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", c.name, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.name, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID := logging.RequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ServiceCalls.WithLabelValues(c.name, "error").Inc()
		return fmt.Errorf("%s: %s %s: %w", c.name, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.metrics.ServiceCalls.WithLabelValues(c.name, "error").Inc()
		return fmt.Errorf("%s: %s %s: status %d: %w",
			c.name, method, path, resp.StatusCode, ErrServiceCall)
	}

	c.metrics.ServiceCalls.WithLabelValues(c.name, "success").Inc()

	if out == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", c.name, err)
	}

	return nil
}
