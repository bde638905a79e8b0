package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"webtail/internal/api"
)

// ErrUnavailable reports that no server could be reached.
var ErrUnavailable = errors.New("webtail server unavailable")

const defaultTimeout = 10 * time.Second

// Client reads /api/tail from a webtail server.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient parses addr as host:port or a full URL. An empty addr returns a
// nil client.
func NewClient(addr string) (*Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, nil
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	base, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("parse server address: %w", err)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("server address %q has no host", addr)
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""

	return &Client{
		base: base,
		http: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// Fetch returns the server's current snapshot.
func (c *Client) Fetch(ctx context.Context) (api.TailResponse, error) {
	if c == nil {
		return api.TailResponse{}, ErrUnavailable
	}

	endpoint := c.base.ResolveReference(&url.URL{Path: "/api/tail"})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return api.TailResponse{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return api.TailResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return api.TailResponse{}, fmt.Errorf("api tail returned status %d", resp.StatusCode)
	}

	var payload api.TailResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return api.TailResponse{}, fmt.Errorf("decode tail response: %w", err)
	}
	return payload, nil
}

// IsUnavailable reports whether err means the server could not be reached.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	var opErr *net.OpError
	return errors.Is(err, ErrUnavailable) || errors.As(err, &opErr)
}
