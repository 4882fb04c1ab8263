package countries

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public REST Countries v3.1 endpoint
const DefaultBaseURL = "https://restcountries.com/v3.1"

// lookupFields limits the response to what the widget renders
const lookupFields = "name,capital,population,flags,flag,languages"

// Lookuper resolves a partial country name to matching records.
type Lookuper interface {
	Lookup(ctx context.Context, name string) ([]Country, error)
}

// ClientConfig configures the REST client
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration // zero means no timeout
	UserAgent string
}

// Client queries the REST Countries API
type Client struct {
	config  ClientConfig
	client  *http.Client
	baseURL *url.URL
}

// NewClient creates a new client instance
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", config.BaseURL, err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", config.BaseURL)
	}

	return &Client{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
	}, nil
}

// Lookup fetches all countries whose name contains name.
// A 404 from the API is reported as ErrNotFound.
func (c *Client) Lookup(ctx context.Context, name string) ([]Country, error) {
	endpoint := c.baseURL.JoinPath("name", name)
	endpoint.RawQuery = url.Values{"fields": {lookupFields}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, newLookupError(KindRequest, name, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, newLookupError(KindNetwork, name, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, newLookupError(KindNotFound, name, "no country with that name", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		lerr := newLookupError(KindStatus, name, strings.TrimSpace(string(body)), nil)
		lerr.StatusCode = resp.StatusCode
		return nil, lerr
	}

	var result []Country
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, newLookupError(KindDecode, name, "failed to decode response", err)
	}

	return result, nil
}
