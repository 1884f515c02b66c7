package sos

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Supported GetObservation response formats.
const (
	FormatOM   = `text/xml;subtype="om/1.0.0"`
	FormatJSON = "application/json"
)

// Supported service versions.
const (
	Version100 = "1.0.0"
	Version200 = "2.0.0"
)

const defaultTimeout = 30 * time.Second

type ClientOptions struct {
	// Base URL of the SOS endpoint, with or without a trailing '?'.
	URL      string
	Version  string
	Username string
	Password string
	Timeout  time.Duration
}

// Client talks to an SOS endpoint over the KVP (HTTP GET) binding.
type Client struct {
	baseURL    string
	version    string
	username   string
	password   string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseURL := strings.TrimSuffix(strings.TrimSpace(opts.URL), "?")
	if baseURL == "" {
		return nil, fmt.Errorf("service url is required")
	}
	if !strings.HasPrefix(baseURL, "http") {
		return nil, fmt.Errorf("service url %q must start with 'http'", opts.URL)
	}

	version := opts.Version
	if version == "" {
		version = Version100
	}
	if version != Version100 && version != Version200 {
		return nil, fmt.Errorf("unsupported service version %q", opts.Version)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    baseURL,
		version:    version,
		username:   opts.Username,
		password:   opts.Password,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default().With("module", "sos"),
	}, nil
}

func (c *Client) Version() string {
	return c.version
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("service", "SOS")

	reqURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	c.logger.Debug("requesting", slog.String("url", reqURL))

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", params.Get("request"), err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", params.Get("request"), err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", params.Get("request"), res.StatusCode)
	}
	if exc := parseServiceException(body); exc != nil {
		return nil, exc
	}

	return body, nil
}

// ServiceException is an OWS exception report returned by the endpoint.
type ServiceException struct {
	Code string
	Text string
}

func (e *ServiceException) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("service exception %s", e.Code)
	}
	return fmt.Sprintf("service exception %s: %s", e.Code, e.Text)
}
