package transport

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
)

const maxErrorBody = 1 << 20

// Option configures the HTTP transport.
type Option func(*HTTP)

// WithHTTPClient overrides the client used to issue requests.
func WithHTTPClient(client *http.Client) Option {
	return func(h *HTTP) {
		if client != nil {
			h.client = client
		}
	}
}

// WithBaseURL resolves relative request paths against base.
func WithBaseURL(base string) Option {
	return func(h *HTTP) {
		h.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

// WithHeader adds a header sent with every request, for example an
// Authorization token.
func WithHeader(name, value string) Option {
	return func(h *HTTP) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		h.headers.Set(name, value)
	}
}

// WithTimeout bounds every request. Zero disables the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(h *HTTP) {
		h.timeout = timeout
	}
}

// HTTP is a JSON-over-HTTP Transport.
type HTTP struct {
	client  *http.Client
	baseURL string
	headers http.Header
	timeout time.Duration
}

var _ Transport = (*HTTP)(nil)

// NewHTTP constructs an HTTP transport.
func NewHTTP(options ...Option) *HTTP {
	h := &HTTP{
		client:  http.DefaultClient,
		headers: make(http.Header),
		timeout: 30 * time.Second,
	}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Get issues a GET with params merged into the query string.
func (h *HTTP) Get(ctx context.Context, path string, params url.Values) (Payload, error) {
	target, err := h.resolve(path)
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		q := target.Query()
		for key, values := range params {
			for _, value := range values {
				q.Add(key, value)
			}
		}
		target.RawQuery = q.Encode()
	}
	return h.do(ctx, http.MethodGet, target, nil)
}

// Post sends body as JSON.
func (h *HTTP) Post(ctx context.Context, path string, body any) (Payload, error) {
	target, err := h.resolve(path)
	if err != nil {
		return nil, err
	}
	return h.do(ctx, http.MethodPost, target, body)
}

// Put sends body as JSON.
func (h *HTTP) Put(ctx context.Context, path string, body any) (Payload, error) {
	target, err := h.resolve(path)
	if err != nil {
		return nil, err
	}
	return h.do(ctx, http.MethodPut, target, body)
}

func (h *HTTP) resolve(path string) (*url.URL, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("transport: request path is required")
	}
	raw := path
	if h.baseURL != "" && !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		raw = h.baseURL + "/" + strings.TrimLeft(path, "/")
	}
	target, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("transport: parse url: %w", err)
	}
	return target, nil
}

func (h *HTTP) do(ctx context.Context, method string, target *url.URL, body any) (Payload, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("transport: encode body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("transport: request: %w", err)
	}
	for name, values := range h.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &Error{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var decoded any
		if len(bytes.TrimSpace(data)) > 0 {
			_ = json.Unmarshal(data, &decoded)
		}
		return nil, ErrorFromBody(resp.StatusCode, decoded)
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, &Error{Status: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}
	return payload, nil
}
