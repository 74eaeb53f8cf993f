// Package httpapi is the REST transport used by the repositories: verb calls
// that encode JSON, decode JSON responses and fail with typed errors.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTimeout   = 10 * time.Second
	requestIDHeader  = "X-Request-ID"
	maxErrorBodySize = 1 << 16
)

// Doer matches the subset of http.Client used by Client.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client issues JSON requests against the storefront backend.
type Client struct {
	base   *url.URL
	http   Doer
	logger *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.http = d
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if hc, ok := c.http.(*http.Client); ok && timeout > 0 {
			hc.Timeout = timeout
		}
	}
}

// WithLogger attaches a logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// File is a multipart file part.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// NewClient constructs a Client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("httpapi: base URL is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("httpapi: parse base URL: %w", err)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	c := &Client{
		base:   parsed,
		http:   &http.Client{Timeout: defaultTimeout},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get issues a GET and decodes the response into out (nil discards it).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT. A nil body sends no payload, for endpoints that carry
// their arguments in the path.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE. Empty or non-JSON success bodies are tolerated.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

// PutMultipart uploads file under field as multipart/form-data.
func (c *Client) PutMultipart(ctx context.Context, path, field string, file File, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Name))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("httpapi: build multipart: %w", err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return fmt.Errorf("httpapi: build multipart: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("httpapi: build multipart: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, path, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(body); err != nil {
			return fmt.Errorf("httpapi: encode payload: %w", err)
		}
		reader = &buf
	}
	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, path, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return nil, fmt.Errorf("httpapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	return req, nil
}

func (c *Client) do(req *http.Request, path string, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("backend request failed",
			zap.String("method", req.Method),
			zap.String("path", path),
			zap.Error(err),
		)
		return &TransportError{Method: req.Method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		zap.String("method", req.Method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", req.Header.Get(requestIDHeader)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(req.Method, path, resp.StatusCode, errorDetail(resp))
	}
	if err := decodeBody(resp.Body, out); err != nil {
		return &TransportError{Method: req.Method, Path: path, StatusCode: resp.StatusCode, Detail: "decode response", Err: err}
	}
	return nil
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	ref := &url.URL{Path: strings.TrimPrefix(path, "/")}
	return c.base.ResolveReference(ref).String()
}

// decodeBody decodes JSON into out. A *string target also accepts a plain
// text body, which some endpoints return for links.
func decodeBody(r io.Reader, out any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		if s, ok := out.(*string); ok {
			*s = string(trimmed)
			return nil
		}
		return err
	}
	return nil
}

func errorDetail(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	var payload struct {
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
		var detail string
		if json.Unmarshal(payload.Detail, &detail) == nil && strings.TrimSpace(detail) != "" {
			return strings.TrimSpace(detail)
		}
		if len(payload.Detail) > 0 && string(payload.Detail) != "null" {
			return string(payload.Detail)
		}
	}
	return http.StatusText(resp.StatusCode)
}
