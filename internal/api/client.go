package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "http://localhost:8000/api"
	DefaultTimeout = 30 * time.Second

	requestIDHeader = "X-Request-ID"
)

// Client is the single point of contact with the analytics service. Every
// operation issues exactly one request; there is no retry and no caching.
type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

type Option func(*Client)

// WithTimeout replaces the 30 second ceiling applied to every call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithLogger sends request diagnostics to l instead of the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithTransport swaps the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.SetTransport(rt)
	}
}

// NewClient creates a client for the service rooted at baseURL
// (DefaultBaseURL when empty).
func NewClient(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{logger: log.Logger}

	c.http = resty.New()
	c.http.SetBaseURL(strings.TrimRight(baseURL, "/"))
	c.http.SetTimeout(DefaultTimeout)
	c.http.SetHeader("Content-Type", "application/json")
	c.http.SetHeader("Accept", "application/json")

	for _, opt := range opts {
		opt(c)
	}

	c.http.OnBeforeRequest(c.logRequest)
	c.http.OnAfterResponse(c.logErrorResponse)
	c.http.OnError(c.logTransportError)

	return c
}

// BaseURL returns the service root requests are resolved against.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

func (c *Client) logRequest(_ *resty.Client, req *resty.Request) error {
	id := uuid.NewString()
	req.SetHeader(requestIDHeader, id)
	path := expandPath(req.URL, req.PathParams)
	c.logger.Info().
		Str("request_id", id).
		Str("method", req.Method).
		Str("path", path).
		Msgf("Making %s request to %s", req.Method, path)
	return nil
}

// expandPath fills {name} placeholders the way resty does later in the
// middleware chain, after this hook has run.
func expandPath(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}
	pairs := make([]string, 0, 2*len(params))
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", url.PathEscape(v))
	}
	return strings.NewReplacer(pairs...).Replace(path)
}

func (c *Client) logErrorResponse(_ *resty.Client, resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	c.logger.Error().
		Str("request_id", resp.Request.Header.Get(requestIDHeader)).
		Int("status", resp.StatusCode()).
		Str("body", resp.String()).
		Msg("API error")
	return nil
}

func (c *Client) logTransportError(req *resty.Request, err error) {
	c.logger.Error().
		Str("request_id", req.Header.Get(requestIDHeader)).
		Str("path", req.URL).
		Err(err).
		Msg("API error")
}

// do performs one request and decodes a 2xx body into out. Any failure is
// returned as *Error carrying fallback unless the server supplied a detail.
func (c *Client) do(ctx context.Context, method, path string, pathParams map[string]string, body, out any, fallback string) error {
	req := c.http.R().SetContext(ctx)
	if len(pathParams) > 0 {
		req.SetPathParams(pathParams)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		kind := KindTransport
		if isTimeout(err) {
			kind = KindTimeout
		}
		return &Error{Kind: kind, Message: fallback, Err: fmt.Errorf("%s %s: %w", method, path, err)}
	}

	if !resp.IsSuccess() {
		msg := fallback
		if detail, ok := detailOf(resp.Body()); ok {
			msg = detail
		}
		return &Error{
			Kind:    KindServer,
			Message: msg,
			Status:  resp.StatusCode(),
			Err:     fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode()),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("API error: undecodable response")
		return &Error{Kind: KindTransport, Message: fallback, Err: fmt.Errorf("decode %s response: %w", path, err)}
	}
	return nil
}

// detailOf extracts a non-empty string "detail" field from an error body.
// FastAPI validation failures send detail as an array; those are ignored.
func detailOf(body []byte) (string, bool) {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return "", false
	}
	detail := gjson.GetBytes(body, "detail")
	if detail.Type != gjson.String || detail.Str == "" {
		return "", false
	}
	return detail.Str, true
}
