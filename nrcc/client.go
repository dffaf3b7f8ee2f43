package nrcc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jonwraymond/nrcc-search/cache"
	"github.com/jonwraymond/nrcc-search/observe"
	"github.com/jonwraymond/nrcc-search/resilience"
)

// Upstream endpoints and request headers.
const (
	DefaultBaseURL = "https://whpdj.mem.gov.cn/internet/common/chemical"
	ListPath       = "/queryChemicalList"
	DetailPath     = "/queryChemicalById"

	ContentType = "application/json;charset=UTF-8"
	UserAgent   = "Mozilla/5.0"

	// ListPageSize is the number of records requested per list search.
	ListPageSize = 5
)

// ErrNoData is matched by every error returned from Client.
var ErrNoData = errors.New("nrcc: no data available")

// Document is a decoded upstream response body.
type Document map[string]any

// Config configures a Client.
type Config struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// Timeout bounds each upstream request. Default: 30 seconds.
	Timeout time.Duration

	// Cache stores successful bodies. Nil disables caching.
	Cache cache.Cache

	// Policy sets cache TTLs. Ignored when Cache is nil.
	Policy cache.Policy

	Logger observe.Logger
}

// Client talks to the NRCC API. It is safe for concurrent use.
type Client struct {
	http    *resty.Client
	timeout *resilience.Timeout
	loader  *cache.Loader
	keyer   cache.Keyer
	logger  observe.Logger
}

// NewClient creates a Client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	if cfg.Cache == nil {
		cfg.Policy = cache.NoCachePolicy()
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", ContentType).
		SetHeader("User-Agent", UserAgent).
		SetLogger(restyLogger{l: cfg.Logger})

	return &Client{
		http:    httpClient,
		timeout: resilience.NewTimeout(resilience.TimeoutConfig{Timeout: cfg.Timeout}),
		loader:  cache.NewLoader(cfg.Cache, cfg.Policy),
		keyer:   cache.NewDefaultKeyer(),
		logger:  cfg.Logger,
	}
}

// ListPayload builds the list search request body.
func ListPayload(name, cas string) map[string]any {
	return map[string]any{
		"status":          "1",
		"chemName":        name,
		"chemCas":         cas,
		"chemEnglishName": "",
		"isFuzzy":         "1",
		"page":            map[string]any{
			"current": "1",
			"size":    ListPageSize,
		},
	}
}

// DetailPayload builds the detail lookup request body.
func DetailPayload(id string) map[string]any {
	return map[string]any{
		"idenDataId": id,
		"status":     "1",
	}
}

// SearchList runs a fuzzy search by chemical name and CAS number.
func (c *Client) SearchList(ctx context.Context, name, cas string) (Document, error) {
	return c.post(ctx, ListPath, ListPayload(name, cas))
}

// SearchDetail fetches one record by its idenDataId.
func (c *Client) SearchDetail(ctx context.Context, id string) (Document, error) {
	return c.post(ctx, DetailPath, DetailPayload(id))
}

func (c *Client) post(ctx context.Context, path string, payload map[string]any) (Document, error) {
	key, err := c.keyer.Key(path, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoData, path, err)
	}

	start := time.Now()
	body, cached, err := c.loader.Load(ctx, key, func(ctx context.Context) ([]byte, error) {
		return c.fetch(ctx, path, payload)
	})
	if err != nil {
		c.logger.Error(ctx, "nrcc request failed",
			observe.F("endpoint", path),
			observe.F("duration_ms", time.Since(start).Milliseconds()),
			observe.F("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %s: %w", ErrNoData, path, err)
	}

	doc, err := decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoData, path, err)
	}

	c.logger.Info(ctx, "nrcc response",
		observe.F("endpoint", path),
		observe.F("cached", cached),
		observe.F("bytes", len(body)),
		observe.F("duration_ms", time.Since(start).Milliseconds()),
	)
	return doc, nil
}

// fetch performs one request and returns the body only if it decodes.
func (c *Client) fetch(ctx context.Context, path string, payload map[string]any) ([]byte, error) {
	var body []byte
	err := c.timeout.Execute(ctx, func(ctx context.Context) error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(payload).
			Post(path)
		if err != nil {
			return err
		}
		if !resp.IsSuccess() {
			return fmt.Errorf("unexpected status %d", resp.StatusCode())
		}
		body = resp.Body()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if _, err := decode(body); err != nil {
		return nil, err
	}
	return body, nil
}

func decode(body []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if doc == nil {
		return nil, errors.New("decode response: empty document")
	}
	return doc, nil
}

// restyLogger routes resty's own diagnostics to the service logger.
type restyLogger struct {
	l observe.Logger
}

func (r restyLogger) Errorf(format string, v ...any) {
	r.l.Error(context.Background(), fmt.Sprintf(format, v...), observe.F("component", "resty"))
}

func (r restyLogger) Warnf(format string, v ...any) {
	r.l.Warn(context.Background(), fmt.Sprintf(format, v...), observe.F("component", "resty"))
}

func (r restyLogger) Debugf(format string, v ...any) {
	r.l.Debug(context.Background(), fmt.Sprintf(format, v...), observe.F("component", "resty"))
}
