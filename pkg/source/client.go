// Package source fetches the dashboard's CSV datasets from HTTP(S) URLs or
// local files, with rate limiting and an optional in-memory TTL cache.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"
)

// DefaultUserAgent is the default User-Agent header sent with dataset requests.
const DefaultUserAgent = "lebdash/1.0"

// DefaultRequestInterval is the default minimum interval between HTTP requests.
const DefaultRequestInterval = 500 * time.Millisecond

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultMaxBodyBytes caps how much of a response body is read.
const DefaultMaxBodyBytes = 32 << 20

// ClientConfig holds configuration for a Client.
type ClientConfig struct {
	// RateLimit is the minimum interval between HTTP requests.
	// Default: 500ms.
	RateLimit time.Duration

	// Timeout bounds each request. Default: 30 seconds.
	Timeout time.Duration

	// CacheTTL is how long fetched documents are reused. Zero disables the
	// cache so every render re-fetches.
	CacheTTL time.Duration

	// HTTPClient is the underlying HTTP client used for requests.
	// If nil, an *http.Client with Timeout is used (wrapped with rate limiting).
	HTTPClient HTTPClient

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string

	// MaxBodyBytes caps the size of a fetched document.
	MaxBodyBytes int64

	// Logger receives fetch diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// DefaultConfig returns a ClientConfig with sensible defaults.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		RateLimit:    DefaultRequestInterval,
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Document is one fetched dataset.
type Document struct {
	// Location is the URL or file path the document came from.
	Location string `json:"location"`

	// Body holds the raw CSV bytes.
	Body []byte `json:"-"`

	// StatusCode is the HTTP status (0 for local files).
	StatusCode int `json:"status_code"`

	// FetchedAt is when the bytes were obtained.
	FetchedAt time.Time `json:"fetched_at"`

	// Cached reports whether the document was served from the cache.
	Cached bool `json:"cached"`
}

// Reader returns a fresh reader over the document body.
func (document Document) Reader() io.Reader {
	return bytes.NewReader(document.Body)
}

// Client fetches datasets.
type Client struct {
	httpClient   HTTPClient
	cache        *DocumentCache
	userAgent    string
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewClient creates a new Client with the given configuration.
// If config.HTTPClient is nil, an *http.Client is created and wrapped with rate limiting.
func NewClient(config ClientConfig) *Client {
	underlyingClient := config.HTTPClient
	if underlyingClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		underlyingClient = &http.Client{Timeout: timeout}
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	maxBodyBytes := config.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var cache *DocumentCache
	if config.CacheTTL > 0 {
		cache = NewDocumentCache(config.CacheTTL)
	}

	return &Client{
		httpClient:   NewRateLimitedHTTPClient(underlyingClient, config.RateLimit),
		cache:        cache,
		userAgent:    userAgent,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// Fetch retrieves the document at location. HTTP(S) URLs are requested with
// GET; "file://" URLs and bare paths are read from disk. Status codes >= 400
// and transport failures are returned as *FetchError.
func (sourceClient *Client) Fetch(ctx context.Context, location string) (Document, error) {
	if sourceClient.cache != nil {
		if cachedDocument, found := sourceClient.cache.Get(location); found {
			cachedDocument.Cached = true
			sourceClient.logger.Debug("dataset served from cache", zap.String("location", location))
			return cachedDocument, nil
		}
	}

	startTime := time.Now()
	document, err := sourceClient.fetchUncached(ctx, location)
	if err != nil {
		sourceClient.logger.Warn("dataset fetch failed",
			zap.String("location", location),
			zap.Duration("elapsed", time.Since(startTime)),
			zap.Error(err))
		return Document{}, err
	}

	sourceClient.logger.Info("dataset fetched",
		zap.String("location", location),
		zap.Int("bytes", len(document.Body)),
		zap.Duration("elapsed", time.Since(startTime)))

	if sourceClient.cache != nil {
		sourceClient.cache.Set(location, document)
	}
	return document, nil
}

// Invalidate drops a cached document, if caching is enabled.
func (sourceClient *Client) Invalidate(location string) {
	if sourceClient.cache != nil {
		sourceClient.cache.Invalidate(location)
	}
}

func (sourceClient *Client) fetchUncached(ctx context.Context, location string) (Document, error) {
	if location == "" {
		return Document{}, &FetchError{Location: location, Err: ErrEmptyLocation}
	}

	parsedURL, err := url.Parse(location)
	if err != nil {
		return Document{}, &FetchError{Location: location, Err: err}
	}

	switch parsedURL.Scheme {
	case "http", "https":
		return sourceClient.fetchHTTP(ctx, location)
	case "file":
		return sourceClient.readFile(parsedURL.Path)
	case "":
		return sourceClient.readFile(location)
	default:
		return Document{}, &FetchError{Location: location, Err: fmt.Errorf("unsupported scheme %q", parsedURL.Scheme)}
	}
}

func (sourceClient *Client) fetchHTTP(ctx context.Context, location string) (Document, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return Document{}, &FetchError{Location: location, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	request.Header.Set("User-Agent", sourceClient.userAgent)
	request.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	response, err := sourceClient.httpClient.Do(request)
	if err != nil {
		return Document{}, &FetchError{Location: location, Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		return Document{}, &FetchError{Location: location, StatusCode: response.StatusCode}
	}

	body, err := readLimited(response.Body, sourceClient.maxBodyBytes)
	if err != nil {
		return Document{}, &FetchError{Location: location, StatusCode: response.StatusCode, Err: err}
	}

	return Document{
		Location:   location,
		Body:       body,
		StatusCode: response.StatusCode,
		FetchedAt:  time.Now(),
	}, nil
}

func (sourceClient *Client) readFile(path string) (Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return Document{}, &FetchError{Location: path, Err: err}
	}
	defer file.Close()

	body, err := readLimited(file, sourceClient.maxBodyBytes)
	if err != nil {
		return Document{}, &FetchError{Location: path, Err: err}
	}

	return Document{
		Location:  path,
		Body:      body,
		FetchedAt: time.Now(),
	}, nil
}

func readLimited(reader io.Reader, maxBodyBytes int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(reader, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) > maxBodyBytes {
		return nil, fmt.Errorf("%w (limit %d bytes)", ErrBodyTooLarge, maxBodyBytes)
	}
	return body, nil
}
