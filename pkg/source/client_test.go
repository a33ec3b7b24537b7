package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockHTTPClient implements HTTPClient for testing.
type MockHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)
}

func (mockClient *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return mockClient.DoFunc(req)
}

func csvResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestClient(mockClient *MockHTTPClient, cacheTTL time.Duration) *Client {
	config := DefaultConfig()
	config.HTTPClient = mockClient
	config.RateLimit = 0
	config.CacheTTL = cacheTTL
	return NewClient(config)
}

func TestFetch_HTTP200(t *testing.T) {
	var userAgent string
	mockClient := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			userAgent = req.Header.Get("User-Agent")
			assert.Equal(t, http.MethodGet, req.Method)
			return csvResponse("refPeriod,Value\n2020,2000\n"), nil
		},
	}

	sourceClient := newTestClient(mockClient, 0)
	document, err := sourceClient.Fetch(context.Background(), "https://example.org/debt.csv")
	require.NoError(t, err)

	assert.Equal(t, "refPeriod,Value\n2020,2000\n", string(document.Body))
	assert.Equal(t, http.StatusOK, document.StatusCode)
	assert.Equal(t, "https://example.org/debt.csv", document.Location)
	assert.False(t, document.Cached)
	assert.Equal(t, DefaultUserAgent, userAgent)

	body, err := io.ReadAll(document.Reader())
	require.NoError(t, err)
	assert.Equal(t, document.Body, body)
}

func TestFetch_HTTPErrorStatus(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
	}{
		{"not_found", http.StatusNotFound},
		{"server_error", http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockClient := &MockHTTPClient{
				DoFunc: func(req *http.Request) (*http.Response, error) {
					return &http.Response{StatusCode: tc.statusCode, Body: http.NoBody}, nil
				},
			}

			_, err := newTestClient(mockClient, 0).Fetch(context.Background(), "https://example.org/x.csv")
			require.Error(t, err)

			var fetchError *FetchError
			require.True(t, errors.As(err, &fetchError))
			assert.Equal(t, tc.statusCode, fetchError.StatusCode)
			assert.Contains(t, err.Error(), fmt.Sprintf("HTTP %d", tc.statusCode))
		})
	}
}

func TestFetch_NetworkError(t *testing.T) {
	networkError := errors.New("connection refused")
	mockClient := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			return nil, networkError
		},
	}

	_, err := newTestClient(mockClient, 0).Fetch(context.Background(), "https://example.org/x.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, networkError)

	var fetchError *FetchError
	require.ErrorAs(t, err, &fetchError)
	assert.Equal(t, 0, fetchError.StatusCode)
}

func TestFetch_CacheHit(t *testing.T) {
	var requestCount int32
	mockClient := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			atomic.AddInt32(&requestCount, 1)
			return csvResponse("a,b\n1,2\n"), nil
		},
	}

	sourceClient := newTestClient(mockClient, time.Hour)
	first, err := sourceClient.Fetch(context.Background(), "https://example.org/x.csv")
	require.NoError(t, err)
	second, err := sourceClient.Fetch(context.Background(), "https://example.org/x.csv")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Body, second.Body)

	sourceClient.Invalidate("https://example.org/x.csv")
	_, err = sourceClient.Fetch(context.Background(), "https://example.org/x.csv")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requestCount))
}

func TestFetch_NoCacheRefetches(t *testing.T) {
	var requestCount int32
	mockClient := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			atomic.AddInt32(&requestCount, 1)
			return csvResponse("a\n1\n"), nil
		},
	}

	sourceClient := newTestClient(mockClient, 0)
	for i := 0; i < 3; i++ {
		_, err := sourceClient.Fetch(context.Background(), "https://example.org/x.csv")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&requestCount))
}

func TestFetch_BodyTooLarge(t *testing.T) {
	mockClient := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			return csvResponse(strings.Repeat("x", 64)), nil
		},
	}

	config := DefaultConfig()
	config.HTTPClient = mockClient
	config.RateLimit = 0
	config.MaxBodyBytes = 16

	_, err := NewClient(config).Fetch(context.Background(), "https://example.org/big.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestFetch_LocalFile(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "infra.csv")
	require.NoError(t, os.WriteFile(path, []byte("refArea\nx\n"), 0o644))

	sourceClient := newTestClient(&MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			t.Fatal("local files must not hit the network")
			return nil, nil
		},
	}, 0)

	document, err := sourceClient.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "refArea\nx\n", string(document.Body))

	document, err = sourceClient.Fetch(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, "refArea\nx\n", string(document.Body))

	_, err = sourceClient.Fetch(context.Background(), filepath.Join(directory, "missing.csv"))
	var fetchError *FetchError
	require.ErrorAs(t, err, &fetchError)
}

func TestFetch_InvalidLocations(t *testing.T) {
	sourceClient := newTestClient(&MockHTTPClient{}, 0)

	_, err := sourceClient.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyLocation)

	_, err = sourceClient.Fetch(context.Background(), "ftp://example.org/x.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scheme")
}

func TestFetch_AgainstHTTPTestServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("refPeriod,Value\n2019,500\n"))
	}))
	defer server.Close()

	config := DefaultConfig()
	config.HTTPClient = server.Client()
	config.RateLimit = 0

	document, err := NewClient(config).Fetch(context.Background(), server.URL+"/debt.csv")
	require.NoError(t, err)
	assert.Equal(t, "refPeriod,Value\n2019,500\n", string(document.Body))
}

func TestRateLimitedHTTPClient_EnforcesInterval(t *testing.T) {
	mockClient := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
		},
	}

	rateLimitedClient := NewRateLimitedHTTPClient(mockClient, 40*time.Millisecond)
	startTime := time.Now()
	for i := 0; i < 3; i++ {
		request, _ := http.NewRequest(http.MethodGet, "https://example.org", nil)
		_, err := rateLimitedClient.Do(request)
		require.NoError(t, err)
	}

	assert.GreaterOrEqual(t, time.Since(startTime), 80*time.Millisecond)
}

func TestRateLimitedHTTPClient_ContextCancelled(t *testing.T) {
	mockClient := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
		},
	}

	rateLimitedClient := NewRateLimitedHTTPClient(mockClient, time.Hour)
	firstRequest, _ := http.NewRequest(http.MethodGet, "https://example.org", nil)
	_, err := rateLimitedClient.Do(firstRequest)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	secondRequest, _ := http.NewRequestWithContext(ctx, http.MethodGet, "https://example.org", nil)
	_, err = rateLimitedClient.Do(secondRequest)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocumentCache_Expiry(t *testing.T) {
	documentCache := NewDocumentCache(time.Minute)
	currentTime := time.Date(2024, 9, 5, 16, 0, 0, 0, time.UTC)
	documentCache.now = func() time.Time { return currentTime }

	documentCache.Set("a", Document{Location: "a"})
	_, found := documentCache.Get("a")
	assert.True(t, found)
	assert.Equal(t, 1, documentCache.Len())

	currentTime = currentTime.Add(2 * time.Minute)
	_, found = documentCache.Get("a")
	assert.False(t, found)
	assert.Equal(t, 0, documentCache.Len())

	documentCache.Set("b", Document{Location: "b"})
	documentCache.Clear()
	assert.Equal(t, 0, documentCache.Len())
}
