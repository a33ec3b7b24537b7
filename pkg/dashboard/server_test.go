package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/lebdash/pkg/chart"
	"github.com/coolbeans/lebdash/pkg/infra"
)

func newTestServer(fetcher *MockFetcher) *Server {
	return NewServer(newTestDashboard(fetcher), chart.NewRenderer(chart.Config{Width: 320, Height: 200}), nil)
}

func serve(t *testing.T, server *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(http.MethodGet, target, nil)
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)
	return recorder
}

func TestServer_Page(t *testing.T) {
	recorder := serve(t, newTestServer(newMockFetcher()), "/?infra_insights=1")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "text/html")
	assert.NotEmpty(t, recorder.Header().Get(RequestIDHeader))

	body := recorder.Body.String()
	assert.Contains(t, body, "Unfinished Story")
	assert.Contains(t, body, "/chart/infrastructure.svg?infra_insights=1")
	assert.Contains(t, body, "<strong>Reasons to act:</strong>")
}

func TestServer_BadState(t *testing.T) {
	recorder := serve(t, newTestServer(newMockFetcher()), "/api/view?min=lots")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestServer_RequestIDEchoed(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	request.Header.Set(RequestIDHeader, "req-123")
	recorder := httptest.NewRecorder()
	newTestServer(newMockFetcher()).Handler().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "req-123", recorder.Header().Get(RequestIDHeader))
}

func TestServer_API(t *testing.T) {
	server := newTestServer(newMockFetcher())

	t.Run("infrastructure", func(t *testing.T) {
		recorder := serve(t, server, "/api/infrastructure")
		require.Equal(t, http.StatusOK, recorder.Code)

		var section InfrastructureSection
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &section))
		assert.Equal(t, []string{"Mount Lebanon", "South"}, section.Aggregation.Categories)
		assert.Nil(t, section.ZeroMap)
	})

	t.Run("zero initiative", func(t *testing.T) {
		recorder := serve(t, server, "/api/zero-initiative")
		require.Equal(t, http.StatusOK, recorder.Code)

		var zeroMap infra.ZeroInitiativeMap
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &zeroMap))
		assert.Equal(t, []string{"Baabda_District"}, zeroMap.Districts)
		require.Len(t, zeroMap.Points, 1)
		assert.InDelta(t, 33.8336, zeroMap.Points[0].Latitude, 1e-9)
	})

	t.Run("debt step", func(t *testing.T) {
		recorder := serve(t, server, "/api/debt?step=0")
		require.Equal(t, http.StatusOK, recorder.Code)

		var response struct {
			Visible []struct {
				Period string `json:"period"`
			} `json:"visible"`
			Steps []struct {
				Label string `json:"label"`
			} `json:"steps"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		require.Len(t, response.Visible, 1)
		assert.Equal(t, "2018", response.Visible[0].Period)
		require.Len(t, response.Steps, 2)
		assert.Equal(t, "2020", response.Steps[1].Label)
	})
}

func TestServer_Charts(t *testing.T) {
	fetcher := newMockFetcher()
	server := newTestServer(fetcher)

	testCases := []struct {
		target         string
		expectedStatus int
		expectedType   string
	}{
		{target: "/chart/infrastructure.png", expectedStatus: http.StatusOK, expectedType: "image/png"},
		{target: "/chart/debt.svg?step=1", expectedStatus: http.StatusOK, expectedType: "image/svg+xml"},
		{target: "/chart/zero-initiative.png", expectedStatus: http.StatusOK, expectedType: "image/png"},
		{target: "/chart/weather.png", expectedStatus: http.StatusNotFound},
		{target: "/chart/debt.gif", expectedStatus: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.target, func(t *testing.T) {
			recorder := serve(t, server, tc.target)
			require.Equal(t, tc.expectedStatus, recorder.Code, recorder.Body.String())
			if tc.expectedType != "" {
				assert.Equal(t, tc.expectedType, recorder.Header().Get("Content-Type"))
				assert.NotZero(t, recorder.Body.Len())
			}
		})
	}
}

func TestServer_SectionRoutesFetchOneDataset(t *testing.T) {
	testCases := []struct {
		target   string
		expected string
	}{
		{target: "/api/infrastructure", expected: infraLocation},
		{target: "/api/zero-initiative", expected: infraLocation},
		{target: "/api/debt", expected: debtLocation},
		{target: "/chart/debt.svg", expected: debtLocation},
		{target: "/chart/infrastructure.svg", expected: infraLocation},
	}

	for _, tc := range testCases {
		t.Run(tc.target, func(t *testing.T) {
			fetcher := newMockFetcher()
			recorder := serve(t, newTestServer(fetcher), tc.target)
			require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
			assert.Equal(t, []string{tc.expected}, fetcher.Calls())
		})
	}
}

func TestServer_SectionFailure(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.failures[infraLocation] = errors.New("upstream unavailable")
	server := newTestServer(fetcher)

	assert.Equal(t, http.StatusBadGateway, serve(t, server, "/chart/infrastructure.svg").Code)
	assert.Equal(t, http.StatusBadGateway, serve(t, server, "/api/infrastructure").Code)
	assert.Equal(t, http.StatusOK, serve(t, server, "/chart/debt.svg").Code)

	page := serve(t, server, "/")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "could not be loaded")
	assert.Contains(t, page.Body.String(), "/chart/debt.svg")
}

func TestServer_Export(t *testing.T) {
	recorder := serve(t, newTestServer(newMockFetcher()), "/export.xlsx")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Disposition"), "lebdash.xlsx")
	assert.True(t, bytes.HasPrefix(recorder.Body.Bytes(), []byte("PK")))
}

func TestServer_Serve(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- newTestServer(newMockFetcher()).Serve(ctx, listener, time.Second)
	}()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	response, err := client.Get("http://" + listener.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(response.Body)
	response.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "ok")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	client.CloseIdleConnections()
}
