package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gonum.org/v1/plot"

	"github.com/coolbeans/lebdash/pkg/chart"
	"github.com/coolbeans/lebdash/pkg/debt"
)

// Chart names served under /chart/{name}.{format}.
const (
	ChartInfrastructure = "infrastructure"
	ChartDebt           = "debt"
	ChartZeroInitiative = "zero-initiative"
)

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 5 * time.Second

// Server exposes a Dashboard over HTTP.
type Server struct {
	dashboard *Dashboard
	renderer  *chart.Renderer
	logger    *zap.Logger
	router    *mux.Router
}

// NewServer creates the HTTP surface for dashboard.
func NewServer(dashboard *Dashboard, renderer *chart.Renderer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	server := &Server{
		dashboard: dashboard,
		renderer:  renderer,
		logger:    logger,
		router:    mux.NewRouter(),
	}
	server.routes()
	return server
}

func (server *Server) routes() {
	server.router.Use(requestLogger(server.logger))

	server.router.HandleFunc("/", server.handlePage).Methods(http.MethodGet)
	server.router.HandleFunc("/healthz", server.handleHealth).Methods(http.MethodGet)
	server.router.HandleFunc("/api/view", server.handleView).Methods(http.MethodGet)
	server.router.HandleFunc("/api/infrastructure", server.handleInfrastructure).Methods(http.MethodGet)
	server.router.HandleFunc("/api/zero-initiative", server.handleZeroInitiative).Methods(http.MethodGet)
	server.router.HandleFunc("/api/debt", server.handleDebt).Methods(http.MethodGet)
	server.router.HandleFunc("/chart/{name:[a-z-]+}.{format:png|svg}", server.handleChart).Methods(http.MethodGet)
	server.router.HandleFunc("/export.xlsx", server.handleExport).Methods(http.MethodGet)
}

// Handler returns the routed handler.
func (server *Server) Handler() http.Handler {
	return server.router
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (server *Server) ListenAndServe(ctx context.Context, addr string, readHeaderTimeout time.Duration) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return server.Serve(ctx, listener, readHeaderTimeout)
}

// Serve serves on listener until ctx is cancelled, then shuts down
// gracefully.
func (server *Server) Serve(ctx context.Context, listener net.Listener, readHeaderTimeout time.Duration) error {
	httpServer := &http.Server{
		Handler:           server.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Serve(listener)
	}()
	server.logger.Info("dashboard listening", zap.String("addr", listener.Addr().String()))

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		<-errChan
		server.logger.Info("dashboard stopped")
		return nil
	}
}

func (server *Server) stateFrom(responseWriter http.ResponseWriter, request *http.Request) (State, bool) {
	state, err := ParseState(request.URL.Query())
	if err != nil {
		http.Error(responseWriter, err.Error(), http.StatusBadRequest)
		return State{}, false
	}
	return state, true
}

func (server *Server) handleHealth(responseWriter http.ResponseWriter, request *http.Request) {
	writeJSON(responseWriter, http.StatusOK, map[string]string{"status": "ok"})
}

func (server *Server) handlePage(responseWriter http.ResponseWriter, request *http.Request) {
	state, ok := server.stateFrom(responseWriter, request)
	if !ok {
		return
	}
	view := server.dashboard.Render(request.Context(), state)

	responseWriter.Header().Set("Content-Type", "text/html; charset=utf-8")
	responseWriter.Write([]byte(RenderPage(view)))
}

func (server *Server) handleView(responseWriter http.ResponseWriter, request *http.Request) {
	state, ok := server.stateFrom(responseWriter, request)
	if !ok {
		return
	}
	writeJSON(responseWriter, http.StatusOK, server.dashboard.Render(request.Context(), state))
}

func (server *Server) handleInfrastructure(responseWriter http.ResponseWriter, request *http.Request) {
	state, ok := server.stateFrom(responseWriter, request)
	if !ok {
		return
	}
	state.ShowZeroInitiative = false
	section := server.dashboard.RenderInfrastructure(request.Context(), state)
	writeJSON(responseWriter, sectionStatus(section.Error), section)
}

func (server *Server) handleZeroInitiative(responseWriter http.ResponseWriter, request *http.Request) {
	state, ok := server.stateFrom(responseWriter, request)
	if !ok {
		return
	}
	state.ShowZeroInitiative = true
	section := server.dashboard.RenderInfrastructure(request.Context(), state)
	if section.Error != "" {
		writeJSON(responseWriter, http.StatusBadGateway, map[string]string{"error": section.Error})
		return
	}
	writeJSON(responseWriter, http.StatusOK, section.ZeroMap)
}

func (server *Server) handleDebt(responseWriter http.ResponseWriter, request *http.Request) {
	state, ok := server.stateFrom(responseWriter, request)
	if !ok {
		return
	}
	section := server.dashboard.RenderDebt(request.Context(), state)

	response := struct {
		DebtSection
		Steps []debt.RevealStep `json:"steps"`
	}{
		DebtSection: section,
		Steps:       debt.RevealSteps(section.Series.Points),
	}
	writeJSON(responseWriter, sectionStatus(section.Error), response)
}

func (server *Server) handleChart(responseWriter http.ResponseWriter, request *http.Request) {
	state, ok := server.stateFrom(responseWriter, request)
	if !ok {
		return
	}
	vars := mux.Vars(request)

	format, err := chart.ParseFormat(vars["format"])
	if err != nil {
		http.Error(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	chartName := vars["name"]
	view, err := server.dashboard.ChartView(request.Context(), chartName, state)
	if errors.Is(err, ErrUnknownChart) {
		http.NotFound(responseWriter, request)
		return
	}

	chartPlot, sectionError, err := BuildChart(chartName, view)
	switch {
	case sectionError != "":
		http.Error(responseWriter, sectionError, http.StatusBadGateway)
		return
	case err != nil:
		http.Error(responseWriter, err.Error(), http.StatusInternalServerError)
		return
	}

	var buffer bytes.Buffer
	if err := server.renderer.Render(&buffer, chartPlot, format); err != nil {
		server.logger.Error("chart render failed", zap.String("chart", chartName), zap.Error(err))
		http.Error(responseWriter, err.Error(), http.StatusInternalServerError)
		return
	}

	responseWriter.Header().Set("Content-Type", format.ContentType())
	responseWriter.Header().Set("Cache-Control", "no-store")
	responseWriter.Write(buffer.Bytes())
}

// ErrUnknownChart is returned by BuildChart for an unrecognized name.
var ErrUnknownChart = errors.New("unknown chart")

// BuildChart returns the plot for a named chart, or the failed section's
// error message.
func BuildChart(chartName string, view View) (*plot.Plot, string, error) {
	switch chartName {
	case ChartInfrastructure:
		if view.Infrastructure.Error != "" {
			return nil, view.Infrastructure.Error, nil
		}
		chartPlot, err := chart.InfrastructureBar(view.Infrastructure.Aggregation)
		return chartPlot, "", err
	case ChartZeroInitiative:
		if view.Infrastructure.Error != "" {
			return nil, view.Infrastructure.Error, nil
		}
		if view.Infrastructure.ZeroMap == nil {
			return nil, "", errors.New("zero-initiative map was not computed")
		}
		chartPlot, err := chart.ZeroInitiativeMap(*view.Infrastructure.ZeroMap)
		return chartPlot, "", err
	case ChartDebt:
		if view.Debt.Error != "" {
			return nil, view.Debt.Error, nil
		}
		chartPlot, err := chart.DebtLine(view.Debt.Visible)
		return chartPlot, "", err
	default:
		return nil, "", ErrUnknownChart
	}
}

func (server *Server) handleExport(responseWriter http.ResponseWriter, request *http.Request) {
	state, ok := server.stateFrom(responseWriter, request)
	if !ok {
		return
	}

	workbook, _, err := server.dashboard.Workbook(request.Context(), state)
	if err != nil {
		http.Error(responseWriter, err.Error(), http.StatusBadGateway)
		return
	}

	var buffer bytes.Buffer
	if err := workbook.Write(&buffer); err != nil {
		server.logger.Error("export failed", zap.Error(err))
		http.Error(responseWriter, err.Error(), http.StatusInternalServerError)
		return
	}

	responseWriter.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	responseWriter.Header().Set("Content-Disposition", `attachment; filename="lebdash.xlsx"`)
	responseWriter.Write(buffer.Bytes())
}

func sectionStatus(sectionError string) int {
	if sectionError != "" {
		return http.StatusBadGateway
	}
	return http.StatusOK
}

func writeJSON(responseWriter http.ResponseWriter, status int, value interface{}) {
	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(status)
	encoder := json.NewEncoder(responseWriter)
	encoder.SetIndent("", "  ")
	encoder.Encode(value)
}
