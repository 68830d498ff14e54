// Package server exposes the market view over HTTP and a WebSocket stream.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"StockLens/internal/chart"
	"StockLens/internal/collector"
	"StockLens/internal/insight"
	"StockLens/internal/metrics"
	"StockLens/internal/model"
	"StockLens/internal/store"

	"github.com/gorilla/mux"
)

// Server wires the HTTP handlers to the store and its collaborators.
type Server struct {
	Store     *store.Store
	Collector *collector.Collector
	Insighter insight.Insighter
	Geometry  chart.Geometry
	Symbols   []string // overrides the fetcher's own list when set
	Metrics   *metrics.Metrics
	Hub       *Hub
}

// New creates a Server. The store is taken from col.
func New(col *collector.Collector, ins insight.Insighter, g chart.Geometry, symbols []string, m *metrics.Metrics) *Server {
	return &Server{
		Store:     col.Store,
		Collector: col,
		Insighter: ins,
		Geometry:  g,
		Symbols:   symbols,
		Metrics:   m,
		Hub:       NewHub(col.Store, m),
	}
}

// Router registers all routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.health).Methods(http.MethodGet)
	api.HandleFunc("/symbols", s.listSymbols).Methods(http.MethodGet)
	api.HandleFunc("/symbols/{symbol}", s.loadSymbol).Methods(http.MethodPost)
	api.HandleFunc("/state", s.state).Methods(http.MethodGet)
	api.HandleFunc("/state", s.reset).Methods(http.MethodDelete)
	api.HandleFunc("/period/{period}", s.setPeriod).Methods(http.MethodPut)
	api.HandleFunc("/indicators/{key}/toggle", s.toggle).Methods(http.MethodPost)
	api.HandleFunc("/chart", s.chart).Methods(http.MethodGet)
	api.HandleFunc("/insights", s.insights).Methods(http.MethodGet)
	api.Use(corsMiddleware)

	r.HandleFunc("/ws", s.Hub.ServeWS)
	r.Handle("/metrics", s.Metrics.Handler())
	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"source":  s.Collector.Fetcher.Name(),
		"version": s.Store.Snapshot().Version,
	})
}

func (s *Server) listSymbols(w http.ResponseWriter, r *http.Request) {
	if len(s.Symbols) > 0 {
		respondJSON(w, http.StatusOK, s.Symbols)
		return
	}
	symbols, err := collector.ListSymbols(r.Context(), s.Collector.Fetcher)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, symbols)
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.Store.Snapshot())
}

// loadStatus maps a load outcome to a status code. The body is the state
// either way so the client sees the user-facing error message.
func loadStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, collector.ErrEmptySymbol):
		return http.StatusBadRequest
	case errors.Is(err, collector.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, collector.ErrStale):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) loadSymbol(w http.ResponseWriter, r *http.Request) {
	err := s.Collector.Load(r.Context(), mux.Vars(r)["symbol"])
	respondJSON(w, loadStatus(err), s.Store.Snapshot())
}

func (s *Server) setPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := model.ParsePeriod(mux.Vars(r)["period"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = s.Collector.ChangePeriod(r.Context(), period)
	respondJSON(w, loadStatus(err), s.Store.Snapshot())
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request) {
	key, err := model.ParseIndicatorKey(mux.Vars(r)["key"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.Store.ToggleIndicator(key); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, s.Store.Snapshot())
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	s.Collector.Reset()
	respondJSON(w, http.StatusOK, s.Store.Snapshot())
}

func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	snap := s.Store.Snapshot()
	respondJSON(w, http.StatusOK, s.Geometry.Build(snap.Prices, snap.Indicators, snap.Settings))
}

func (s *Server) insights(w http.ResponseWriter, r *http.Request) {
	snap := s.Store.Snapshot()
	if !snap.HasSymbol() || len(snap.Prices) == 0 {
		respondError(w, http.StatusConflict, "no symbol loaded")
		return
	}
	in := insight.Load(r.Context(), s.Insighter, snap.Symbol, snap.Prices)
	if in.Error != "" && s.Metrics != nil {
		s.Metrics.InsightErrors.Inc()
	}
	respondJSON(w, http.StatusOK, in)
}
