// Package server exposes the council over HTTP: an SSE ask endpoint, a
// WebSocket variant of the same stream, the model catalog, and the round
// history.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/leandrotocalini/quorum/internal/catalog"
	"github.com/leandrotocalini/quorum/internal/council"
	"github.com/leandrotocalini/quorum/internal/history"
	"github.com/leandrotocalini/quorum/internal/stream"
)

// apiKeyHeader carries a caller-supplied (BYOK) OpenRouter key.
const apiKeyHeader = "X-Api-Key"

// RoundRunner runs one round against an event sink. Satisfied by
// council.Coordinator.
type RoundRunner interface {
	Run(ctx context.Context, req council.Request, sink council.EventSink) (*council.AggregateResult, error)
}

// Server is the HTTP front of quorumd.
type Server struct {
	runner   RoundRunner
	registry *catalog.Registry
	store    *history.Store // nil disables history endpoints and archiving
	logger   *slog.Logger
	started  time.Time
	upgrader websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithHistory enables round archiving and the history endpoints.
func WithHistory(s *history.Store) Option {
	return func(srv *Server) {
		srv.store = s
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) {
		srv.logger = l
	}
}

// New creates a Server.
func New(runner RoundRunner, registry *catalog.Registry, opts ...Option) *Server {
	s := &Server{
		runner:   runner,
		registry: registry,
		logger:   slog.Default(),
		started:  time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/ask", s.handleAsk)
	mux.HandleFunc("GET /ws/ask", s.handleAskWS)
	mux.HandleFunc("GET /api/models", s.handleModels)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/history/{id}", s.handleHistoryGet)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	return mux
}

// handleAsk runs one round and streams progress as Server-Sent Events.
// The stream carries exactly one terminal event: complete or error.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req council.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	req.APIKey = r.Header.Get(apiKeyHeader)

	sink, err := stream.NewSSEWriter(w)
	if err != nil {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	res, err := s.runner.Run(r.Context(), req, sink)
	if err != nil {
		// Terminal error event already emitted by the runner.
		return
	}
	s.archive(res)
}

// handleAskWS is the WebSocket variant: the client sends one request frame
// and receives the same event sequence as the SSE endpoint.
func (s *Server) handleAskWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	var req council.Request
	if err := conn.ReadJSON(&req); err != nil {
		s.logger.Warn("invalid websocket request frame", "error", err)
		return
	}
	req.APIKey = r.Header.Get(apiKeyHeader)

	sink := stream.NewWSSink(conn)
	res, err := s.runner.Run(r.Context(), req, sink)
	if err != nil {
		return
	}
	s.archive(res)
}

// archive persists a finished round. Failures are logged only — the client
// already has its terminal event.
func (s *Server) archive(res *council.AggregateResult) {
	if s.store == nil || res == nil {
		return
	}
	id, err := s.store.SaveRound(res)
	if err != nil {
		s.logger.Error("archiving round failed", "error", err)
		return
	}
	s.logger.Info("round archived", "round_id", id, "models", res.ModelCount, "cost_usd", res.TotalCostUSD)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.registry.List())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "history disabled", http.StatusNotFound)
		return
	}
	rounds, err := s.store.ListRounds(50)
	if err != nil {
		s.logger.Error("listing history failed", "error", err)
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, rounds)
}

func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "history disabled", http.StatusNotFound)
		return
	}
	round, err := s.store.GetRound(r.PathValue("id"))
	if err != nil {
		s.logger.Error("loading round failed", "error", err)
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	if round == nil {
		http.Error(w, "round not found", http.StatusNotFound)
		return
	}
	writeJSON(w, round)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"models":  len(s.registry.List()),
		"history": s.store != nil,
		"uptime":  time.Since(s.started).String(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client gone
}
