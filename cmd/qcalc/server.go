package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"qcalc/app/lang"
)

const maxRequestBytes = 64 << 10

// Server answers evaluation requests against a shared read-only registry.
type Server struct {
	addr    string
	base    *lang.Registry
	mux     *http.ServeMux
	logger  zerolog.Logger
	metrics *Metrics
}

// NewServer creates a server evaluating against base. base must not be
// modified while the server runs; request definitions go to a clone.
func NewServer(addr string, base *lang.Registry, logger zerolog.Logger) *Server {
	s := &Server{
		addr:    addr,
		base:    base,
		mux:     http.NewServeMux(),
		logger:  logger,
		metrics: NewMetrics(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /v1/eval", s.handleEval)
	s.mux.HandleFunc("GET /v1/units", s.handleUnits)
	s.mux.HandleFunc("GET /internal/metrics", s.handleMetrics)
}

// EvalRequest is the body of POST /v1/eval.
type EvalRequest struct {
	Expr        string   `json:"expr"`
	Definitions []string `json:"definitions,omitempty"`
}

// EvalResponse is a successful evaluation. Magnitude is omitted when the
// value is not finite.
type EvalResponse struct {
	Input     string   `json:"input"`
	Expanded  string   `json:"expanded"`
	Result    string   `json:"result"`
	Magnitude *float64 `json:"magnitude,omitempty"`
	Dimension string   `json:"dimension"`
}

// ErrorResponse reports a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// UnitInfo describes one unit in GET /v1/units.
type UnitInfo struct {
	Name      string   `json:"name"`
	Symbol    string   `json:"symbol,omitempty"`
	Aliases   []string `json:"aliases,omitempty"`
	Kind      string   `json:"kind"`
	Value     string   `json:"value"`
	Dimension string   `json:"dimension"`
}

// PrefixInfo describes one prefix in GET /v1/units.
type PrefixInfo struct {
	Name    string   `json:"name"`
	Symbol  string   `json:"symbol,omitempty"`
	Aliases []string `json:"aliases,omitempty"`
	Scale   float64  `json:"scale"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func (s *Server) handleEval(w http.ResponseWriter, r *http.Request) {
	var req EvalRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.metrics.RecordFailure("BadRequest")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	reg := s.base
	if len(req.Definitions) > 0 {
		reg = s.base.Clone()
		for _, def := range req.Definitions {
			if err := s.define(reg, def); err != nil {
				s.fail(w, fmt.Errorf("definition %q: %w", def, err))
				return
			}
		}
		s.metrics.RecordDefinitions(len(req.Definitions))
	}

	node, err := lang.ParseExpr(req.Expr)
	if err != nil {
		s.fail(w, err)
		return
	}
	res, err := lang.Exec(reg, &lang.ExprStmt{Expr: node})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.metrics.RecordEvaluation()

	resp := EvalResponse{
		Input:     req.Expr,
		Expanded:  lang.Format(node),
		Result:    res.String(),
		Dimension: res.Quantity.Dim.String(),
	}
	if m := res.Quantity.Magnitude; !math.IsNaN(m) && !math.IsInf(m, 0) {
		resp.Magnitude = &m
	}
	writeJSON(w, http.StatusOK, resp)
}

// define applies one request definition to reg. Expressions are refused.
func (s *Server) define(reg *lang.Registry, src string) error {
	stmt, err := lang.ParseLine(src)
	if err != nil {
		return err
	}
	if _, ok := stmt.(*lang.ExprStmt); ok || stmt == nil {
		return &lang.EvalError{Kind: lang.SyntaxError, Msg: "expected a definition"}
	}
	_, err = lang.Exec(reg, stmt)
	return err
}

// fail reports an engine error: 400 when the input does not parse, 422
// when it parses but cannot be evaluated.
func (s *Server) fail(w http.ResponseWriter, err error) {
	kind, ok := lang.KindOf(err)
	if !ok {
		s.logger.Error().Err(err).Msg("evaluation failed")
		s.metrics.RecordFailure("Internal")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	s.metrics.RecordFailure(kind.String())
	status := http.StatusUnprocessableEntity
	if kind == lang.SyntaxError {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind.String()})
}

func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	units := s.base.Units()
	resp := struct {
		Units    []UnitInfo   `json:"units"`
		Prefixes []PrefixInfo `json:"prefixes"`
	}{
		Units:    make([]UnitInfo, 0, len(units)),
		Prefixes: []PrefixInfo{},
	}
	for _, u := range units {
		resp.Units = append(resp.Units, UnitInfo{
			Name:      u.Names.Name,
			Symbol:    u.Names.Symbol,
			Aliases:   u.Names.Aliases,
			Kind:      u.Kind.String(),
			Value:     lang.FormatQuantity(u.Value, s.base),
			Dimension: u.Value.Dim.String(),
		})
	}
	for _, p := range s.base.Prefixes() {
		resp.Prefixes = append(resp.Prefixes, PrefixInfo{
			Name:    p.Names.Name,
			Symbol:  p.Names.Symbol,
			Aliases: p.Names.Aliases,
			Scale:   p.Scale,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.loggingMiddleware(s.mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.logger.Info().Str("addr", s.addr).Int("units", len(s.base.Units())).Msg("listening")
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Dur("dur", time.Since(start)).
			Msg("request")
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
