// Package chi exposes the analysis service over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/triage/internal/domain"
	domanalysis "github.com/kailas-cloud/triage/internal/domain/analysis"
	"github.com/kailas-cloud/triage/internal/domain/query"
	"github.com/kailas-cloud/triage/internal/logger"
	healthuc "github.com/kailas-cloud/triage/internal/usecase/health"
	usageuc "github.com/kailas-cloud/triage/internal/usecase/usage"
)

const maxBodyBytes = 64 << 10

// timeoutMessage is the body of a 504 reply.
const timeoutMessage = "Request timed out"

// Analyzer runs one analysis.
type Analyzer interface {
	Analyze(ctx context.Context, q query.Query) (domanalysis.Result, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the HTTP API.
type Server struct {
	analyzer      Analyzer
	health        *healthuc.Service
	usage         *usageuc.Service
	env           map[string]bool
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. env lists which credentials are set;
// it is served by GET /env and never carries values. health and usage may be nil.
func NewServer(
	analyzer Analyzer,
	health *healthuc.Service,
	usage *usageuc.Service,
	env map[string]bool,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if usage == nil {
		usage = usageuc.New(nil)
	}
	s := &Server{
		analyzer: analyzer,
		health:   health,
		usage:    usage,
		env:      env,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrMalformedInput, http.StatusBadRequest, codeMalformedInput, ""),
		sentinelHandler(domain.ErrOverallTimeout, http.StatusGatewayTimeout, codeTimeout, timeoutMessage),
	}
	return s
}

// Analyze handles POST /api/v1/analyze.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := query.Parse(req.Query)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.analyze(w, r, q)
}

// AnalyzeTicket handles POST /api/v1/tickets/analyze.
func (s *Server) AnalyzeTicket(w http.ResponseWriter, r *http.Request) {
	var req analyzeTicketRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := query.NewTicket(req.TicketID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.analyze(w, r, q)
}

// GetTicketAnalysis handles GET /api/v1/tickets/{ticketID}/analysis.
func (s *Server) GetTicketAnalysis(w http.ResponseWriter, r *http.Request) {
	var ticketID int64
	err := runtime.BindStyledParameterWithOptions("simple", "ticketID", chi.URLParam(r, "ticketID"), &ticketID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest,
			fmt.Sprintf("Invalid format for parameter ticketID: %s", err))
		return
	}

	q, err := query.NewTicket(ticketID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.analyze(w, r, q)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request, q query.Query) {
	ctx, usage := domain.NewContextWithUsage(r.Context())

	res, err := s.analyzer.Analyze(ctx, q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if usage.Used() {
		w.Header().Set("X-Summary-Tokens", strconv.Itoa(usage.TotalTokens()))
	}
	writeJSON(w, http.StatusOK, resultToResponse(&res))
}

// GetUsage handles GET /api/v1/usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	var raw *string
	if err := runtime.BindQueryParameter("form", true, false, "period", r.URL.Query(), &raw); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest,
			fmt.Sprintf("Invalid format for parameter period: %s", err))
		return
	}
	var periodParam string
	if raw != nil {
		periodParam = *raw
	}

	period, err := usageuc.ParsePeriod(periodParam)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	report := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, usageResponse{
		Period:        string(report.Period),
		PeriodStartAt: report.Start,
		PeriodEndAt:   report.End,
		Tokens:        report.Tokens,
		Budget: budgetStatus{
			TokensLimit:     report.Limit,
			TokensRemaining: report.Remaining,
			IsExhausted:     report.Exhausted,
			ResetsAt:        report.ResetsAt,
		},
	})
}

// Liveness handles GET /health.
func (s *Server) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: string(healthuc.Healthy)})
}

// Readiness handles GET /ready.
func (s *Server) Readiness(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, healthResponse{Status: string(healthuc.Healthy)})
		return
	}
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

// Env handles GET /env.
func (s *Server) Env(w http.ResponseWriter, _ *http.Request) {
	out := make(map[string]bool, len(s.env))
	for k, v := range s.env {
		out[k] = v
	}
	writeJSON(w, http.StatusOK, out)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// An empty message exposes the error text, which only carries input details.
func sentinelHandler(sentinel error, status int, code, message string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := message
		if msg == "" {
			msg = err.Error()
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context(), s.logger)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}
