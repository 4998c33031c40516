// Package server exposes the calculation engines over a JSON HTTP API.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mbeaufils/patrimoine/internal/cache"
	"github.com/mbeaufils/patrimoine/internal/config"
	"github.com/mbeaufils/patrimoine/pkg/constants"
	"github.com/mbeaufils/patrimoine/pkg/loan"
	"github.com/mbeaufils/patrimoine/pkg/rental"
	"go.uber.org/zap"
)

type handler struct {
	logger   *zap.Logger
	cache    cache.Cache
	defaults config.Defaults
	version  string
	maxBody  int64

	loans   *loan.Engine
	rentals *rental.Engine
}

// NewHandler constructs the HTTP handler that serves the calculation API.
func NewHandler(logger *zap.Logger, responseCache cache.Cache, defaults config.Defaults, version string, maxBody int64) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if responseCache == nil {
		responseCache = cache.Disabled{}
	}
	if maxBody <= 0 {
		maxBody = constants.DefaultMaxBodyBytes
	}
	if version == "" {
		version = "dev"
	}

	h := &handler{
		logger:   logger,
		cache:    responseCache,
		defaults: defaults,
		version:  version,
		maxBody:  maxBody,
		loans:    loan.NewEngine(logger),
		rentals:  rental.NewEngine(logger),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/loan/schedule", h.handleLoanSchedule)
	mux.HandleFunc("/api/debt/capacity", h.handleDebtCapacity)
	mux.HandleFunc("/api/savings/projection", h.handleSavingsProjection)
	mux.HandleFunc("/api/rental/projection", h.handleRentalProjection)
	mux.HandleFunc("/api/rate/solve", h.handleRateSolve)
	mux.HandleFunc("/api/rate/irr", h.handleIRR)
	mux.HandleFunc("/api/payroll/net", h.handlePayrollNet)
	mux.HandleFunc("/api/vat", h.handleVAT)
	mux.HandleFunc("/api/defaults", h.handleDefaults)
	mux.HandleFunc("/api/version", h.handleVersion)
	mux.HandleFunc("/api/health", h.handleHealth)

	return h.withRequestID(mux)
}

// withRequestID tags every request with a UUID, echoes it in the response
// headers and logs the request outcome.
func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)

		h.logger.Debug("request served",
			zap.String("op", "server.withRequestID"),
			zap.String("requestId", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: message}); err != nil {
		h.logger.Warn("failed to encode error response",
			zap.String("op", "server.respondError"),
			zap.Error(err),
		)
	}
}

func (h *handler) respondJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Warn("failed to encode response",
			zap.String("op", "server.respondJSON"),
			zap.Error(err),
		)
	}
}

// decodeBody reads and decodes a JSON request body into dst, returning the
// raw bytes for cache keying.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	raw, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	return raw, nil
}

func (h *handler) requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		h.respondError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		return false
	}
	return true
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		return
	}
	h.respondJSON(w, map[string]string{"version": h.version})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		return
	}
	h.respondJSON(w, map[string]string{"status": "ok"})
}

func (h *handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		return
	}
	h.respondJSON(w, map[string]interface{}{
		"targetRatio":   h.defaults.TargetRatio,
		"rentRetention": h.defaults.RentRetention,
		"tmi":           h.defaults.TMI,
		"ps":            h.defaults.PS,
		"loan": map[string]interface{}{
			"principal":  h.defaults.Loan.Principal,
			"annualRate": h.defaults.Loan.AnnualRate,
			"years":      h.defaults.Loan.Years,
		},
	})
}
