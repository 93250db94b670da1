// Package health serves liveness, readiness and metrics endpoints for
// the long-running daemon.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// DatabasePinger checks database connectivity for the readiness endpoint.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// CheckFunc verifies one dependency; a nil error means healthy.
type CheckFunc func(ctx context.Context) error

const checkTimeout = 3 * time.Second

// Server exposes /health, /live, /ready and the metrics endpoint on a
// single port. Readiness aggregates registered dependency checks plus
// an operator-controlled ready flag.
type Server struct {
	service     string
	version     string
	commit      string
	port        string
	metricsPath string
	logger      *logrus.Logger
	server      *http.Server

	mu     sync.RWMutex
	ready  bool
	checks map[string]CheckFunc
}

// Config holds the configuration for the health server.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Port        string
	MetricsPath string
	Logger      *logrus.Logger
	DB          DatabasePinger
}

// NewServer creates a health server. A configured database is
// registered as a readiness check automatically.
func NewServer(cfg Config) *Server {
	port := cfg.Port
	if port == "" {
		port = os.Getenv("HEALTH_PORT")
	}
	if port == "" {
		port = "8080"
	}
	metricsPath := cfg.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	s := &Server{
		service:     cfg.ServiceName,
		version:     cfg.Version,
		commit:      cfg.Commit,
		port:        port,
		metricsPath: metricsPath,
		logger:      cfg.Logger,
		checks:      make(map[string]CheckFunc),
	}
	if cfg.DB != nil {
		s.RegisterCheck("database", cfg.DB.Ping)
	}
	return s
}

// RegisterCheck adds a named readiness check. Not safe to call after
// Start.
func (s *Server) RegisterCheck(name string, check CheckFunc) {
	s.checks[name] = check
}

// SetReady flips the operator-controlled readiness flag.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	s.ready = ready
	s.mu.Unlock()
}

// IsReady reports the operator-controlled readiness flag.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start serves in the background until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/live", s.handleLive)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle(s.metricsPath, promhttp.Handler())

	s.server = &http.Server{
		Addr:         ":" + s.port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.log().WithFields(logrus.Fields{
			"port":    s.port,
			"service": s.service,
		}).Info("Health server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log().WithError(err).Error("Health server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	s.log().Info("Health server stopping")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"service":   s.service,
		"version":   s.version,
		"commit":    s.commit,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": s.service,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	results, healthy := s.runChecks(r.Context())

	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	s.writeJSON(w, code, map[string]any{
		"status":   status,
		"service":  s.service,
		"checks":   results,
		"duration": time.Since(started).String(),
	})
}

// runChecks evaluates the ready flag and every registered check.
func (s *Server) runChecks(ctx context.Context) (map[string]string, bool) {
	results := make(map[string]string, len(s.checks)+1)
	healthy := s.IsReady()
	if healthy {
		results["service"] = "ok"
	} else {
		results["service"] = "not_ready"
	}

	for name, check := range s.checks {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := check(checkCtx)
		cancel()
		if err != nil {
			healthy = false
			results[name] = fmt.Sprintf("error: %v", err)
			continue
		}
		results[name] = "ok"
	}
	return results, healthy
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().WithError(err).Warn("Failed to encode health response")
	}
}

// log returns a usable logger even when none was configured.
func (s *Server) log() *logrus.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logrus.StandardLogger()
}
