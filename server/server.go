// Package server exposes the command registry to a local front-end over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/d1nch8g/emcee/command"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-ID"

	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	registry *command.Registry
	log      logrus.FieldLogger
	http     *http.Server
}

type scriptRequest struct {
	Prompt string `json:"prompt"`
}

type scriptResponse struct {
	Content string `json:"content"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(addr string, registry *command.Registry, log logrus.FieldLogger) *Server {
	s := &Server{
		registry: registry,
		log:      log,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler with request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/generate-script", s.handleGenerateScript)
	mux.HandleFunc("POST /invoke/{command}", s.handleInvoke)
	mux.HandleFunc("GET /commands", s.handleCommands)
	return s.withRequestLog(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.http.Addr).Info("Listening")
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) handleGenerateScript(w http.ResponseWriter, r *http.Request) {
	var req scriptRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	args, _ := json.Marshal(command.GenerateScriptArgs{Prompt: req.Prompt})
	res := s.registry.Invoke(command.GenerateScript, args)
	if !res.OK() {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: res.Error})
		return
	}

	content, _ := res.Value.(string)
	writeJSON(w, http.StatusOK, scriptResponse{Content: content})
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("command")
	if !s.registry.Has(name) {
		writeJSON(w, http.StatusNotFound, command.Result{Error: "unknown command: " + name})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, command.Result{Error: "failed to read request body: " + err.Error()})
		return
	}

	res := s.registry.Invoke(name, body)
	if !res.OK() {
		writeJSON(w, http.StatusInternalServerError, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"commands": s.registry.Names()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start),
		}).Info("Request handled")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
