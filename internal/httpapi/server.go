// Package httpapi exposes the Engine over HTTP: PUT/GET/DELETE by key, with
// JSON-encoded Value request and response bodies, plus a list endpoint that
// returns a JSON array of keys.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/maxmielchen/variadb/internal/value"
	apperrors "github.com/maxmielchen/variadb/pkg/errors"
)

// Engine is the subset of internal/engine.Engine the HTTP layer depends on.
// Declared here, rather than imported as a concrete type, so handlers can be
// tested against a fake without spinning up a real disk log.
type Engine interface {
	Put(ctx context.Context, key string, v value.Value) (*value.Value, error)
	Get(ctx context.Context, key string) (*value.Value, error)
	Del(ctx context.Context, key string) (*value.Value, error)
	List(ctx context.Context) ([]string, error)
}

// Server wires an Engine into a *http.ServeMux with CORS applied to every
// route.
type Server struct {
	engine Engine
	log    *zap.SugaredLogger
	cors   *corsPolicy
	mux    *http.ServeMux
}

// NewServer builds a ready-to-serve Server. allowedOrigins follows the same
// rules as CORS_ALLOWED_ORIGINS: a literal "*" allows any origin.
func NewServer(engine Engine, logger *zap.SugaredLogger, allowedOrigins []string) *Server {
	s := &Server{
		engine: engine,
		log:    logger,
		cors:   newCORSPolicy(allowedOrigins),
		mux:    http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP makes Server usable directly with http.ListenAndServe.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.cors.wrap(s.mux).ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("PUT /put/{key}", s.handlePut)
	s.mux.HandleFunc("GET /get/{key}", s.handleGet)
	s.mux.HandleFunc("GET /list", s.handleList)
	s.mux.HandleFunc("DELETE /del/{key}", s.handleDel)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var v value.Value
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeError(w, apperrors.NewValidationError(err, apperrors.ErrorCodeInvalidInput, "malformed JSON value"))
		return
	}

	prev, err := s.engine.Put(r.Context(), key, v)
	if err != nil {
		writeError(w, err)
		return
	}
	writeValue(w, prev)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	v, err := s.engine.Get(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeValue(w, v)
}

func (s *Server) handleDel(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	prev, err := s.engine.Del(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeValue(w, prev)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	keys, err := s.engine.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(keys)
}

// writeValue writes v as a JSON body, or an empty 200 response if v is nil
// (the key was absent).
func writeValue(w http.ResponseWriter, v *value.Value) {
	if v == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code via its ErrorCode and writes a small
// JSON error body.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetErrorCode(err)
	status := statusForCode(code)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
		"code":  string(code),
	})
}

// statusForCode centralizes the ErrorCode -> HTTP status mapping so every
// handler maps errors identically.
func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrorCodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.ErrorCodeNotFound:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
