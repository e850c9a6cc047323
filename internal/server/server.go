package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"quorumkv/internal/coordinator"
)

// Server is the client-facing HTTP API over a coordinator.
type Server struct {
	coord *coordinator.Coordinator
}

// New creates a server for the given coordinator.
func New(coord *coordinator.Coordinator) *Server {
	return &Server{coord: coord}
}

// Handler wires the routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)

	r.Get("/health", s.handleHealth)
	r.Put("/kv/{key}", s.handlePut)
	r.Get("/kv/{key}", s.handleGet)
	r.Post("/admin/nodes/{index}/fail", s.handleFail)
	r.Post("/admin/nodes/{index}/recover", s.handleRecover)
	r.Get("/admin/nodes/{index}/version", s.handleNodeVersion)

	return r
}

// requestID tags each request with an ID for correlating log lines.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"quorum": s.coord.Config().String(),
	})
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	value, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read body"})
		return
	}

	if !s.coord.Write(r.Context(), key, value) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "write quorum not reached"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	value, ok := s.coord.Read(r.Context(), key)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(value); err != nil {
		log.Printf("[server] failed to write value for key %s: %v", key, err)
	}
}

func (s *Server) handleFail(w http.ResponseWriter, r *http.Request) {
	s.nodeAction(w, r, s.coord.FailNode)
}

func (s *Server) handleRecover(w http.ResponseWriter, r *http.Request) {
	s.nodeAction(w, r, s.coord.RecoverNode)
}

func (s *Server) nodeAction(w http.ResponseWriter, r *http.Request, action func(int) error) {
	index, ok := s.nodeIndex(w, r)
	if !ok {
		return
	}
	if err := action(index); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNodeVersion(w http.ResponseWriter, r *http.Request) {
	index, ok := s.nodeIndex(w, r)
	if !ok {
		return
	}
	key := r.URL.Query().Get("key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "key query parameter required"})
		return
	}

	version, err := s.coord.NodeVersion(index, key)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]uint64{"version": version})
}

func (s *Server) nodeIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid node index"})
		return 0, false
	}
	return index, true
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[server] failed to encode response: %v", err)
	}
}
