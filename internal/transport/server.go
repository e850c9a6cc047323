package transport

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quorumkv/internal/replica"
)

// ReplicaServer exposes one replica's internal operations over HTTP so a
// remote coordinator can include it in its replica set.
type ReplicaServer struct {
	rep replica.Replica
}

// NewReplicaServer wraps a replica for serving.
func NewReplicaServer(rep replica.Replica) *ReplicaServer {
	return &ReplicaServer{rep: rep}
}

// Handler returns the internal routes.
func (s *ReplicaServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/internal/write", s.handleWrite)
	r.Get("/internal/read/{key}", s.handleRead)
	r.Get("/internal/version/{key}", s.handleVersion)

	return r
}

func (s *ReplicaServer) handleWrite(w http.ResponseWriter, r *http.Request) {
	var req writeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Key == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "key cannot be empty"})
		return
	}

	accepted, err := s.rep.Write(r.Context(), req.Key, req.Value, req.Version)
	if err != nil {
		s.replicaError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, writeResponse{Accepted: accepted})
}

func (s *ReplicaServer) handleRead(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	vv, err := s.rep.Read(r.Context(), key)
	if err != nil {
		s.replicaError(w, err)
		return
	}
	if vv == nil {
		writeJSON(w, http.StatusOK, readResponse{Found: false})
		return
	}

	writeJSON(w, http.StatusOK, readResponse{
		Found:   true,
		Value:   vv.Value,
		Version: vv.Version,
	})
}

func (s *ReplicaServer) handleVersion(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	version, err := s.rep.Version(r.Context(), key)
	if err != nil {
		s.replicaError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, versionResponse{Version: version})
}

func (s *ReplicaServer) replicaError(w http.ResponseWriter, err error) {
	if errors.Is(err, replica.ErrUnavailable) {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[transport] failed to encode response: %v", err)
	}
}
