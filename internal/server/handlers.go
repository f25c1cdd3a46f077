package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/models"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, "Question is required")
		return
	}
	s.logger.Debug("chat request", zap.String("question", req.Question))
	spec, err := s.chat.Handle(r.Context(), req.Question)
	if err != nil {
		s.logger.Error("chat failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.respondJSON(w, http.StatusOK, spec)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type domainsResponse struct {
	Deployment string             `json:"deployment"`
	Default    models.DomainTag   `json:"default"`
	Tags       []models.DomainTag `json:"tags"`
}

func (s *Server) handleDomains(w http.ResponseWriter, r *http.Request) {
	g := s.chat.Gateway()
	s.respondJSON(w, http.StatusOK, domainsResponse{
		Deployment: g.Name(),
		Default:    g.DefaultTag(),
		Tags:       g.Tags(),
	})
}

type knowledgeEntry struct {
	Source string `json:"source"`
	Bytes  int    `json:"bytes"`
}

func (s *Server) handleKnowledge(w http.ResponseWriter, r *http.Request) {
	docs, err := s.chat.Corpus().Documents(r.Context())
	if err != nil {
		s.logger.Error("knowledge listing failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	entries := make([]knowledgeEntry, len(docs))
	for i, d := range docs {
		entries[i] = knowledgeEntry{Source: d.Source, Bytes: len(d.Content)}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"documents": entries})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
