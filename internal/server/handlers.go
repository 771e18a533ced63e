package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/groomlane/concierge/internal/knowledge"
	"github.com/groomlane/concierge/internal/support"
	"go.uber.org/zap"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Text string `json:"text"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ans, err := s.answerer.Answer(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, support.ErrEmptyQuestion) {
			s.respondError(w, http.StatusBadRequest, "message is required")
			return
		}
		// The pipeline handles its own failures with a fallback answer;
		// anything else is a programming error.
		s.logger.Error("answer failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.respondJSON(w, http.StatusOK, chatResponse{Text: ans.Text})
}

type addKnowledgeRequest struct {
	ID       string `json:"id,omitempty"`
	Content  string `json:"content"`
	Category string `json:"category,omitempty"`
	Source   string `json:"source,omitempty"`
}

func (s *Server) handleAddKnowledge(w http.ResponseWriter, r *http.Request) {
	var req addKnowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		s.respondError(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	chunk := knowledge.Chunk{
		ID:       req.ID,
		Content:  req.Content,
		Category: req.Category,
		Source:   req.Source,
	}

	opts := knowledge.DefaultIndexOptions()
	opts.ForceReindex = true // admin updates replace existing content

	if err := knowledge.IndexChunks(r.Context(), []knowledge.Chunk{chunk}, s.embedder, s.store, opts); err != nil {
		s.logger.Error("indexing failed", zap.Error(err), zap.String("id", req.ID))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]string{"id": req.ID, "status": "indexed"})
}

func (s *Server) handleDeleteKnowledge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete chunk request", zap.String("id", id))
	if err := s.store.Delete(r.Context(), []string{id}); err != nil {
		s.logger.Error("deletion failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count(r.Context())
	if err != nil {
		s.logger.Error("status: count chunks failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"chunks":          count,
		"embedding_model": s.embedder.GetModel(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
