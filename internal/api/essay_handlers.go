package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/folioapp/folio-server/internal/domain"
	"github.com/folioapp/folio-server/internal/http/response"
	"github.com/folioapp/folio-server/internal/service"
)

// handleListEssays returns all essays, or only published ones when
// ?published=true is set. Listing never touches view counters.
func (s *Server) handleListEssays(w http.ResponseWriter, r *http.Request) {
	publishedOnly := r.URL.Query().Get("published") == "true"

	essays, err := s.essayService.List(r.Context(), publishedOnly)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{"essays": essays}, s.logger)
}

// handleGetEssay returns a single essay. Each successful fetch counts
// as one view.
func (s *Server) handleGetEssay(w http.ResponseWriter, r *http.Request) {
	essayID := chi.URLParam(r, "id")

	essay, err := s.essayService.Get(r.Context(), essayID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{"essay": essay}, s.logger)
}

// handleCreateEssay creates a new essay from the full payload.
func (s *Server) handleCreateEssay(w http.ResponseWriter, r *http.Request) {
	var req service.CreateEssayRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	essay, err := s.essayService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, map[string]any{"essay": essay}, s.logger)
}

// handleUpdateEssay applies a partial update. Fields missing from the
// body keep their stored values; thumbnail and file_url may be cleared
// by sending an explicit null.
func (s *Server) handleUpdateEssay(w http.ResponseWriter, r *http.Request) {
	essayID := chi.URLParam(r, "id")

	var patch domain.EssayPatch
	if err := decodeJSON(r, &patch); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	essay, err := s.essayService.Update(r.Context(), essayID, patch)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{"essay": essay}, s.logger)
}

// handleDeleteEssay removes an essay and releases any uploaded files
// it referenced. Repeat deletes succeed.
func (s *Server) handleDeleteEssay(w http.ResponseWriter, r *http.Request) {
	essayID := chi.URLParam(r, "id")

	essay, err := s.essayService.Delete(r.Context(), essayID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if essay != nil {
		s.fileService.RemoveAttachments(essay)
	}

	response.OK(w, s.logger)
}
