package api

import (
	"net/http"

	"github.com/folioapp/folio-server/internal/http/response"
	"github.com/folioapp/folio-server/internal/service"
)

// handleSubscribe records a newsletter signup.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req service.SubscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.engagementService.Subscribe(r.Context(), req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.OK(w, s.logger)
}

// handleContact records a contact form submission.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req service.ContactRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.engagementService.Contact(r.Context(), req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.OK(w, s.logger)
}
