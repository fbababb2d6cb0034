package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/folioapp/folio-server/internal/http/response"
)

// handleEbookDownload returns a short-lived signed link to the latest
// uploaded ebook.
func (s *Server) handleEbookDownload(w http.ResponseWriter, r *http.Request) {
	link, err := s.fileService.EbookDownloadURL(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{"url": link}, s.logger)
}

// handleServeFile serves a stored file after verifying the link's
// signature and expiry.
func (s *Server) handleServeFile(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	name := chi.URLParam(r, "name")
	q := r.URL.Query()

	f, err := s.fileService.OpenVerified(bucket, name, q.Get("exp"), q.Get("sig"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	defer f.Close()

	// ServeContent handles range requests and content type sniffing.
	http.ServeContent(w, r, name, time.Time{}, f)
}
