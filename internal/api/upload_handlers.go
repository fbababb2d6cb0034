package api

import (
	"net/http"

	"github.com/folioapp/folio-server/internal/http/response"
)

// handleUpload accepts a multipart form with a "file" part and a
// "type" field (essay, thumbnail, or ebook) and returns a signed URL
// for the stored file.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)

	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		response.BadRequest(w, "invalid multipart form or file too large", s.logger)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "missing file field", s.logger)
		return
	}
	defer file.Close()

	fileType := r.FormValue("type")

	principal, _ := principalFrom(r.Context())
	s.logger.Debug("upload received", "user_id", principal.UserID, "type", fileType, "filename", header.Filename)

	result, err := s.fileService.Upload(r.Context(), fileType, header.Filename, file)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, result, s.logger)
}
