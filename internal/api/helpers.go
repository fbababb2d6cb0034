package api

import (
	"encoding/json/v2"
	"io"
	"net/http"

	domainerrors "github.com/folioapp/folio-server/internal/errors"
)

// maxBodySize caps JSON request bodies. Uploads have their own,
// larger limit.
const maxBodySize = 1 << 20 // 1 MiB

// decodeJSON reads and decodes a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodySize)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return domainerrors.Validation("request body too large or unreadable").WithCause(err)
	}
	if len(data) == 0 {
		return domainerrors.Validation("request body is required")
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return domainerrors.Validation("invalid JSON body").WithCause(err)
	}

	return nil
}
