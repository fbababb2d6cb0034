package providers

import (
	"github.com/samber/do/v2"

	"github.com/folioapp/folio-server/internal/config"
	"github.com/folioapp/folio-server/internal/logger"
	"github.com/folioapp/folio-server/internal/storage"
)

// fileURLBasePath is where the signed-file endpoint is mounted.
const fileURLBasePath = "/api/v1/files"

// ProvideFileStorage provides the uploaded file store.
func ProvideFileStorage(i do.Injector) (*storage.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	st, err := storage.New(cfg.Storage.BasePath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("File storage initialized", "path", cfg.Storage.BasePath)
	return st, nil
}

// ProvideSigner provides the signed URL signer. Signed links are keyed
// off the same secret as access tokens, so rotating the auth key also
// invalidates outstanding file links.
func ProvideSigner(i do.Injector) (*storage.Signer, error) {
	authKey := do.MustInvoke[AuthKey](i)
	return storage.NewSigner([]byte(authKey), fileURLBasePath)
}
