package providers

import (
	"github.com/samber/do/v2"

	"github.com/folioapp/folio-server/internal/auth"
	"github.com/folioapp/folio-server/internal/config"
	"github.com/folioapp/folio-server/internal/logger"
	"github.com/folioapp/folio-server/internal/service"
	"github.com/folioapp/folio-server/internal/storage"
	"github.com/folioapp/folio-server/internal/validation"
)

// ProvideEssayService provides the essay service.
func ProvideEssayService(i do.Injector) (*service.EssayService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewEssayService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, validator, cfg.Auth.SignupEnabled, log.Logger), nil
}

// ProvideFileService provides the upload and signed link service.
func ProvideFileService(i do.Injector) (*service.FileService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	fileStorage := do.MustInvoke[*storage.Store](i)
	signer := do.MustInvoke[*storage.Signer](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFileService(fileStorage, signer, cfg.Storage.UploadURLTTL, cfg.Storage.DownloadURLTTL, log.Logger), nil
}

// ProvideEngagementService provides the newsletter and contact service.
func ProvideEngagementService(i do.Injector) (*service.EngagementService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewEngagementService(storeHandle.Store, validator, log.Logger), nil
}
