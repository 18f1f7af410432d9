package registration

import (
	"github.com/akeren/college-forms/config/router"
	"github.com/akeren/college-forms/internal/log"
	"github.com/akeren/college-forms/internal/storage"
)

type RegistrationServiceFactory interface {
	CreateService() RegistrationService
	CreateController() *router.RESTController
}

type DefaultRegistrationServiceFactory struct {
	store  *storage.Store
	logger *log.Logger
}

func NewRegistrationServiceFactory(store *storage.Store, logger *log.Logger) RegistrationServiceFactory {
	return &DefaultRegistrationServiceFactory{
		store:  store,
		logger: logger,
	}
}

func (f *DefaultRegistrationServiceFactory) CreateService() RegistrationService {
	repository := NewRegistrationRepository(f.store)
	return NewRegistrationService(f.logger, repository)
}

func (f *DefaultRegistrationServiceFactory) CreateController() *router.RESTController {
	return NewRegistrationController(f.CreateService())
}
