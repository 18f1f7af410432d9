package contact

import (
	"github.com/akeren/college-forms/config/router"
	"github.com/akeren/college-forms/internal/log"
	"github.com/akeren/college-forms/internal/storage"
)

type ContactServiceFactory interface {
	CreateService() ContactService
	CreateController() *router.RESTController
}

type DefaultContactServiceFactory struct {
	store  *storage.Store
	logger *log.Logger
}

func NewContactServiceFactory(store *storage.Store, logger *log.Logger) ContactServiceFactory {
	return &DefaultContactServiceFactory{
		store:  store,
		logger: logger,
	}
}

func (f *DefaultContactServiceFactory) CreateService() ContactService {
	repository := NewContactRepository(f.store)
	return NewContactService(f.logger, repository)
}

func (f *DefaultContactServiceFactory) CreateController() *router.RESTController {
	return NewContactController(f.CreateService())
}
