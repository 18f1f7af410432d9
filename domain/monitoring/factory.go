package monitoring

import (
	"github.com/akeren/college-forms/config/router"
	"github.com/akeren/college-forms/internal/log"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	store  StoreProbe
	logger *log.Logger
}

func NewMonitoringControllerFactory(store StoreProbe, logger *log.Logger) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		store:  store,
		logger: logger,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.store, f.logger)
}
