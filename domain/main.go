package domain

import (
	"github.com/akeren/college-forms/config"
	"github.com/akeren/college-forms/domain/contact"
	"github.com/akeren/college-forms/domain/monitoring"
	"github.com/akeren/college-forms/domain/registration"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	rs := appConfig.RouterService

	// A nil *Store must reach the health check as a nil probe.
	var probe monitoring.StoreProbe
	if appConfig.Store != nil {
		probe = appConfig.Store
	}

	rs.MountController(monitoring.NewMonitoringControllerFactory(probe, appConfig.Logger).CreateController())
	rs.MountController(contact.NewContactServiceFactory(appConfig.Store, appConfig.Logger).CreateController())
	rs.MountController(registration.NewRegistrationServiceFactory(appConfig.Store, appConfig.Logger).CreateController())
}
