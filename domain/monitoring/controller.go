package monitoring

import (
	"context"
	"net/http"
	"time"

	"github.com/akeren/college-forms/config/router"
	"github.com/akeren/college-forms/internal/log"
	"github.com/akeren/college-forms/internal/storage"
)

const healthPingTimeout = 2 * time.Second

// StoreProbe is the part of storage.Store the health check reads.
type StoreProbe interface {
	State() storage.State
	Ping(ctx context.Context) error
}

type HealthStatus struct {
	Database      int    `json:"database"` // 1 = reachable, 0 = not
	DatabaseState string `json:"database_state"`
	Uptime        int    `json:"uptime"` // seconds
}

type MonitoringController struct {
	store     StoreProbe
	logger    *log.Logger
	startTime time.Time
}

func NewMonitoringController(store StoreProbe, logger *log.Logger) *router.RESTController {
	ctrl := &MonitoringController{
		store:     store,
		logger:    logger,
		startTime: time.Now(),
	}

	return router.NewRESTController(
		"MonitoringController",
		"/health",
		func(routerService *router.RouterService, controller *router.RESTController) {
			routerService.AddGetHandler(controller, "", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.healthCheck(routerService, c)
			})
		},
	)
}

// healthCheck always answers 200; a degraded store is reported in the body
// because the process keeps serving pages while the database is down.
func (ctrl *MonitoringController) healthCheck(
	routerService *router.RouterService,
	c *router.RequestContext,
) *router.ServiceResult {
	logger := routerService.GetLogger(c)
	healthStatus := ctrl.performHealthChecks(c.Request.Context(), logger)

	return &router.ServiceResult{
		StatusCode: http.StatusOK,
		Data:       healthStatus,
		Message:    "college-forms health check completed",
	}
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		Uptime: int(time.Since(ctrl.startTime).Seconds()),
	}

	checkDatabaseConnectivity(ctx, ctrl, &status, logger)

	return status
}

func checkDatabaseConnectivity(ctx context.Context, ctrl *MonitoringController, status *HealthStatus, logger *log.Logger) {
	if ctrl.store == nil {
		status.DatabaseState = storage.Disconnected.String()
		logger.Warn("Database not configured, database health check skipped")
		return
	}

	status.DatabaseState = ctrl.store.State().String()

	if ctrl.checkDatabase(ctx) {
		status.Database = 1
		logger.Debug("Database health check passed")
	} else {
		status.Database = 0
		logger.Error("Database health check failed", "state", status.DatabaseState)
	}
}

func (ctrl *MonitoringController) checkDatabase(ctx context.Context) bool {
	if ctrl.store.State() != storage.Connected {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()

	return ctrl.store.Ping(ctx) == nil
}
