package monitoring

import (
	"context"
	"net/http"
	"time"

	"github.com/akeren/launch-waitlist/config/router"
	"github.com/akeren/launch-waitlist/internal/log"
	"gorm.io/gorm"
)

const healthCheckTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthStatus struct {
	Database int `json:"database"` // 1 = healthy, 0 = unhealthy/not configured
	Redis    int `json:"redis"`    // 1 = healthy, 0 = unhealthy/not configured
	Uptime   int `json:"uptime"`   // uptime in seconds
}

type MonitoringController struct {
	db        *gorm.DB
	logger    *log.Logger
	redis     Pinger
	startTime time.Time
}

// NewMonitoringController serves GET / and GET /health. db and redis may each be nil.
func NewMonitoringController(db *gorm.DB, logger *log.Logger, redis Pinger) *router.RESTController {
	ctrl := &MonitoringController{
		db:        db,
		logger:    logger,
		redis:     redis,
		startTime: time.Now(),
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {
			routerService.AddGetHandler(controller, "", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.monitor(c)
			})

			routerService.AddGetHandler(controller, "health", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.healthCheck(routerService, c)
			})
		},
	)
}

func (ctrl *MonitoringController) healthCheck(
	routerService *router.RouterService,
	c *router.RequestContext,
) *router.ServiceResult {
	logger := routerService.GetLogger(c)
	logger.Info("Health check endpoint called")

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	healthStatus := ctrl.performHealthChecks(ctx, logger)

	return router.OKResult(healthStatus, "launch-waitlist health check completed")
}

func (ctrl *MonitoringController) monitor(
	c *router.RequestContext,
) *router.ServiceResult {
	return &router.ServiceResult{
		StatusCode: http.StatusOK,
		Data:       "Monitoring endpoint is operational.",
		Message:    "Monitoring successful",
	}
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		Uptime: int(time.Since(ctrl.startTime).Seconds()),
	}

	checkDatabaseConnectivity(ctx, ctrl, &status, logger)

	checkRedisConnectivity(ctx, ctrl, &status, logger)

	return status
}

func checkRedisConnectivity(ctx context.Context, ctrl *MonitoringController, status *HealthStatus, logger *log.Logger) {
	if ctrl.redis == nil {
		status.Redis = 0
		logger.Info("Redis not configured, redis health check skipped")
		return
	}

	if ctrl.redis.Ping(ctx) == nil {
		status.Redis = 1
		logger.Info("Redis health check passed")
	} else {
		status.Redis = 0
		logger.Error("Redis health check failed")
	}
}

func checkDatabaseConnectivity(ctx context.Context, ctrl *MonitoringController, status *HealthStatus, logger *log.Logger) {
	if ctrl.db == nil {
		status.Database = 0
		logger.Info("Database not configured, database health check skipped")
		return
	}

	if ctrl.checkDatabase(ctx) {
		status.Database = 1
		logger.Info("Database health check passed")
	} else {
		status.Database = 0
		logger.Error("Database health check failed")
	}
}

func (ctrl *MonitoringController) checkDatabase(ctx context.Context) bool {
	sqlDB, err := ctrl.db.DB()
	if err != nil {
		return false
	}

	return sqlDB.PingContext(ctx) == nil
}
