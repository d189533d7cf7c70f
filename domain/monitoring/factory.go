package monitoring

import (
	"github.com/akeren/launch-waitlist/config/router"
	"github.com/akeren/launch-waitlist/internal/log"
	"gorm.io/gorm"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	db     *gorm.DB
	logger *log.Logger
	redis  Pinger
}

func NewMonitoringControllerFactory(db *gorm.DB, logger *log.Logger, redis Pinger) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		db:     db,
		logger: logger,
		redis:  redis,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.db, f.logger, f.redis)
}
