package waitlist

import (
	"github.com/akeren/launch-waitlist/config/router"
	"github.com/akeren/launch-waitlist/internal/log"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type WaitlistServiceFactory interface {
	CreateRepository() WaitlistRepository
	CreateService() WaitlistService
	CreateController() *router.RESTController
}

type DefaultWaitlistServiceFactory struct {
	db       *gorm.DB
	redis    *redis.Client
	logger   *log.Logger
	settings Settings
}

// NewWaitlistServiceFactory backs the waitlist with db when it is set, otherwise with redis.
func NewWaitlistServiceFactory(db *gorm.DB, redisClient *redis.Client, logger *log.Logger, settings Settings) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{
		db:       db,
		redis:    redisClient,
		logger:   logger,
		settings: settings,
	}
}

func (f *DefaultWaitlistServiceFactory) CreateRepository() WaitlistRepository {
	if f.db == nil && f.redis != nil {
		return NewRedisWaitlistRepository(f.redis, DefaultRedisKeyPrefix)
	}
	return NewWaitlistRepository(f.db)
}

func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	return NewWaitlistService(f.logger, f.CreateRepository(), f.settings)
}

func (f *DefaultWaitlistServiceFactory) CreateController() *router.RESTController {
	return NewWaitlistController(f.CreateService())
}
