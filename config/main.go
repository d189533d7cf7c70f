package config

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/akeren/launch-waitlist/config/router"
	"github.com/akeren/launch-waitlist/internal/log"
	"github.com/akeren/launch-waitlist/internal/models"
	"github.com/akeren/launch-waitlist/pkg/constants"
	"github.com/akeren/launch-waitlist/pkg/utils"
	"gorm.io/gorm"
)

type ApplicationConfig struct {
	DB              *gorm.DB
	Redis           Redis
	RouterService   *router.RouterService
	Logger          *log.Logger
	Config          *AppConfig
	TracingShutdown func(context.Context) error
}

type AppConfig struct {
	RequestTimeout    time.Duration
	StoreDriver       string
	LaunchTargetUsers int
	LaunchDate        time.Time
	DateLocale        string
	DateLocation      *time.Location
}

func NewAppConfig() (*AppConfig, error) {
	driver, err := ResolveStoreDriver(GetValueFromEnvironmentVariable("STORE_DRIVER", ""))
	if err != nil {
		return nil, err
	}

	rawLaunchDate := utils.GetEnvTrimmedOrDefault("LAUNCH_DATE", constants.DefaultLaunchDate)
	launchDate, err := time.Parse(time.RFC3339, rawLaunchDate)
	if err != nil {
		return nil, fmt.Errorf("invalid LAUNCH_DATE %q (expected RFC 3339): %w", rawLaunchDate, err)
	}

	rawTimezone := utils.GetEnvTrimmedOrDefault("DATE_TIMEZONE", constants.DefaultDateTimezone)
	location, err := time.LoadLocation(rawTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid DATE_TIMEZONE %q: %w", rawTimezone, err)
	}

	return &AppConfig{
		RequestTimeout:    utils.GetEnvDurationOrDefault("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		StoreDriver:       driver,
		LaunchTargetUsers: utils.GetEnvPositiveIntOrDefault("LAUNCH_TARGET_USERS", constants.DefaultLaunchTargetUsers),
		LaunchDate:        launchDate.UTC(),
		DateLocale:        utils.GetEnvTrimmedOrDefault("DATE_LOCALE", constants.DefaultDateLocale),
		DateLocation:      location,
	}, nil
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Redis != nil {
		_ = CloseRedis(ac.Redis, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

// OpenStore connects the persistence backend selected by STORE_DRIVER.
// For the redis driver the returned *gorm.DB is nil.
func OpenStore(logger *log.Logger, appConfig *AppConfig) (*gorm.DB, Redis, error) {
	redisConn := NewRedisConfig().NewRedisOrNil(logger)

	switch appConfig.StoreDriver {
	case StoreDriverRedis:
		if redisConn == nil {
			return nil, nil, fmt.Errorf("STORE_DRIVER=redis requires a reachable REDIS_HOST")
		}
		logger.Info("Using redis waitlist store")
		return nil, redisConn, nil

	case StoreDriverSQLite:
		db, err := NewSQLiteDatabase(logger, GetValueFromEnvironmentVariable("SQLITE_PATH", "waitlist.db"))
		if err != nil {
			_ = CloseRedis(redisConn, logger)
			return nil, nil, err
		}
		return db, redisConn, nil

	default:
		db, err := NewDatabase(logger, nil)
		if err != nil {
			_ = CloseRedis(redisConn, logger)
			return nil, nil, err
		}
		return db, redisConn, nil
	}
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	appConfig, err := NewAppConfig()
	if err != nil {
		return nil, err
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	db, redisConn, err := OpenStore(logger, appConfig)
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if db == nil {
			logger.Info("Skipping --auto-migrate; the redis store has no schema")
		} else if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			return nil, err
		}
	}

	routerService := router.CreateRouterService(logger, &router.RouterConfig{
		RequestTimeout: appConfig.RequestTimeout,
	})

	logger.Info("Application configuration loaded successfully", "store_driver", appConfig.StoreDriver)

	return &ApplicationConfig{
		DB:              db,
		Redis:           redisConn,
		RouterService:   routerService,
		Logger:          logger,
		Config:          appConfig,
		TracingShutdown: tracingShutdown,
	}, nil
}
