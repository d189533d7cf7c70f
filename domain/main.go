package domain

import (
	"errors"

	"github.com/akeren/launch-waitlist/config"
	"github.com/akeren/launch-waitlist/domain/monitoring"
	"github.com/akeren/launch-waitlist/domain/waitlist"
)

var ErrNoWaitlistStore = errors.New("no waitlist store configured: need a database or a redis connection")

func SetupCoreDomain(appConfig *config.ApplicationConfig) error {
	redisClient := config.GetRedisClient(appConfig.Redis)
	if appConfig.DB == nil && redisClient == nil {
		return ErrNoWaitlistStore
	}

	appConfig.RouterService.MountController(monitoring.NewMonitoringController(appConfig.DB, appConfig.Logger, appConfig.Redis))

	factory := waitlist.NewWaitlistServiceFactory(appConfig.DB, redisClient, appConfig.Logger, WaitlistSettings(appConfig.Config))
	appConfig.RouterService.MountController(factory.CreateController())

	return nil
}

// WaitlistSettings maps the loaded configuration onto the waitlist service settings.
func WaitlistSettings(appConfig *config.AppConfig) waitlist.Settings {
	settings := waitlist.NewDefaultSettings()
	if appConfig == nil {
		return settings
	}

	if appConfig.LaunchTargetUsers > 0 {
		settings.TargetUsers = appConfig.LaunchTargetUsers
	}
	if !appConfig.LaunchDate.IsZero() {
		settings.LaunchAt = appConfig.LaunchDate
	}
	if appConfig.DateLocale != "" || appConfig.DateLocation != nil {
		settings.Dates = waitlist.NewDateFormatter(appConfig.DateLocale, appConfig.DateLocation)
	}

	return settings
}
