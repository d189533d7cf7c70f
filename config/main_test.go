package config

import (
	"testing"
	"time"

	"github.com/akeren/launch-waitlist/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	for _, key := range []string{"STORE_DRIVER", "LAUNCH_DATE", "LAUNCH_TARGET_USERS", "DATE_LOCALE", "DATE_TIMEZONE", "REQUEST_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := NewAppConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, constants.DefaultLaunchTargetUsers, cfg.LaunchTargetUsers)
	assert.Equal(t, time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC), cfg.LaunchDate)
	assert.Equal(t, "en-US", cfg.DateLocale)
	assert.Equal(t, time.UTC, cfg.DateLocation)
	assert.Equal(t, constants.DefaultRequestTimeout, cfg.RequestTimeout)
}

func TestNewAppConfig_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("LAUNCH_DATE", "2027-01-15T09:30:00+01:00")
	t.Setenv("LAUNCH_TARGET_USERS", "1200")
	t.Setenv("DATE_LOCALE", "de-DE")
	t.Setenv("DATE_TIMEZONE", "Europe/Berlin")
	t.Setenv("REQUEST_TIMEOUT", "10s")

	cfg, err := NewAppConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverSQLite, cfg.StoreDriver)
	assert.Equal(t, 1200, cfg.LaunchTargetUsers)
	assert.Equal(t, time.Date(2027, time.January, 15, 8, 30, 0, 0, time.UTC), cfg.LaunchDate)
	assert.Equal(t, "de-DE", cfg.DateLocale)
	assert.Equal(t, "Europe/Berlin", cfg.DateLocation.String())
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestNewAppConfig_RejectsInvalidValues(t *testing.T) {
	t.Run("launch date", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "")
		t.Setenv("LAUNCH_DATE", "June 20th")
		_, err := NewAppConfig()
		assert.Error(t, err)
	})

	t.Run("timezone", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "")
		t.Setenv("LAUNCH_DATE", "")
		t.Setenv("DATE_TIMEZONE", "Mars/Olympus_Mons")
		_, err := NewAppConfig()
		assert.Error(t, err)
	})

	t.Run("store driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "cassandra")
		_, err := NewAppConfig()
		assert.Error(t, err)
	})
}
