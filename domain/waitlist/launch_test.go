package waitlist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func launchSettings(target int, launchAt time.Time) Settings {
	settings := NewDefaultSettings()
	settings.TargetUsers = target
	settings.LaunchAt = launchAt
	return settings
}

func TestComputeLaunchProgress_BelowTarget(t *testing.T) {
	now := time.Date(2025, time.June, 18, 10, 30, 15, 0, time.UTC)
	launchAt := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)

	progress := ComputeLaunchProgress(123, now, launchSettings(500, launchAt))

	assert.Equal(t, int64(123), progress.Count)
	assert.Equal(t, int64(500), progress.Target)
	assert.Equal(t, int64(377), progress.Remaining)
	assert.Equal(t, 24.6, progress.Progress)
	assert.False(t, progress.LaunchReady)
	assert.Equal(t, "2025-06-20T00:00:00Z", progress.LaunchAt)
	assert.Equal(t, Countdown{Days: 1, Hours: 13, Minutes: 29, Seconds: 45}, progress.Countdown)
}

func TestComputeLaunchProgress_TargetReached(t *testing.T) {
	now := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	launchAt := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)

	progress := ComputeLaunchProgress(640, now, launchSettings(500, launchAt))

	assert.Equal(t, int64(0), progress.Remaining)
	assert.Equal(t, 100.0, progress.Progress)
	assert.True(t, progress.LaunchReady)
	assert.Equal(t, Countdown{}, progress.Countdown)
}

func TestComputeLaunchProgress_EmptyWaitlist(t *testing.T) {
	launchAt := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)

	progress := ComputeLaunchProgress(0, launchAt.Add(-time.Hour), launchSettings(500, launchAt))

	assert.Equal(t, int64(500), progress.Remaining)
	assert.Equal(t, 0.0, progress.Progress)
	assert.Equal(t, Countdown{Hours: 1}, progress.Countdown)
}
