package waitlist

import (
	"math"
	"time"

	"github.com/akeren/launch-waitlist/pkg/constants"
)

// Settings carries the launch threshold, date rendering and clock used by the service.
type Settings struct {
	TargetUsers int
	LaunchAt    time.Time
	Dates       DateFormatter

	// Now defaults to time.Now.
	Now func() time.Time
}

func NewDefaultSettings() Settings {
	launchAt, _ := time.Parse(time.RFC3339, constants.DefaultLaunchDate)

	return Settings{
		TargetUsers: constants.DefaultLaunchTargetUsers,
		LaunchAt:    launchAt,
		Dates:       NewDateFormatter(constants.DefaultDateLocale, time.UTC),
	}
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ComputeLaunchProgress derives the progress display from the registered count.
func ComputeLaunchProgress(count int64, now time.Time, settings Settings) LaunchProgress {
	if count < 0 {
		count = 0
	}

	target := int64(settings.TargetUsers)

	remaining := target - count
	if remaining < 0 {
		remaining = 0
	}

	progress := 100.0
	if target > 0 {
		progress = math.Min(float64(count)/float64(target)*100, 100)
		progress = math.Round(progress*10) / 10
	}

	return LaunchProgress{
		Count:       count,
		Target:      target,
		Remaining:   remaining,
		Progress:    progress,
		LaunchReady: count >= target,
		LaunchAt:    settings.LaunchAt.UTC().Format(constants.RFC3339DateTimeFormat),
		Countdown:   computeCountdown(settings.LaunchAt.Sub(now)),
	}
}

func computeCountdown(remaining time.Duration) Countdown {
	if remaining <= 0 {
		return Countdown{}
	}

	total := int64(remaining / time.Second)

	return Countdown{
		Days:    total / 86400,
		Hours:   (total / 3600) % 24,
		Minutes: (total / 60) % 60,
		Seconds: total % 60,
	}
}
