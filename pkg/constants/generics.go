package constants

import "time"

// RFC 3339 date-time format string.
// Use this format for all date-time serialization and communication with external systems.
const RFC3339DateTimeFormat = "2006-01-02T15:04:05Z07:00"

// RecentSignupsLimit bounds the recent-activity feed returned by the waitlist summary.
const RecentSignupsLimit = 10

// Launch defaults, overridable through LAUNCH_TARGET_USERS and LAUNCH_DATE.
const (
	DefaultLaunchTargetUsers = 500
	DefaultLaunchDate        = "2025-06-20T00:00:00Z"
)

// Date rendering defaults, overridable through DATE_LOCALE and DATE_TIMEZONE.
const (
	DefaultDateLocale   = "en-US"
	DefaultDateTimezone = "UTC"
)

// DefaultRequestTimeout is applied when REQUEST_TIMEOUT is unset or invalid.
const DefaultRequestTimeout = 30 * time.Second
