package waitlist

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

const isoDateLayout = "2006-01-02"

// DateFormatter renders the absolute date shown for signups older than a week.
type DateFormatter struct {
	layout   string
	location *time.Location
}

// NewDateFormatter picks a numeric date layout for a BCP 47 locale tag.
// Unknown or unparsable tags fall back to ISO 8601; a nil location means UTC.
func NewDateFormatter(locale string, location *time.Location) DateFormatter {
	if location == nil {
		location = time.UTC
	}
	return DateFormatter{
		layout:   layoutForLocale(locale),
		location: location,
	}
}

func (f DateFormatter) Format(t time.Time) string {
	layout := f.layout
	if layout == "" {
		layout = isoDateLayout
	}
	location := f.location
	if location == nil {
		location = time.UTC
	}
	return t.In(location).Format(layout)
}

func layoutForLocale(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return isoDateLayout
	}

	base, _ := tag.Base()
	region, _ := tag.Region()

	switch base.String() {
	case "en":
		switch region.String() {
		case "US", "PH", "ZZ":
			return "1/2/2006"
		case "CA", "ZA":
			return isoDateLayout
		default:
			return "02/01/2006"
		}
	case "fr", "es", "it", "pt", "el", "vi", "id":
		return "02/01/2006"
	case "de", "ru", "pl", "cs", "fi", "nb", "da", "tr", "uk", "ro":
		return "2.1.2006"
	case "nl":
		return "2-1-2006"
	case "ja", "zh", "ko":
		return "2006/1/2"
	case "sv", "lt":
		return isoDateLayout
	default:
		return isoDateLayout
	}
}

// FormatTimeAgo labels createdAt relative to now: "just now", "{m}m ago", "{h}h ago",
// "{d}d ago", then an absolute date from seven days on. Each unit is floored.
// Future timestamps count as "just now".
func FormatTimeAgo(createdAt, now time.Time, dates DateFormatter) string {
	elapsed := now.Sub(createdAt)

	seconds := int64(elapsed / time.Second)
	if seconds < 60 {
		return "just now"
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}

	days := hours / 24
	if days < 7 {
		return fmt.Sprintf("%dd ago", days)
	}

	return dates.Format(createdAt)
}
