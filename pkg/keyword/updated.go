package keyword

import "time"

// DateLayout renders dates as "<Month> <Day>, <Year>".
const DateLayout = "January 02, 2006"

// DefaultUpdatedBase and DefaultUpdatedInterval drive the dataset "Updated" stamp.
var (
	DefaultUpdatedBase     = time.Date(2023, time.August, 25, 0, 0, 0, 0, time.UTC)
	DefaultUpdatedInterval = 10 * 24 * time.Hour
)

// CyclicUpdated advances base by interval. When that crosses into a new year
// only the year of base is advanced, so the stamp cycles within one calendar
// position instead of drifting into the next year.
func CyclicUpdated(base time.Time, interval time.Duration) time.Time {
	next := base.Add(interval)
	if next.Year() > base.Year() {
		return time.Date(next.Year(), base.Month(), base.Day(),
			base.Hour(), base.Minute(), base.Second(), base.Nanosecond(), base.Location())
	}
	return next
}

// FormatUpdated returns the "Updated" label for the given base and interval.
func FormatUpdated(base time.Time, interval time.Duration) string {
	return CyclicUpdated(base, interval).Format(DateLayout)
}
