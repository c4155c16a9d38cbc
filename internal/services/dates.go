package services

import (
	"time"

	"github.com/terraincognita07/medira/internal/models"
)

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// LocalDateString renders the local calendar date for taken-state
// comparisons. It must be re-derived on every comparison rather than cached,
// so a process sleeping across midnight still answers correctly.
func LocalDateString(value time.Time, location *time.Location) string {
	return DateAtLocation(value, location).Format(models.DateLayout)
}

// NextMidnight returns the first instant of the next local calendar day.
func NextMidnight(now time.Time, location *time.Location) time.Time {
	return DateAtLocation(now, location).AddDate(0, 0, 1)
}
