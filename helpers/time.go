package helpers

import "time"

// GetStartOfDayInLocUTC returns today's midnight in loc, expressed in UTC.
func GetStartOfDayInLocUTC(loc *time.Location) time.Time {
	now := time.Now().In(loc)
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return startOfDay.UTC()
}
