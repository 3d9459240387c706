package timezone

import (
	"time"
	_ "time/tzdata"
)

// Location is the timezone the Cloud Commerce Pro back office renders its
// dates in.
var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/London")
	if err != nil {
		panic(err)
	}
}

// Now returns the current time in the back office's timezone, the
// server this runs on may not be in the UK which will shift dates
// produced by <time.Time>.Year()/Month()/Day() across midnight.
func Now() time.Time {
	return time.Now().In(Location)
}

// StartOfDay truncates t to midnight in the back office's timezone.
func StartOfDay(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}
