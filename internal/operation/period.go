package operation

import (
	"fmt"
	"regexp"
	"time"
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// PeriodOf maps a calendar date to its accounting period. The books run from
// the 20th to the 19th of the next month: a date on or after the 20th belongs
// to its own month's period, anything earlier to the previous month's.
func PeriodOf(date string) (string, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", err
	}
	if t.Day() < 20 {
		t = t.AddDate(0, -1, 0)
	}
	return t.Format("2006-01"), nil
}

// PeriodBounds returns the inclusive date range of a period: the 20th of the
// period month through the 19th of the month after.
func PeriodBounds(period string) (from, to string, err error) {
	if !periodPattern.MatchString(period) {
		return "", "", fmt.Errorf("invalid period: %s", period)
	}
	start, err := time.Parse("2006-01-02", period+"-20")
	if err != nil {
		return "", "", err
	}
	end := start.AddDate(0, 1, -1)
	return start.Format("2006-01-02"), end.Format("2006-01-02"), nil
}
