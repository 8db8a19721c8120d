package prediction

import "time"

// AddWorkingDays moves t by days working days. Saturdays and Sundays are skipped, a negative
// value moves back in time. Holidays are not taken into account.
func AddWorkingDays(t time.Time, days int) time.Time {
	step := 1
	if days < 0 {
		step = -1
		days = -days
	}

	for days > 0 {
		t = t.AddDate(0, 0, step)
		if isWorkingDay(t) {
			days--
		}
	}
	return t
}

// CallDate is the working day leadDays working days before the appointment start
func CallDate(start time.Time, leadDays int) time.Time {
	year, month, day := AddWorkingDays(start, -leadDays).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, start.Location())
}

func isWorkingDay(t time.Time) bool {
	weekday := t.Weekday()
	return weekday != time.Saturday && weekday != time.Sunday
}
