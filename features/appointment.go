package features

import (
	"math"
	"time"
)

const day = 24 * time.Hour

type patientDate struct {
	patientId string
	year      int
	month     time.Month
	day       int
}

// AddAppointmentsSameDay adds the number of appointments the patient has on the same calendar date,
// including the appointment itself
func AddAppointmentsSameDay(t *Table) *Table {
	result := t.sorted()

	keyOf := func(row Row) patientDate {
		y, m, d := row.Start.Date()
		return patientDate{patientId: row.PatientId, year: y, month: m, day: d}
	}

	counts := make(map[patientDate]int)
	for _, row := range result.rows {
		counts[keyOf(row)]++
	}
	for i, row := range result.rows {
		result.rows[i].AppointmentsSameDay = float64(counts[keyOf(row)])
	}

	result.markComputed(AppointmentsSameDay)
	return result
}

// AddDaysSinceLastAppointment adds the number of whole days since the previous appointment of the patient.
// The first appointment of a patient is 0.
func AddDaysSinceLastAppointment(t *Table) *Table {
	result := t.sorted()
	for _, stream := range result.streams() {
		for k, i := range stream.Indices {
			if k == 0 {
				result.rows[i].DaysSinceLast = 0
				continue
			}
			elapsed := stream.Starts[k].Sub(stream.Starts[k-1])
			result.rows[i].DaysSinceLast = float64(elapsed / day)
		}
	}

	result.markComputed(DaysSinceLast)
	return result
}

// AddDaysSinceCreated adds the number of calendar days between booking and start.
// Appointments that appear to be created after their start get 0.
func AddDaysSinceCreated(t *Table) *Table {
	result := t.clone()
	for i, row := range result.rows {
		days := calendarDays(row.Created, row.Start)
		if days < 0 || row.Created.IsZero() {
			days = 0
		}
		result.rows[i].DaysSinceCreated = float64(days)
	}

	result.markComputed(DaysSinceCreated)
	return result
}

func calendarDays(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / day)
}

// AddAppointmentsLastDays adds the number of appointments of the patient in the trailing window of
// the given number of days, including the appointment itself
func AddAppointmentsLastDays(t *Table, days int) *Table {
	result := t.sorted()
	window := time.Duration(days) * day
	for _, stream := range result.streams() {
		windowStarts := stream.WindowStarts(window)
		for k, i := range stream.Indices {
			result.rows[i].AppointmentsLastDays = float64(k - windowStarts[k] + 1)
		}
	}

	result.markComputed(AppointmentsLastDays)
	return result
}

// AddMinutesEarly adds how many minutes before the start the patient arrived, negative when late,
// clipped to [-cutoff, cutoff]. A missing arrival counts as 0. It also adds the average of this value
// over the earlier appointments, which requires the earlier appointments count.
func AddMinutesEarly(t *Table, cutoff int, excludeLast time.Duration) (*Table, error) {
	if err := t.require(EarlierAppointments); err != nil {
		return nil, err
	}

	result := t.clone()
	limit := float64(cutoff)
	for i, row := range result.rows {
		minutes := 0.0
		if row.Arrived != nil {
			minutes = row.Start.Sub(*row.Arrived).Minutes()
		}
		result.rows[i].MinutesEarly = math.Max(-limit, math.Min(limit, minutes))
	}
	result.markComputed(MinutesEarly)

	result, err := Cumulative(result, MinutesEarly, PrevMinutesEarly, excludeLast, Sum)
	if err != nil {
		return nil, err
	}
	for i := range result.rows {
		result.rows[i].PrevMinutesEarly = ratio(result.rows[i].PrevMinutesEarly, result.rows[i].EarlierAppointments)
	}

	return result, nil
}

// AddTimeFeatures adds the weekday, with Monday as 0, and the hour of the start
func AddTimeFeatures(t *Table) *Table {
	result := t.clone()
	for i, row := range result.rows {
		result.rows[i].Weekday = float64((int(row.Start.Weekday()) + 6) % 7)
		result.rows[i].Hour = float64(row.Start.Hour())
	}

	result.markComputed(Weekday, Hour)
	return result
}
