package features

import (
	"fmt"
	"time"

	"github.com/UMCU-Digital-Health/No-Show/appointments"
)

const (
	DefaultAppointmentsLastDays = 14
	DefaultMinutesEarlyCutoff   = 60
	DefaultExcludeLast          = 3 * day
)

type Options struct {
	AppointmentsLastDays int
	MinutesEarlyCutoff   int
	// ExcludeLast is the trailing window left out of the cumulative features
	ExcludeLast time.Duration
}

func DefaultOptions() Options {
	return Options{
		AppointmentsLastDays: DefaultAppointmentsLastDays,
		MinutesEarlyCutoff:   DefaultMinutesEarlyCutoff,
		ExcludeLast:          DefaultExcludeLast,
	}
}

// CreateFeatures builds the feature table of a processed appointment batch. The batch must have
// a unique (patient, start) key. The result is ordered by start time.
func CreateFeatures(list []appointments.Appointment, locator Locator, opts Options) (*Table, error) {
	table, err := PrevNoShowFeatures(NewTable(list), opts.ExcludeLast)
	if err != nil {
		return nil, fmt.Errorf("unable to add no-show features: %w", err)
	}

	table = AddAppointmentsSameDay(table)
	table = AddDaysSinceLastAppointment(table)
	table = AddDaysSinceCreated(table)
	table = AddAppointmentsLastDays(table, opts.AppointmentsLastDays)

	table, err = AddMinutesEarly(table, opts.MinutesEarlyCutoff, opts.ExcludeLast)
	if err != nil {
		return nil, fmt.Errorf("unable to add minutes early: %w", err)
	}

	table = AddTimeFeatures(table)
	table = AddPatientFeatures(table, locator)

	return table.sorted(), nil
}

// Matrix is the selection of feature columns the classifier is scored on
type Matrix struct {
	Columns []Column
	Keys    []appointments.Key
	Values  [][]float64
}

// SelectColumns extracts columns in the given order. Every column must have been computed.
func SelectColumns(t *Table, columns []Column) (*Matrix, error) {
	if err := t.require(columns...); err != nil {
		return nil, err
	}

	accessors := make([]accessor, len(columns))
	for i, column := range columns {
		accessors[i] = registry[column]
	}

	matrix := &Matrix{
		Columns: append([]Column(nil), columns...),
		Keys:    make([]appointments.Key, len(t.rows)),
		Values:  make([][]float64, len(t.rows)),
	}
	for i := range t.rows {
		values := make([]float64, len(accessors))
		for j, a := range accessors {
			values[j] = a.get(&t.rows[i].Features)
		}
		matrix.Keys[i] = t.rows[i].Key()
		matrix.Values[i] = values
	}
	return matrix, nil
}
