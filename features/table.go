package features

import (
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/UMCU-Digital-Health/No-Show/appointments"
)

type Row struct {
	appointments.Appointment
	Features
}

// Table is the feature table of an appointment batch. Builders never modify a table,
// they return an updated copy.
type Table struct {
	rows     []Row
	computed mapset.Set[Column]
}

// NewTable creates a table with the columns that are taken directly from the appointments
func NewTable(list []appointments.Appointment) *Table {
	rows := make([]Row, len(list))
	for i, appointment := range list {
		rows[i] = Row{Appointment: appointment}
		rows[i].Duration = float64(appointment.DurationMinutes)
		if appointment.IsNoShow() {
			rows[i].Label = 1
		}
	}
	return &Table{
		rows:     rows,
		computed: mapset.NewThreadUnsafeSet(Duration, NoShow),
	}
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the rows in table order
func (t *Table) Rows() []Row {
	result := make([]Row, len(t.rows))
	copy(result, t.rows)
	return result
}

func (t *Table) Row(i int) Row {
	return t.rows[i]
}

func (t *Table) Has(column Column) bool {
	return t.computed.Contains(column)
}

// Columns returns the computed columns in the order of columns
func (t *Table) Columns(columns []Column) []Column {
	result := make([]Column, 0, len(columns))
	for _, column := range columns {
		if t.Has(column) {
			result = append(result, column)
		}
	}
	return result
}

func (t *Table) require(columns ...Column) error {
	for _, column := range columns {
		if _, err := lookup(column); err != nil {
			return err
		}
		if !t.Has(column) {
			return fmt.Errorf("%w: %q has not been computed", ErrMissingColumn, column)
		}
	}
	return nil
}

func (t *Table) clone() *Table {
	return &Table{
		rows:     t.Rows(),
		computed: t.computed.Clone(),
	}
}

// Filter returns a table with the rows for which keep returns true. Feature values are not recomputed.
func (t *Table) Filter(keep func(row Row) bool) *Table {
	result := &Table{
		rows:     make([]Row, 0, len(t.rows)),
		computed: t.computed.Clone(),
	}
	for _, row := range t.rows {
		if keep(row) {
			result.rows = append(result.rows, row)
		}
	}
	return result
}

// sorted returns a copy of the table ordered by start time. Rows with equal start times keep their order.
func (t *Table) sorted() *Table {
	order := appointments.Order(len(t.rows), func(i int) time.Time {
		return t.rows[i].Start
	})
	result := &Table{
		rows:     make([]Row, len(t.rows)),
		computed: t.computed.Clone(),
	}
	for i, j := range order {
		result.rows[i] = t.rows[j]
	}
	return result
}

func (t *Table) streams() []appointments.Stream {
	return appointments.Streams(len(t.rows), func(i int) appointments.Key {
		return t.rows[i].Key()
	})
}

func (t *Table) set(i int, column Column, value float64) {
	registry[column].set(&t.rows[i].Features, value)
}

func (t *Table) get(i int, column Column) float64 {
	return registry[column].get(&t.rows[i].Features)
}

func (t *Table) markComputed(columns ...Column) {
	for _, column := range columns {
		t.computed.Add(column)
	}
}
