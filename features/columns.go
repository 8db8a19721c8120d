package features

import (
	"fmt"

	noshowErrors "github.com/UMCU-Digital-Health/No-Show/errors"
)

type Column string

const (
	Hour                 Column = "hour"
	Weekday              Column = "weekday"
	Duration             Column = "minutesDuration"
	NoShow               Column = "no_show"
	PrevNoShow           Column = "prev_no_show"
	PrevNoShowPerc       Column = "prev_no_show_perc"
	Age                  Column = "age"
	Distance             Column = "dist_umcu"
	MinutesEarly         Column = "minutes_early"
	PrevMinutesEarly     Column = "prev_minutes_early"
	EarlierAppointments  Column = "earlier_appointments"
	AppointmentsSameDay  Column = "appointments_same_day"
	AppointmentsLastDays Column = "appointments_last_days"
	DaysSinceCreated     Column = "days_since_created"
	DaysSinceLast        Column = "days_since_last_appointment"
)

var ErrMissingColumn = fmt.Errorf("feature %w", noshowErrors.MissingColumn)

// FeatureColumns is the ordered column set of the feature table export
var FeatureColumns = []Column{
	Hour,
	Weekday,
	Duration,
	NoShow,
	PrevNoShow,
	PrevNoShowPerc,
	Age,
	Distance,
	PrevMinutesEarly,
	EarlierAppointments,
	AppointmentsSameDay,
	AppointmentsLastDays,
	DaysSinceCreated,
	DaysSinceLast,
}

// ModelColumns is the ordered column set the classifier is scored on. The label is
// not known at prediction time and is left out.
var ModelColumns = []Column{
	Hour,
	Weekday,
	Duration,
	PrevNoShow,
	PrevNoShowPerc,
	Age,
	Distance,
	PrevMinutesEarly,
	EarlierAppointments,
	AppointmentsSameDay,
	AppointmentsLastDays,
	DaysSinceCreated,
	DaysSinceLast,
}

// Features holds the derived values of a single appointment
type Features struct {
	Hour                 float64 `json:"hour"`
	Weekday              float64 `json:"weekday"`
	Duration             float64 `json:"minutesDuration"`
	Label                float64 `json:"no_show"`
	PrevNoShow           float64 `json:"prev_no_show"`
	PrevNoShowPerc       float64 `json:"prev_no_show_perc"`
	Age                  float64 `json:"age"`
	Distance             float64 `json:"dist_umcu"`
	MinutesEarly         float64 `json:"minutes_early"`
	PrevMinutesEarly     float64 `json:"prev_minutes_early"`
	EarlierAppointments  float64 `json:"earlier_appointments"`
	AppointmentsSameDay  float64 `json:"appointments_same_day"`
	AppointmentsLastDays float64 `json:"appointments_last_days"`
	DaysSinceCreated     float64 `json:"days_since_created"`
	DaysSinceLast        float64 `json:"days_since_last_appointment"`
}

type accessor struct {
	get func(f *Features) float64
	set func(f *Features, value float64)
}

var registry = map[Column]accessor{
	Hour:                 {func(f *Features) float64 { return f.Hour }, func(f *Features, v float64) { f.Hour = v }},
	Weekday:              {func(f *Features) float64 { return f.Weekday }, func(f *Features, v float64) { f.Weekday = v }},
	Duration:             {func(f *Features) float64 { return f.Duration }, func(f *Features, v float64) { f.Duration = v }},
	NoShow:               {func(f *Features) float64 { return f.Label }, func(f *Features, v float64) { f.Label = v }},
	PrevNoShow:           {func(f *Features) float64 { return f.PrevNoShow }, func(f *Features, v float64) { f.PrevNoShow = v }},
	PrevNoShowPerc:       {func(f *Features) float64 { return f.PrevNoShowPerc }, func(f *Features, v float64) { f.PrevNoShowPerc = v }},
	Age:                  {func(f *Features) float64 { return f.Age }, func(f *Features, v float64) { f.Age = v }},
	Distance:             {func(f *Features) float64 { return f.Distance }, func(f *Features, v float64) { f.Distance = v }},
	MinutesEarly:         {func(f *Features) float64 { return f.MinutesEarly }, func(f *Features, v float64) { f.MinutesEarly = v }},
	PrevMinutesEarly:     {func(f *Features) float64 { return f.PrevMinutesEarly }, func(f *Features, v float64) { f.PrevMinutesEarly = v }},
	EarlierAppointments:  {func(f *Features) float64 { return f.EarlierAppointments }, func(f *Features, v float64) { f.EarlierAppointments = v }},
	AppointmentsSameDay:  {func(f *Features) float64 { return f.AppointmentsSameDay }, func(f *Features, v float64) { f.AppointmentsSameDay = v }},
	AppointmentsLastDays: {func(f *Features) float64 { return f.AppointmentsLastDays }, func(f *Features, v float64) { f.AppointmentsLastDays = v }},
	DaysSinceCreated:     {func(f *Features) float64 { return f.DaysSinceCreated }, func(f *Features, v float64) { f.DaysSinceCreated = v }},
	DaysSinceLast:        {func(f *Features) float64 { return f.DaysSinceLast }, func(f *Features, v float64) { f.DaysSinceLast = v }},
}

func lookup(column Column) (accessor, error) {
	a, ok := registry[column]
	if !ok {
		return accessor{}, fmt.Errorf("%w: unknown column %q", ErrMissingColumn, column)
	}
	return a, nil
}

// Get returns the value of a column
func (f *Features) Get(column Column) (float64, error) {
	a, err := lookup(column)
	if err != nil {
		return 0, err
	}
	return a.get(f), nil
}
