package appointments

import (
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

type Label string

const (
	LabelShow   Label = "show"
	LabelNoShow Label = "no_show"

	ConsultTypePhone = "Telefonisch"
	StatusPlanned    = "planned"
)

// Appointment is a single scheduled visit. PatientId and Start form the natural key.
type Appointment struct {
	Id               string     `json:"appId" bson:"appId"`
	PatientId        string     `json:"patientId" bson:"patientId"`
	Agenda           string     `json:"agenda" bson:"agenda"`
	AgendaId         string     `json:"agendaId" bson:"agendaId"`
	SubagendaId      string     `json:"subagendaId" bson:"subagendaId"`
	AppointmentCode  string     `json:"appointmentCode" bson:"appointmentCode"`
	ConsultType      *string    `json:"consultType,omitempty" bson:"consultType,omitempty"`
	Status           string     `json:"status" bson:"status"`
	Start            time.Time  `json:"start" bson:"start"`
	End              time.Time  `json:"end" bson:"end"`
	Created          time.Time  `json:"created" bson:"created"`
	Arrived          *time.Time `json:"arrived,omitempty" bson:"arrived,omitempty"`
	DurationMinutes  int        `json:"durationMinutes" bson:"durationMinutes"`
	CancellationCode *string    `json:"cancellationCode,omitempty" bson:"cancellationCode,omitempty"`
	BirthYear        int        `json:"birthYear" bson:"birthYear"`
	PostalCode       int        `json:"postalCode" bson:"postalCode"`

	// Set during preprocessing
	Clinic string `json:"clinic,omitempty" bson:"clinic,omitempty"`
	NoShow Label  `json:"noShow,omitempty" bson:"noShow,omitempty"`
}

type Key struct {
	PatientId string
	Start     time.Time
}

func (k Key) id() key {
	return key{patientId: k.PatientId, start: k.Start.UnixNano()}
}

// key is the comparable form of Key, time.Time values with different locations
// must still collide
type key struct {
	patientId string
	start     int64
}

func (a Appointment) Key() Key {
	return Key{PatientId: a.PatientId, Start: a.Start}
}

func (a Appointment) IsNoShow() bool {
	return a.NoShow == LabelNoShow
}

func (a Appointment) IsPhoneConsult() bool {
	return a.ConsultType != nil && *a.ConsultType == ConsultTypePhone
}

// SetLabels returns a copy of the appointments with the no-show label derived from the cancellation code
func SetLabels(appointments []Appointment, noShowCodes mapset.Set[string]) []Appointment {
	result := make([]Appointment, len(appointments))
	for i, appointment := range appointments {
		appointment.NoShow = LabelShow
		if appointment.CancellationCode != nil && noShowCodes != nil && noShowCodes.Contains(*appointment.CancellationCode) {
			appointment.NoShow = LabelNoShow
		}
		result[i] = appointment
	}
	return result
}

// Deduplicate keeps the last occurrence of every (patient, start) key. Relative order of the kept rows is preserved.
func Deduplicate(appointments []Appointment) []Appointment {
	seen := make(map[key]struct{}, len(appointments))
	kept := make([]Appointment, 0, len(appointments))
	for i := len(appointments) - 1; i >= 0; i-- {
		k := appointments[i].Key().id()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, appointments[i])
	}

	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}

// SameDate reports whether both times fall on the same calendar date, each in its own location
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
