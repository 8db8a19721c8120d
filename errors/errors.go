package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	EmptyInput      = errors.New("empty input")
	MissingColumn   = errors.New("missing column")
	UnknownClinic   = errors.New("unknown clinic")
	InvalidConfig   = errors.New("invalid configuration")
	OutOfRangeValue = errors.New("value out of range")
)

// InputError is returned when the caller violates an input contract. It carries enough
// context for the API layer to build a user facing message.
type InputError struct {
	Err       error
	PatientId string
	Clinic    string
	Date      *time.Time
}

func NewInputError(err error) InputError {
	return InputError{Err: err}
}

func (i InputError) WithPatient(patientId string) InputError {
	i.PatientId = patientId
	return i
}

func (i InputError) WithClinic(clinic string) InputError {
	i.Clinic = clinic
	return i
}

func (i InputError) WithDate(date time.Time) InputError {
	i.Date = &date
	return i
}

func (i InputError) Unwrap() error {
	return i.Err
}

func (i InputError) Error() string {
	var details []string
	if i.PatientId != "" {
		details = append(details, fmt.Sprintf("patient=%s", i.PatientId))
	}
	if i.Clinic != "" {
		details = append(details, fmt.Sprintf("clinic=%s", i.Clinic))
	}
	if i.Date != nil {
		details = append(details, fmt.Sprintf("date=%s", i.Date.Format(time.DateOnly)))
	}
	if len(details) == 0 {
		return i.Err.Error()
	}
	return fmt.Sprintf("%s (%s)", i.Err.Error(), strings.Join(details, ", "))
}

// IsInputError reports whether err was caused by invalid caller input
func IsInputError(err error) bool {
	var e InputError
	return errors.As(err, &e)
}
