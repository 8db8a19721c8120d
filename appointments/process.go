package appointments

import (
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// Filter selects the appointments that belong to a configured clinic and tags them
type Filter interface {
	Apply(appointments []Appointment, startDate *time.Time) ([]Appointment, error)
}

type ProcessOptions struct {
	NoShowCodes mapset.Set[string]
	// StartDate restricts the batch to patients that have an appointment on this date
	StartDate *time.Time
}

// Process cleans a raw appointment batch so it can be used for feature building.
// The result has a unique (patient, start) key.
func Process(appointments []Appointment, filter Filter, opts ProcessOptions) ([]Appointment, error) {
	filtered, err := filter.Apply(appointments, opts.StartDate)
	if err != nil {
		return nil, fmt.Errorf("unable to apply clinic filters: %w", err)
	}

	labeled := SetLabels(filtered, opts.NoShowCodes)

	result := make([]Appointment, 0, len(labeled))
	for _, appointment := range labeled {
		if appointment.Start.IsZero() {
			continue
		}
		if appointment.IsPhoneConsult() {
			continue
		}
		result = append(result, appointment)
	}

	return Deduplicate(result), nil
}
