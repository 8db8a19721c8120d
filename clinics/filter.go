package clinics

import (
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/UMCU-Digital-Health/No-Show/appointments"
)

// Apply selects the appointments of every configured clinic and tags them with the clinic name.
// Clinics may share agendas, in that case an appointment is returned once per matching clinic.
// When startDate is set only patients with an appointment on that date are kept, including
// their appointments on other dates.
func (c *Config) Apply(list []appointments.Appointment, startDate *time.Time) ([]appointments.Appointment, error) {
	result := make([]appointments.Appointment, 0, len(list))
	for _, name := range c.Names() {
		result = append(result, c.Clinics[name].Select(list)...)
	}

	if startDate == nil {
		return result, nil
	}

	patients := mapset.NewThreadUnsafeSet[string]()
	for _, appointment := range result {
		if appointments.SameDate(appointment.Start, *startDate) {
			patients.Add(appointment.PatientId)
		}
	}

	kept := make([]appointments.Appointment, 0, len(result))
	for _, appointment := range result {
		if patients.Contains(appointment.PatientId) {
			kept = append(kept, appointment)
		}
	}

	return kept, nil
}

// Select returns the appointments that match the agenda, subagenda and appointment code rules of the clinic
func (c Clinic) Select(list []appointments.Appointment) []appointments.Appointment {
	agendas := mapset.NewThreadUnsafeSet(c.MainAgendaCodes...)
	subagendaAllowed := c.Subagendas.matcher()
	appcodeAllowed := c.Appcodes.matcher()

	result := make([]appointments.Appointment, 0)
	for _, appointment := range list {
		if !agendas.Contains(appointment.AgendaId) {
			continue
		}
		if !subagendaAllowed(appointment.SubagendaId) || !appcodeAllowed(appointment.AppointmentCode) {
			continue
		}
		appointment.Clinic = c.Name
		result = append(result, appointment)
	}
	return result
}
