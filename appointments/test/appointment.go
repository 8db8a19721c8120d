package test

import (
	"fmt"
	"time"

	"github.com/UMCU-Digital-Health/No-Show/appointments"
	"github.com/UMCU-Digital-Health/No-Show/test"
)

var postalCodes = []int{3994, 2034, 3738, 8225, 3072, 9724}

func RandomAppointment() appointments.Appointment {
	start := test.Faker.Time().TimeBetween(
		time.Date(2022, 1, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 1, 17, 0, 0, 0, time.UTC),
	).Truncate(time.Minute)
	created := start.Add(-time.Duration(test.Rand.Intn(60*24)) * time.Hour)
	arrived := start.Add(-time.Duration(test.Rand.Intn(30)) * time.Minute)

	return appointments.Appointment{
		Id:              fmt.Sprintf("%d", test.Faker.IntBetween(100000, 999999)),
		PatientId:       test.Faker.UUID().V4(),
		Agenda:          test.Faker.Company().Name(),
		AgendaId:        test.Faker.RandomStringElement([]string{"H1", "H2", "H3"}),
		SubagendaId:     test.Faker.RandomStringElement([]string{"S1", "S2"}),
		AppointmentCode: test.Faker.RandomStringElement([]string{"H45", "H46"}),
		Status:          appointments.StatusPlanned,
		Start:           start,
		End:             start.Add(20 * time.Minute),
		Created:         created,
		Arrived:         &arrived,
		DurationMinutes: 20,
		BirthYear:       test.Faker.IntBetween(1930, 2020),
		PostalCode:      postalCodes[test.Rand.Intn(len(postalCodes))],
	}
}

// RandomHistory returns count appointments of a single patient, one per day starting at start
func RandomHistory(patientId string, start time.Time, count int) []appointments.Appointment {
	result := make([]appointments.Appointment, 0, count)
	for i := 0; i < count; i++ {
		appointment := RandomAppointment()
		appointment.PatientId = patientId
		appointment.Start = start.AddDate(0, 0, i)
		appointment.End = appointment.Start.Add(20 * time.Minute)
		appointment.Created = appointment.Start.AddDate(0, 0, -7)
		result = append(result, appointment)
	}
	return result
}
