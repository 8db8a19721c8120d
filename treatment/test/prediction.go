package test

import (
	"time"

	"github.com/UMCU-Digital-Health/No-Show/test"
	"github.com/UMCU-Digital-Health/No-Show/treatment"
)

func RandomPrediction(clinics ...string) treatment.Prediction {
	if len(clinics) == 0 {
		clinics = []string{"cardiology", "pulmonology"}
	}
	return treatment.Prediction{
		AppointmentId: test.Faker.UUID().V4(),
		PatientId:     test.Faker.UUID().V4(),
		Clinic:        test.Faker.RandomStringElement(clinics),
		Start: test.Faker.Time().TimeBetween(
			time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 31, 17, 0, 0, 0, time.UTC),
		).Truncate(time.Minute),
		Score: test.Rand.Float64(),
	}
}

// RandomPredictions returns count predictions spread over the given number of patients
func RandomPredictions(count, patients int, clinics ...string) []treatment.Prediction {
	patientIds := make([]string, patients)
	for i := range patientIds {
		patientIds[i] = test.Faker.UUID().V4()
	}

	result := make([]treatment.Prediction, count)
	for i := range result {
		result[i] = RandomPrediction(clinics...)
		result[i].PatientId = patientIds[i%patients]
	}
	return result
}

// UniformBins returns quartile bins for every clinic
func UniformBins(clinics ...string) treatment.BinEdges {
	result := make(treatment.BinEdges, len(clinics))
	for _, clinic := range clinics {
		result[clinic] = []float64{0, 0.25, 0.5, 0.75, 1}
	}
	return result
}
