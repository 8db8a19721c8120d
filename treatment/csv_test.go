package treatment_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	noshowErrors "github.com/UMCU-Digital-Health/No-Show/errors"
	"github.com/UMCU-Digital-Health/No-Show/treatment"
)

var _ = Describe("Predictions csv", func() {
	const predictionsCSV = "pseudo_id,APP_ID,clinic,start,prediction\n" +
		"1234,1,cardiology,2024-03-01 09:00:00,0.25\n" +
		"5678,2,pulmonology,2024-03-01T10:30:00Z,0.7\n"

	It("reads the predictions", func() {
		predictions, err := treatment.ReadPredictions(strings.NewReader(predictionsCSV), time.UTC)
		Expect(err).ToNot(HaveOccurred())
		Expect(predictions).To(HaveLen(2))
		Expect(predictions[0].PatientId).To(Equal("1234"))
		Expect(predictions[0].AppointmentId).To(Equal("1"))
		Expect(predictions[0].Clinic).To(Equal("cardiology"))
		Expect(predictions[0].Start).To(BeTemporally("==", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)))
		Expect(predictions[1].Score).To(Equal(0.7))
	})

	It("fails on an empty file", func() {
		_, err := treatment.ReadPredictions(strings.NewReader(""), time.UTC)
		Expect(err).To(MatchError(treatment.ErrEmptyPredictions))
	})

	It("fails on a missing column", func() {
		_, err := treatment.ReadPredictions(strings.NewReader("pseudo_id,APP_ID,start,prediction\n"), time.UTC)
		Expect(err).To(MatchError(noshowErrors.MissingColumn))
		Expect(err).To(MatchError(ContainSubstring(`"clinic"`)))
	})

	It("fails on an invalid score", func() {
		_, err := treatment.ReadPredictions(strings.NewReader("pseudo_id,APP_ID,clinic,start,prediction\n1,1,a,2024-03-01,high\n"), time.UTC)
		Expect(err).To(MatchError(ContainSubstring("line 2")))
	})

	It("writes the randomized rows", func() {
		rows := []treatment.Row{{
			Prediction: treatment.Prediction{
				PatientId:     "1234",
				AppointmentId: "1",
				Clinic:        "cardiology",
				Start:         time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
				Score:         0.25,
			},
			TreatmentGroup: treatment.GroupTreatment,
		}}

		buffer := &bytes.Buffer{}
		Expect(treatment.WriteRows(buffer, rows)).To(Succeed())

		records, err := csv.NewReader(buffer).ReadAll()
		Expect(err).ToNot(HaveOccurred())
		Expect(records).To(Equal([][]string{
			{"pseudo_id", "APP_ID", "clinic", "start", "prediction", "treatment_group"},
			{"1234", "1", "cardiology", "2024-03-01T09:00:00Z", "0.25", "1"},
		}))
	})
})
