package features_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/UMCU-Digital-Health/No-Show/appointments"
	"github.com/UMCU-Digital-Health/No-Show/features"
)

var _ = Describe("PrevNoShowFeatures", func() {
	It("counts the earlier no-shows of the patient", func() {
		list := []appointments.Appointment{
			{PatientId: "1234", Start: at("2022-01-01 00:00"), NoShow: label(true)},
			{PatientId: "1234", Start: at("2022-01-02 00:00"), NoShow: label(true)},
			{PatientId: "5678", Start: at("2022-01-01 00:00"), NoShow: label(true)},
			{PatientId: "5678", Start: at("2022-01-04 00:00"), NoShow: label(false)},
		}

		table, err := features.PrevNoShowFeatures(features.NewTable(list), 72*time.Hour)
		Expect(err).ToNot(HaveOccurred())
		Expect(table.Len()).To(Equal(4))
		Expect(column(table, features.PrevNoShow)).To(Equal([]float64{0, 0, 0, 1}))
		Expect(column(table, features.PrevNoShowPerc)).To(Equal([]float64{0, 0, 0, 1}))
		Expect(column(table, features.EarlierAppointments)).To(Equal([]float64{0, 0, 0, 1}))
	})

	It("returns the share of earlier appointments that was a no-show", func() {
		list := []appointments.Appointment{
			{PatientId: "1234", Start: at("2022-01-01 00:00"), NoShow: label(true)},
			{PatientId: "1234", Start: at("2022-01-10 00:00"), NoShow: label(false)},
			{PatientId: "1234", Start: at("2022-01-20 00:00"), NoShow: label(false)},
		}

		table, err := features.PrevNoShowFeatures(features.NewTable(list), 72*time.Hour)
		Expect(err).ToNot(HaveOccurred())
		Expect(column(table, features.PrevNoShowPerc)).To(Equal([]float64{0, 1, 0.5}))
	})
})
