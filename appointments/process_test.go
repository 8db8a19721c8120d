package appointments_test

import (
	"errors"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/UMCU-Digital-Health/No-Show/appointments"
	appointmentsTest "github.com/UMCU-Digital-Health/No-Show/appointments/test"
	"github.com/UMCU-Digital-Health/No-Show/test"
)

type filterFunc func([]appointments.Appointment, *time.Time) ([]appointments.Appointment, error)

func (f filterFunc) Apply(list []appointments.Appointment, startDate *time.Time) ([]appointments.Appointment, error) {
	return f(list, startDate)
}

var passThrough = filterFunc(func(list []appointments.Appointment, _ *time.Time) ([]appointments.Appointment, error) {
	return list, nil
})

var _ = Describe("Process", func() {
	var list []appointments.Appointment
	var opts appointments.ProcessOptions

	BeforeEach(func() {
		list = appointmentsTest.RandomHistory("1234", at("2022-01-01 09:00"), 4)
		opts = appointments.ProcessOptions{NoShowCodes: mapset.NewSet[string]("M")}
	})

	It("labels no-shows from the cancellation code", func() {
		list[1].CancellationCode = test.Ptr("M")
		list[2].CancellationCode = test.Ptr("X")

		result, err := appointments.Process(list, passThrough, opts)
		Expect(err).ToNot(HaveOccurred())
		Expect(result).To(HaveLen(4))
		Expect(result[0].NoShow).To(Equal(appointments.LabelShow))
		Expect(result[1].NoShow).To(Equal(appointments.LabelNoShow))
		Expect(result[2].NoShow).To(Equal(appointments.LabelShow))
	})

	It("does not modify the input", func() {
		list[1].CancellationCode = test.Ptr("M")
		_, err := appointments.Process(list, passThrough, opts)
		Expect(err).ToNot(HaveOccurred())
		Expect(list[1].NoShow).To(BeEmpty())
	})

	It("drops phone consults and appointments without a start", func() {
		list[0].ConsultType = test.Ptr(appointments.ConsultTypePhone)
		list[1].Start = time.Time{}

		result, err := appointments.Process(list, passThrough, opts)
		Expect(err).ToNot(HaveOccurred())
		Expect(result).To(HaveLen(2))
		Expect(result[0].Id).To(Equal(list[2].Id))
	})

	It("keeps the last appointment for duplicate keys", func() {
		duplicate := list[0]
		duplicate.Id = "last"
		list = append(list, duplicate)

		result, err := appointments.Process(list, passThrough, opts)
		Expect(err).ToNot(HaveOccurred())
		Expect(result).To(HaveLen(4))
		Expect(result[3].Id).To(Equal("last"))
	})

	It("treats the same instant in another location as a duplicate", func() {
		duplicate := list[0]
		duplicate.Id = "amsterdam"
		location, err := time.LoadLocation("Europe/Amsterdam")
		Expect(err).ToNot(HaveOccurred())
		duplicate.Start = duplicate.Start.In(location)
		list = append(list, duplicate)

		result := appointments.Deduplicate(list)
		Expect(result).To(HaveLen(4))
	})

	It("passes the start date to the filter", func() {
		startDate := at("2022-01-02 00:00")
		var received *time.Time
		filter := filterFunc(func(list []appointments.Appointment, date *time.Time) ([]appointments.Appointment, error) {
			received = date
			return list, nil
		})
		opts.StartDate = &startDate

		_, err := appointments.Process(list, filter, opts)
		Expect(err).ToNot(HaveOccurred())
		Expect(received).To(Equal(&startDate))
	})

	It("returns filter errors", func() {
		filter := filterFunc(func([]appointments.Appointment, *time.Time) ([]appointments.Appointment, error) {
			return nil, errors.New("bad config")
		})
		_, err := appointments.Process(list, filter, opts)
		Expect(err).To(MatchError(ContainSubstring("bad config")))
	})
})

var _ = Describe("SameDate", func() {
	It("compares calendar dates", func() {
		Expect(appointments.SameDate(at("2022-01-01 00:00"), at("2022-01-01 23:59"))).To(BeTrue())
		Expect(appointments.SameDate(at("2022-01-01 23:59"), at("2022-01-02 00:00"))).To(BeFalse())
	})
})
