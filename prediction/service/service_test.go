package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/UMCU-Digital-Health/No-Show/appointments"
	appointmentsTest "github.com/UMCU-Digital-Health/No-Show/appointments/test"
	"github.com/UMCU-Digital-Health/No-Show/clinics"
	"github.com/UMCU-Digital-Health/No-Show/config"
	noshowErrors "github.com/UMCU-Digital-Health/No-Show/errors"
	"github.com/UMCU-Digital-Health/No-Show/features"
	"github.com/UMCU-Digital-Health/No-Show/geo"
	"github.com/UMCU-Digital-Health/No-Show/prediction"
	"github.com/UMCU-Digital-Health/No-Show/prediction/service"
	predictionTest "github.com/UMCU-Digital-Health/No-Show/prediction/test"
	dbTest "github.com/UMCU-Digital-Health/No-Show/store/test"
	"github.com/UMCU-Digital-Health/No-Show/treatment"
	treatmentTest "github.com/UMCU-Digital-Health/No-Show/treatment/test"
)

const clinicConfig = `
no_show_codes: [M]
clinics:
  cardiology:
    include_rct: true
    phone_number: "58831"
    main_agenda_codes: [H1]
  pulmonology:
    include_rct: false
    phone_number: "58832"
    main_agenda_codes: [H3]
`

func history(patientId, agendaId string, start time.Time, count int) []appointments.Appointment {
	result := appointmentsTest.RandomHistory(patientId, start, count)
	for i := range result {
		result[i].AgendaId = agendaId
		result[i].PostalCode = 3994
		result[i].Status = appointments.StatusPlanned
	}
	return result
}

func constantScores(score float64) func(context.Context, *features.Matrix) ([]float64, error) {
	return func(_ context.Context, matrix *features.Matrix) ([]float64, error) {
		scores := make([]float64, len(matrix.Values))
		for i := range scores {
			scores[i] = score
		}
		return scores, nil
	}
}

var _ = Describe("Prediction Service", func() {
	var ctrl *gomock.Controller
	var repo *treatmentTest.MockRepository
	var scorer *predictionTest.MockScorer
	var cfg *config.Config
	var params service.Params
	var svc prediction.Service
	var batch []appointments.Appointment

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		repo = treatmentTest.NewMockRepository(ctrl)
		scorer = predictionTest.NewMockScorer(ctrl)

		cfg = config.New()
		Expect(cfg.LoadFromEnv()).To(Succeed())

		clinicsConfig, err := clinics.Parse([]byte(clinicConfig))
		Expect(err).ToNot(HaveOccurred())

		locator, err := geo.NewLocator(geo.PostalCodes{3994: {Latitude: 52.0, Longitude: 5.1}}, cfg.Origin(), 16)
		Expect(err).ToNot(HaveOccurred())

		params = service.Params{
			Config:     cfg,
			Clinics:    clinicsConfig,
			Bins:       treatmentTest.UniformBins("cardiology", "pulmonology"),
			Locator:    locator,
			Scorer:     scorer,
			Repository: repo,
			DbClient:   dbTest.GetTestDatabase().Client(),
			Logger:     zap.NewNop().Sugar(),
		}
		svc, err = service.NewService(params)
		Expect(err).ToNot(HaveOccurred())

		start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		batch = append(history("p1", "H1", start, 5), history("p2", "H3", start, 5)...)
	})

	Describe("NewService", func() {
		It("rejects invalid score bins", func() {
			params.Bins = treatment.BinEdges{"cardiology": {0, 0.6, 0.4, 1}}
			_, err := service.NewService(params)
			Expect(err).To(MatchError(treatment.ErrInvalidBinEdges))
		})
	})

	Describe("Predict", func() {
		It("scores the batch and saves new assignments", func() {
			scorer.EXPECT().Score(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, matrix *features.Matrix) ([]float64, error) {
				Expect(matrix.Columns).To(Equal(features.ModelColumns))
				Expect(matrix.Values).To(HaveLen(10))
				return constantScores(0.4)(nil, matrix)
			})
			repo.EXPECT().Get(gomock.Any(), []string{"p1", "p2"}).Return(nil, nil)
			repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, updates []treatment.Assignment) error {
				Expect(updates).To(HaveLen(2))
				return nil
			})

			result, err := svc.Predict(context.Background(), prediction.Request{Appointments: batch})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.RunId).ToNot(BeEmpty())
			Expect(result.Rows).To(HaveLen(10))

			groups := result.Groups()
			Expect(groups["p1"].InTrial()).To(BeTrue())
			Expect(groups["p2"]).To(Equal(treatment.GroupExcluded))

			for _, row := range result.Rows {
				Expect(row.TreatmentGroup).To(Equal(groups[row.PatientId]))
				Expect(row.CallDate.Before(row.Start)).To(BeTrue())
				Expect(row.CallDate.Weekday()).ToNot(BeElementOf(time.Saturday, time.Sunday))
			}
		})

		It("only scores planned appointments from the start date", func() {
			startDate := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
			batch[4].Status = "completed"

			scorer.EXPECT().Score(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, matrix *features.Matrix) ([]float64, error) {
				Expect(matrix.Values).To(HaveLen(3))
				for _, key := range matrix.Keys {
					Expect(key.Start.Before(startDate)).To(BeFalse())
				}
				return constantScores(0.9)(nil, matrix)
			})
			repo.EXPECT().Get(gomock.Any(), []string{"p1", "p2"}).Return(nil, nil)
			repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

			result, err := svc.Predict(context.Background(), prediction.Request{Appointments: batch, StartDate: &startDate})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Rows).To(HaveLen(3))
		})

		It("keeps the persisted group of known patients", func() {
			scorer.EXPECT().Score(gomock.Any(), gomock.Any()).DoAndReturn(constantScores(0.1))
			repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return([]treatment.Assignment{
				{PatientId: "p1", TreatmentGroup: treatment.GroupControl},
				{PatientId: "p2", TreatmentGroup: treatment.GroupExcluded},
			}, nil)
			repo.EXPECT().Upsert(gomock.Any(), gomock.Len(0)).Return(nil)

			result, err := svc.Predict(context.Background(), prediction.Request{Appointments: batch})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Updates).To(BeEmpty())
			Expect(result.Groups()).To(Equal(map[string]treatment.Group{
				"p1": treatment.GroupControl,
				"p2": treatment.GroupExcluded,
			}))
		})

		It("fails without a scorer", func() {
			params.Scorer = nil
			svc, err := service.NewService(params)
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.Predict(context.Background(), prediction.Request{Appointments: batch})
			Expect(err).To(MatchError(prediction.ErrNoScorer))
		})

		It("fails when nothing is left to score", func() {
			startDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
			_, err := svc.Predict(context.Background(), prediction.Request{Appointments: batch, StartDate: &startDate})
			Expect(err).To(MatchError(prediction.ErrNothingToScore))
			Expect(err).To(MatchError(treatment.ErrEmptyPredictions))
			Expect(noshowErrors.IsInputError(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("date=2025-01-01"))
		})

		It("fails when the scorer returns the wrong number of scores", func() {
			scorer.EXPECT().Score(gomock.Any(), gomock.Any()).Return([]float64{0.5}, nil)

			_, err := svc.Predict(context.Background(), prediction.Request{Appointments: batch})
			Expect(err).To(MatchError(prediction.ErrScoreCount))
		})

		It("returns scorer errors", func() {
			scorer.EXPECT().Score(gomock.Any(), gomock.Any()).Return(nil, errors.New("model unavailable"))

			_, err := svc.Predict(context.Background(), prediction.Request{Appointments: batch})
			Expect(err).To(MatchError(ContainSubstring("model unavailable")))
		})
	})

	Describe("Assign", func() {
		It("does not save anything when the randomizer fails", func() {
			predictions := treatmentTest.RandomPredictions(4, 2, "dermatology")
			params.Clinics.Clinics["dermatology"] = clinics.Clinic{Name: "dermatology", IncludeRCT: true, MainAgendaCodes: []string{"H4"}}
			svc, err := service.NewService(params)
			Expect(err).ToNot(HaveOccurred())

			repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)

			_, err = svc.Assign(context.Background(), predictions)
			Expect(err).To(MatchError(treatment.ErrUnknownClinic))
		})

		It("rejects predictions for clinics that are not configured", func() {
			predictions := treatmentTest.RandomPredictions(2, 1, "neurology")

			_, err := svc.Assign(context.Background(), predictions)
			Expect(err).To(MatchError(clinics.ErrNotFound))
			Expect(noshowErrors.IsInputError(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("clinic=neurology"))
		})

		It("is not affected by later changes to the clinic configuration", func() {
			params.Clinics.Clinics["cardiology"] = clinics.Clinic{Name: "cardiology", IncludeRCT: false}
			delete(params.Clinics.Clinics, "pulmonology")

			repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
			repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

			result, err := svc.Assign(context.Background(), treatmentTest.RandomPredictions(2, 1, "cardiology"))
			Expect(err).ToNot(HaveOccurred())
			for _, group := range result.Groups() {
				Expect(group.InTrial()).To(BeTrue())
			}
		})

		It("returns repository errors", func() {
			repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

			_, err := svc.Assign(context.Background(), treatmentTest.RandomPredictions(2, 1, "cardiology"))
			Expect(err).To(MatchError(ContainSubstring("connection reset")))
		})
	})
})
