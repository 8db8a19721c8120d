package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/UMCU-Digital-Health/No-Show/appointments"
	"github.com/UMCU-Digital-Health/No-Show/clinics"
	"github.com/UMCU-Digital-Health/No-Show/config"
	noshowErrors "github.com/UMCU-Digital-Health/No-Show/errors"
	"github.com/UMCU-Digital-Health/No-Show/features"
	"github.com/UMCU-Digital-Health/No-Show/prediction"
	"github.com/UMCU-Digital-Health/No-Show/store"
	"github.com/UMCU-Digital-Health/No-Show/treatment"
)

type service struct {
	config   *config.Config
	clinics  *clinics.Config
	bins     treatment.BinEdges
	locator  features.Locator
	scorer   prediction.Scorer
	repo     treatment.Repository
	dbClient *mongo.Client
	logger   *zap.SugaredLogger
}

var _ prediction.Service = &service{}

type Params struct {
	fx.In

	Config     *config.Config
	Clinics    *clinics.Config
	Bins       treatment.BinEdges
	Locator    features.Locator
	Scorer     prediction.Scorer `optional:"true"`
	Repository treatment.Repository
	DbClient   *mongo.Client
	Logger     *zap.SugaredLogger
}

func NewService(p Params) (prediction.Service, error) {
	if err := p.Bins.Validate(); err != nil {
		return nil, err
	}

	return &service{
		config:   p.Config,
		clinics:  p.Clinics.Clone(),
		bins:     p.Bins,
		locator:  p.Locator,
		scorer:   p.Scorer,
		repo:     p.Repository,
		dbClient: p.DbClient,
		logger:   p.Logger,
	}, nil
}

func (s *service) Predict(ctx context.Context, request prediction.Request) (*prediction.Result, error) {
	if s.scorer == nil {
		return nil, prediction.ErrNoScorer
	}

	runId := uuid.NewString()
	logger := s.logger.With("runId", runId)

	processed, err := appointments.Process(request.Appointments, s.clinics, appointments.ProcessOptions{
		NoShowCodes: s.clinics.NoShowCodeSet(),
		StartDate:   request.StartDate,
	})
	if err != nil {
		return nil, err
	}

	table, err := features.CreateFeatures(processed, s.locator, s.config.FeatureOptions())
	if err != nil {
		return nil, err
	}
	logger.Infow("created features",
		"appointments", len(request.Appointments),
		"processed", len(processed),
		"located", table.Len(),
	)

	if request.StartDate != nil {
		startDate := *request.StartDate
		table = table.Filter(func(row features.Row) bool {
			return row.Status == s.config.StatusPlanned && !row.Start.Before(startDate)
		})
	}
	if table.Len() == 0 {
		err := noshowErrors.NewInputError(prediction.ErrNothingToScore)
		if request.StartDate != nil {
			err = err.WithDate(*request.StartDate)
		}
		return nil, err
	}

	matrix, err := features.SelectColumns(table, features.ModelColumns)
	if err != nil {
		return nil, err
	}

	scores, err := s.scorer.Score(ctx, matrix)
	if err != nil {
		return nil, fmt.Errorf("unable to score appointments: %w", err)
	}
	if len(scores) != table.Len() {
		return nil, fmt.Errorf("%w: expected %d, got %d", prediction.ErrScoreCount, table.Len(), len(scores))
	}

	predictions := make([]treatment.Prediction, table.Len())
	for i, row := range table.Rows() {
		predictions[i] = treatment.Prediction{
			AppointmentId: row.Id,
			PatientId:     row.PatientId,
			Clinic:        row.Clinic,
			Start:         row.Start,
			Score:         scores[i],
		}
	}
	logger.Infow("scored appointments", "count", len(predictions))

	return s.assign(ctx, runId, logger, predictions)
}

func (s *service) Assign(ctx context.Context, predictions []treatment.Prediction) (*prediction.Result, error) {
	runId := uuid.NewString()
	return s.assign(ctx, runId, s.logger.With("runId", runId), predictions)
}

func (s *service) assign(ctx context.Context, runId string, logger *zap.SugaredLogger, predictions []treatment.Prediction) (*prediction.Result, error) {
	for _, p := range predictions {
		if _, err := s.clinics.Get(p.Clinic); err != nil {
			return nil, err
		}
	}
	rctClinics := s.clinics.RCTClinics()

	var transaction store.Transaction = func(sessionCtx mongo.SessionContext) (interface{}, error) {
		existing, err := s.repo.Get(sessionCtx, patientIds(predictions))
		if err != nil {
			return nil, fmt.Errorf("unable to get existing assignments: %w", err)
		}

		rng := rand.New(rand.NewSource(s.config.RandomSeed))
		result, err := treatment.CreateTreatmentGroups(predictions, existing, s.bins, rctClinics, rng)
		if err != nil {
			return nil, err
		}

		if err := s.repo.Upsert(sessionCtx, result.Updates); err != nil {
			return nil, fmt.Errorf("unable to save assignments: %w", err)
		}
		return result, nil
	}

	res, err := store.WithTransaction(ctx, s.dbClient, transaction)
	if err != nil {
		return nil, err
	}
	result := res.(*treatment.Result)

	rows := make([]prediction.Row, len(result.Rows))
	for i, row := range result.Rows {
		rows[i] = prediction.Row{
			Row:      row,
			CallDate: prediction.CallDate(row.Start, s.config.CallLeadWorkingDays),
		}
	}
	assigned := &prediction.Result{
		RunId:   runId,
		Rows:    rows,
		Updates: result.Updates,
	}

	patients := make(map[treatment.Group]int)
	for _, group := range assigned.Groups() {
		patients[group]++
	}
	logger.Infow("assigned treatment groups",
		"rows", len(rows),
		"updates", len(result.Updates),
		"control", patients[treatment.GroupControl],
		"treatment", patients[treatment.GroupTreatment],
		"excluded", patients[treatment.GroupExcluded],
	)

	return assigned, nil
}

func patientIds(predictions []treatment.Prediction) []string {
	ids := mapset.NewThreadUnsafeSet[string]()
	for _, p := range predictions {
		ids.Add(p.PatientId)
	}
	result := ids.ToSlice()
	sort.Strings(result)
	return result
}
