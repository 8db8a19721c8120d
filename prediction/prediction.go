package prediction

//go:generate mockgen --build_flags=--mod=mod -source=./prediction.go -destination=./test/mock_scorer.go -package test Scorer,Service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UMCU-Digital-Health/No-Show/appointments"
	"github.com/UMCU-Digital-Health/No-Show/features"
	"github.com/UMCU-Digital-Health/No-Show/treatment"
)

var (
	ErrNoScorer       = errors.New("no scorer is configured")
	ErrScoreCount     = errors.New("the number of scores does not match the number of appointments")
	ErrNothingToScore = fmt.Errorf("the batch has no appointments to score: %w", treatment.ErrEmptyPredictions)
)

// Scorer returns the predicted no-show probability of every row of the matrix
type Scorer interface {
	Score(ctx context.Context, matrix *features.Matrix) ([]float64, error)
}

type Service interface {
	// Predict builds the features of a raw appointment batch, scores them and assigns
	// treatment groups to the scored patients
	Predict(ctx context.Context, request Request) (*Result, error)
	// Assign assigns treatment groups to already scored appointments and persists new assignments
	Assign(ctx context.Context, predictions []treatment.Prediction) (*Result, error)
}

type Request struct {
	Appointments []appointments.Appointment
	// StartDate limits the scored rows to planned appointments starting at or after this date.
	// The full history is still used to build the features.
	StartDate *time.Time
}

type Row struct {
	treatment.Row
	// CallDate is the date on which the patient should be called when in the treatment group
	CallDate time.Time
}

type Result struct {
	RunId   string
	Rows    []Row
	Updates []treatment.Assignment
}

// Groups returns the treatment group of every patient in the result
func (r *Result) Groups() map[string]treatment.Group {
	groups := make(map[string]treatment.Group, len(r.Rows))
	for _, row := range r.Rows {
		if _, ok := groups[row.PatientId]; !ok {
			groups[row.PatientId] = row.TreatmentGroup
		}
	}
	return groups
}

// TreatmentResult drops the call dates
func (r *Result) TreatmentResult() *treatment.Result {
	rows := make([]treatment.Row, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = row.Row
	}
	return &treatment.Result{Rows: rows, Updates: r.Updates}
}
