package treatment

import (
	"context"
	"fmt"
	"time"

	noshowErrors "github.com/UMCU-Digital-Health/No-Show/errors"
)

//go:generate mockgen --build_flags=--mod=mod -source=./treatment.go -destination=./test/mock_repository.go -package test MockRepository

const (
	CollectionName = "patients"
)

// Group is the arm of the trial a patient is assigned to
type Group int

const (
	GroupControl   Group = 0
	GroupTreatment Group = 1
	GroupExcluded  Group = 2
)

func (g Group) String() string {
	switch g {
	case GroupControl:
		return "control"
	case GroupTreatment:
		return "treatment"
	case GroupExcluded:
		return "excluded"
	default:
		return fmt.Sprintf("Group(%d)", int(g))
	}
}

func (g Group) InTrial() bool {
	return g == GroupControl || g == GroupTreatment
}

var (
	ErrEmptyPredictions = fmt.Errorf("%w: the predictions are empty", noshowErrors.EmptyInput)
	ErrUnknownClinic    = fmt.Errorf("score bins %w", noshowErrors.UnknownClinic)
	ErrScoreOutOfRange  = fmt.Errorf("score %w", noshowErrors.OutOfRangeValue)
	ErrInvalidBinEdges  = fmt.Errorf("%w: score bin edges", noshowErrors.InvalidConfig)
)

// Prediction is the scored appointment of a patient
type Prediction struct {
	AppointmentId string    `json:"appId" bson:"appId"`
	PatientId     string    `json:"patientId" bson:"patientId"`
	Clinic        string    `json:"clinic" bson:"clinic"`
	Start         time.Time `json:"start" bson:"start"`
	Score         float64   `json:"prediction" bson:"prediction"`
}

// Assignment is the persisted treatment group of a patient. Once created the group
// only changes when the patient is excluded from the trial.
type Assignment struct {
	PatientId      string     `json:"patientId" bson:"_id"`
	TreatmentGroup Group      `json:"treatmentGroup" bson:"treatmentGroup"`
	CreatedTime    *time.Time `json:"createdTime,omitempty" bson:"createdTime,omitempty"`
	UpdatedTime    *time.Time `json:"updatedTime,omitempty" bson:"updatedTime,omitempty"`
}

type Repository interface {
	// Get returns the existing assignments of the patients, unknown patients are left out
	Get(ctx context.Context, patientIds []string) ([]Assignment, error)
	Upsert(ctx context.Context, assignments []Assignment) error
	List(ctx context.Context, filter *Filter) ([]Assignment, error)
}

type Filter struct {
	PatientIds []string
	Group      *Group
}
