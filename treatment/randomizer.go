package treatment

import (
	"errors"
	"math/rand"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	noshowErrors "github.com/UMCU-Digital-Health/No-Show/errors"
)

const DefaultSeed = 1337

// Source tells how the group of a prediction was decided
type Source string

const (
	SourceExisting Source = "existing"
	SourceExcluded Source = "excluded"
	SourceDrawn    Source = "drawn"
)

// NoBin is the bin of a row that did not need a draw
const NoBin = -1

type Row struct {
	Prediction
	TreatmentGroup Group  `json:"treatmentGroup"`
	Source         Source `json:"source"`
	Bin            int    `json:"bin"`
}

type Result struct {
	// Rows are ordered by descending score
	Rows []Row
	// Updates are the assignments that have to be persisted
	Updates []Assignment
}

type stratum struct {
	clinic string
	bin    int
}

// CreateTreatmentGroups assigns every prediction to a treatment group. Existing assignments are kept,
// predictions of clinics outside rctClinics are excluded from the trial. When rctClinics is nil every
// clinic takes part. New patients are alternately assigned to control and treatment within each
// (clinic, score bin) stratum in descending score order, starting at a random parity per stratum.
// Strata consume rng ordered by clinic name and bin.
func CreateTreatmentGroups(predictions []Prediction, existing []Assignment, bins BinEdges, rctClinics mapset.Set[string], rng *rand.Rand) (*Result, error) {
	if len(predictions) == 0 {
		return nil, noshowErrors.NewInputError(ErrEmptyPredictions)
	}

	assigned := make(map[string]Group, len(existing))
	for _, assignment := range existing {
		assigned[assignment.PatientId] = assignment.TreatmentGroup
	}

	rows := make([]Row, len(predictions))
	for i, prediction := range predictions {
		rows[i] = Row{Prediction: prediction, Bin: NoBin}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})

	strata := make(map[stratum][]int)
	for i := range rows {
		row := &rows[i]
		if rctClinics != nil && !rctClinics.Contains(row.Clinic) {
			row.TreatmentGroup = GroupExcluded
			row.Source = SourceExcluded
			continue
		}
		if group, ok := assigned[row.PatientId]; ok {
			row.TreatmentGroup = group
			row.Source = SourceExisting
			continue
		}

		bin, err := bins.Bin(row.Clinic, row.Score)
		if err != nil {
			return nil, withPatient(err, row.PatientId)
		}
		row.Bin = bin
		row.Source = SourceDrawn
		key := stratum{clinic: row.Clinic, bin: bin}
		strata[key] = append(strata[key], i)
	}

	// first pass, one draw per row
	draws := make(map[int]Group)
	for _, key := range sortedStrata(strata) {
		offset := rng.Intn(2)
		for k, i := range strata[key] {
			draws[i] = Group((k + offset) % 2)
		}
	}

	// second pass, collapse the draws of a patient
	patientDraws := make(map[string][]Group)
	for i := range rows {
		if group, ok := draws[i]; ok {
			patientDraws[rows[i].PatientId] = append(patientDraws[rows[i].PatientId], group)
		}
	}
	for i := range rows {
		if rows[i].Source != SourceDrawn {
			continue
		}
		group, _ := Mode(patientDraws[rows[i].PatientId])
		rows[i].TreatmentGroup = group
	}

	return &Result{
		Rows:    rows,
		Updates: updates(rows, assigned),
	}, nil
}

// Mode returns the most frequent group. Ties go to the group that appears first.
func Mode(groups []Group) (Group, bool) {
	if len(groups) == 0 {
		return 0, false
	}
	counts := make(map[Group]int, 3)
	for _, group := range groups {
		counts[group]++
	}
	best := groups[0]
	for _, group := range groups {
		if counts[group] > counts[best] {
			best = group
		}
	}
	return best, true
}

// updates returns a single assignment per patient in row order. A patient keeps the group of its
// trial rows, a patient without trial rows is excluded.
func updates(rows []Row, assigned map[string]Group) []Assignment {
	groups := make(map[string]Group)
	order := make([]string, 0)
	for _, row := range rows {
		current, seen := groups[row.PatientId]
		if !seen {
			order = append(order, row.PatientId)
			groups[row.PatientId] = row.TreatmentGroup
			continue
		}
		if !current.InTrial() && row.TreatmentGroup.InTrial() {
			groups[row.PatientId] = row.TreatmentGroup
		}
	}

	result := make([]Assignment, 0)
	for _, patientId := range order {
		group := groups[patientId]
		if previous, ok := assigned[patientId]; ok && previous == group {
			continue
		}
		result = append(result, Assignment{PatientId: patientId, TreatmentGroup: group})
	}
	return result
}

func sortedStrata(strata map[stratum][]int) []stratum {
	keys := make([]stratum, 0, len(strata))
	for key := range strata {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].clinic != keys[j].clinic {
			return keys[i].clinic < keys[j].clinic
		}
		return keys[i].bin < keys[j].bin
	})
	return keys
}

func withPatient(err error, patientId string) error {
	var inputErr noshowErrors.InputError
	if errors.As(err, &inputErr) {
		return inputErr.WithPatient(patientId)
	}
	return err
}
