package treatment

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/UMCU-Digital-Health/No-Show/appointments"
	noshowErrors "github.com/UMCU-Digital-Health/No-Show/errors"
)

const (
	ColumnPatientId      = appointments.ColumnPatientId
	ColumnAppointmentId  = appointments.ColumnAppointmentId
	ColumnClinic         = "clinic"
	ColumnStart          = appointments.ColumnStart
	ColumnPrediction     = "prediction"
	ColumnTreatmentGroup = "treatment_group"
)

var predictionColumns = []string{ColumnPatientId, ColumnAppointmentId, ColumnClinic, ColumnStart, ColumnPrediction}

// ReadPredictions reads a scored appointments csv. Timestamps without an offset are interpreted in location.
func ReadPredictions(r io.Reader, location *time.Location) ([]Prediction, error) {
	timestamps := appointments.NewCSVReader(location)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, noshowErrors.NewInputError(ErrEmptyPredictions)
	} else if err != nil {
		return nil, fmt.Errorf("unable to read predictions header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")] = i
	}
	for _, name := range predictionColumns {
		if _, ok := colIdx[name]; !ok {
			return nil, fmt.Errorf("predictions csv column %q: %w", name, noshowErrors.NewInputError(noshowErrors.MissingColumn))
		}
	}

	result := make([]Prediction, 0)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("unable to read predictions line %d: %w", line+1, err)
		}
		line++

		get := func(name string) string {
			if i := colIdx[name]; i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		prediction := Prediction{
			AppointmentId: get(ColumnAppointmentId),
			PatientId:     get(ColumnPatientId),
			Clinic:        get(ColumnClinic),
		}
		if prediction.Start, err = timestamps.ParseTime(get(ColumnStart)); err != nil {
			return nil, fmt.Errorf("predictions line %d: invalid %s: %w", line, ColumnStart, err)
		}
		if prediction.Score, err = strconv.ParseFloat(get(ColumnPrediction), 64); err != nil {
			return nil, fmt.Errorf("predictions line %d: invalid %s: %w", line, ColumnPrediction, err)
		}
		result = append(result, prediction)
	}

	return result, nil
}

// WriteRows writes the randomized predictions with their treatment group
func WriteRows(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	header := append(append([]string{}, predictionColumns...), ColumnTreatmentGroup)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.PatientId,
			row.AppointmentId,
			row.Clinic,
			row.Start.Format(time.RFC3339),
			strconv.FormatFloat(row.Score, 'f', -1, 64),
			strconv.Itoa(int(row.TreatmentGroup)),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
