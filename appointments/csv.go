package appointments

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	noshowErrors "github.com/UMCU-Digital-Health/No-Show/errors"
)

const (
	ColumnAppointmentId    = "APP_ID"
	ColumnPatientId        = "pseudo_id"
	ColumnAgenda           = "hoofdagenda"
	ColumnAgendaId         = "hoofdagenda_id"
	ColumnSubagendaId      = "subagenda_id"
	ColumnAppointmentCode  = "afspraak_code"
	ColumnConsultType      = "soort_consult"
	ColumnStart            = "start"
	ColumnEnd              = "end"
	ColumnArrived          = "gearriveerd"
	ColumnCreated          = "created"
	ColumnDuration         = "minutesDuration"
	ColumnStatus           = "status"
	ColumnCancellationCode = "cancelationReason_code"
	ColumnBirthYear        = "BIRTH_YEAR"
	ColumnPostalCode       = "address_postalCodeNumbersNL"
)

var requiredColumns = []string{ColumnAppointmentId, ColumnPatientId, ColumnAgendaId, ColumnStart, ColumnCreated}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

// CSVReader reads the appointment export of the data platform. Timestamps without
// an offset are interpreted in Location.
type CSVReader struct {
	Location *time.Location
}

func NewCSVReader(location *time.Location) *CSVReader {
	if location == nil {
		location = time.Local
	}
	return &CSVReader{Location: location}
}

func (c *CSVReader) Read(r io.Reader) ([]Appointment, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("appointments csv: %w", noshowErrors.NewInputError(noshowErrors.EmptyInput))
	} else if err != nil {
		return nil, fmt.Errorf("unable to read appointments header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")] = i
	}
	for _, name := range requiredColumns {
		if _, ok := colIdx[name]; !ok {
			return nil, fmt.Errorf("appointments csv column %q: %w", name, noshowErrors.NewInputError(noshowErrors.MissingColumn))
		}
	}

	result := make([]Appointment, 0)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("unable to read appointments line %d: %w", line+1, err)
		}
		line++

		appointment, err := c.parseRecord(colIdx, record)
		if err != nil {
			return nil, fmt.Errorf("appointments line %d: %w", line, err)
		}
		result = append(result, appointment)
	}

	return result, nil
}

func (c *CSVReader) parseRecord(colIdx map[string]int, record []string) (Appointment, error) {
	get := func(name string) string {
		if i, ok := colIdx[name]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	appointment := Appointment{
		Id:               get(ColumnAppointmentId),
		PatientId:        get(ColumnPatientId),
		Agenda:           get(ColumnAgenda),
		AgendaId:         get(ColumnAgendaId),
		SubagendaId:      get(ColumnSubagendaId),
		AppointmentCode:  get(ColumnAppointmentCode),
		ConsultType:      optional(get(ColumnConsultType)),
		Status:           get(ColumnStatus),
		CancellationCode: optional(get(ColumnCancellationCode)),
	}

	// Unparsable start and end times are coerced to zero, rows without a start are dropped during processing
	appointment.Start, _ = c.ParseTime(get(ColumnStart))
	appointment.End, _ = c.ParseTime(get(ColumnEnd))
	if arrived, err := c.ParseTime(get(ColumnArrived)); err == nil {
		appointment.Arrived = &arrived
	}

	var err error
	if appointment.Created, err = c.ParseTime(get(ColumnCreated)); err != nil {
		return Appointment{}, fmt.Errorf("invalid %s: %w", ColumnCreated, err)
	}
	if appointment.DurationMinutes, err = parseInt(get(ColumnDuration)); err != nil {
		return Appointment{}, fmt.Errorf("invalid %s: %w", ColumnDuration, err)
	}
	if appointment.BirthYear, err = parseInt(get(ColumnBirthYear)); err != nil {
		return Appointment{}, fmt.Errorf("invalid %s: %w", ColumnBirthYear, err)
	}
	if appointment.PostalCode, err = parseInt(get(ColumnPostalCode)); err != nil {
		return Appointment{}, fmt.Errorf("invalid %s: %w", ColumnPostalCode, err)
	}

	return appointment, nil
}

// ParseTime parses the timestamp formats found in the exports
func (c *CSVReader) ParseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, c.Location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// parseInt returns 0 for an empty value, feature building treats a zero birth year as missing
func parseInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	// Exports sometimes format integer columns as floats
	if f, err := strconv.ParseFloat(value, 64); err == nil && f == float64(int(f)) {
		return int(f), nil
	}
	return strconv.Atoi(value)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
