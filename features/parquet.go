package features

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
)

const parquetFlushInterval = 100_000

// Record is the parquet layout of a feature table row
type Record struct {
	PatientId            string    `parquet:"pseudo_id"`
	Start                time.Time `parquet:"start,timestamp(millisecond)"`
	Clinic               string    `parquet:"clinic"`
	Hour                 int32     `parquet:"hour"`
	Weekday              int32     `parquet:"weekday"`
	Duration             int32     `parquet:"minutesDuration"`
	NoShow               string    `parquet:"no_show"`
	PrevNoShow           float64   `parquet:"prev_no_show"`
	PrevNoShowPerc       float64   `parquet:"prev_no_show_perc"`
	Age                  int32     `parquet:"age"`
	Distance             float64   `parquet:"dist_umcu"`
	PrevMinutesEarly     float64   `parquet:"prev_minutes_early"`
	EarlierAppointments  float64   `parquet:"earlier_appointments"`
	AppointmentsSameDay  float64   `parquet:"appointments_same_day"`
	AppointmentsLastDays float64   `parquet:"appointments_last_days"`
	DaysSinceCreated     float64   `parquet:"days_since_created"`
	DaysSinceLast        float64   `parquet:"days_since_last_appointment"`
}

func NewRecord(row Row) Record {
	return Record{
		PatientId:            row.PatientId,
		Start:                row.Start,
		Clinic:               row.Clinic,
		Hour:                 int32(row.Hour),
		Weekday:              int32(row.Weekday),
		Duration:             int32(row.Duration),
		NoShow:               string(row.NoShow),
		PrevNoShow:           row.PrevNoShow,
		PrevNoShowPerc:       row.PrevNoShowPerc,
		Age:                  int32(row.Age),
		Distance:             row.Distance,
		PrevMinutesEarly:     row.PrevMinutesEarly,
		EarlierAppointments:  row.EarlierAppointments,
		AppointmentsSameDay:  row.AppointmentsSameDay,
		AppointmentsLastDays: row.AppointmentsLastDays,
		DaysSinceCreated:     row.DaysSinceCreated,
		DaysSinceLast:        row.DaysSinceLast,
	}
}

// WriteParquet writes the feature table in table order. All feature columns must have been computed.
func WriteParquet(w io.Writer, t *Table) error {
	if err := t.require(FeatureColumns...); err != nil {
		return err
	}

	writer := parquet.NewGenericWriter[Record](w, parquet.Compression(&parquet.Snappy))
	for i, row := range t.rows {
		if _, err := writer.Write([]Record{NewRecord(row)}); err != nil {
			return fmt.Errorf("failed to write parquet record: %w", err)
		}
		if (i+1)%parquetFlushInterval == 0 {
			if err := writer.Flush(); err != nil {
				return fmt.Errorf("failed to flush parquet row group: %w", err)
			}
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func WriteParquetFile(path string, t *Table) error {
	file, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	if err := WriteParquet(file, t); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// ReadParquet reads back a feature table export
func ReadParquet(r io.ReaderAt, size int64) ([]Record, error) {
	file, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	reader := parquet.NewGenericReader[Record](file)
	defer reader.Close()

	records := make([]Record, reader.NumRows())
	if len(records) == 0 {
		return records, nil
	}
	n, err := reader.Read(records)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read parquet records: %w", err)
	}
	return records[:n], nil
}
