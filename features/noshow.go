package features

import (
	"math"
	"time"
)

// PrevNoShowFeatures adds the number of earlier no-shows and earlier appointments of the patient
// and the share of earlier appointments that was a no-show
func PrevNoShowFeatures(t *Table, excludeLast time.Duration) (*Table, error) {
	result, err := Cumulative(t, NoShow, PrevNoShow, excludeLast, Sum)
	if err != nil {
		return nil, err
	}
	result, err = Cumulative(result, NoShow, EarlierAppointments, excludeLast, Count)
	if err != nil {
		return nil, err
	}

	for i := range result.rows {
		result.rows[i].PrevNoShowPerc = ratio(result.rows[i].PrevNoShow, result.rows[i].EarlierAppointments)
	}
	result.markComputed(PrevNoShowPerc)
	return result, nil
}

// ratio divides a by b, an undefined or infinite result is 0
func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	value := a / b
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}
