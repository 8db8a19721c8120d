package features

// Locator returns the distance in kilometers between a postal code and the clinic
type Locator interface {
	Distance(postalCode int) (float64, bool)
}

// AddPatientFeatures adds the age of the patient at the appointment and the distance to the clinic.
// Appointments with a postal code the locator does not know or without a birth year are dropped.
func AddPatientFeatures(t *Table, locator Locator) *Table {
	result := &Table{
		rows:     make([]Row, 0, len(t.rows)),
		computed: t.computed.Clone(),
	}
	for _, row := range t.rows {
		if row.BirthYear <= 0 {
			continue
		}
		distance, ok := locator.Distance(row.PostalCode)
		if !ok {
			continue
		}
		row.Distance = distance
		row.Age = float64(row.Start.Year() - row.BirthYear)
		result.rows = append(result.rows, row)
	}

	result.markComputed(Distance, Age)
	return result
}
