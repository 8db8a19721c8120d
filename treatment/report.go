package treatment

import (
	"sort"
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v3"
)

const (
	ReportSheetNameSummary     = "Summary"
	ReportSheetNameAssignments = "Assignments"
)

var reportGroups = []Group{GroupControl, GroupTreatment, GroupExcluded}

type Report struct {
	result      *Result
	createdTime time.Time
}

func NewReport(result *Result, createdTime time.Time) Report {
	return Report{result: result, createdTime: createdTime}
}

func (r Report) Generate() (*xlsx.File, error) {
	report := xlsx.NewFile()

	components := []func(report *xlsx.File) error{
		r.addSummarySheet,
		r.addAssignmentsSheet,
	}
	for _, fn := range components {
		if err := fn(report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (r Report) addSummarySheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameSummary)
	if err != nil {
		return err
	}

	components := []func(sh *xlsx.Sheet) error{
		r.addSummaryHeader,
		r.addClinicSummary,
	}
	for _, fn := range components {
		if err := fn(sh); err != nil {
			return err
		}
	}

	return nil
}

func (r Report) addSummaryHeader(sh *xlsx.Sheet) error {
	sh.AddRow().AddCell().SetValue("Summary")
	sh.AddRow()

	currentRow := sh.AddRow()
	currentRow.AddCell().SetValue("Report Generated")
	currentRow.AddCell().SetValue(r.createdTime.Format(time.RFC3339))

	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("Predictions")
	currentRow.AddCell().SetInt(len(r.result.Rows))

	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("New or changed assignments")
	currentRow.AddCell().SetInt(len(r.result.Updates))
	sh.AddRow()

	return nil
}

// addClinicSummary adds the number of predictions per clinic and treatment group
func (r Report) addClinicSummary(sh *xlsx.Sheet) error {
	counts := make(map[string]map[Group]int)
	for _, row := range r.result.Rows {
		if _, ok := counts[row.Clinic]; !ok {
			counts[row.Clinic] = make(map[Group]int)
		}
		counts[row.Clinic][row.TreatmentGroup]++
	}
	clinics := make([]string, 0, len(counts))
	for clinic := range counts {
		clinics = append(clinics, clinic)
	}
	sort.Strings(clinics)

	currentRow := sh.AddRow()
	currentRow.AddCell().SetValue("Clinic ---")
	for _, group := range reportGroups {
		currentRow.AddCell().SetValue(group.String() + " ---")
	}

	for _, clinic := range clinics {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(clinic)
		for _, group := range reportGroups {
			currentRow.AddCell().SetInt(counts[clinic][group])
		}
	}

	return nil
}

func (r Report) addAssignmentsSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameAssignments)
	if err != nil {
		return err
	}

	currentRow := sh.AddRow()
	for _, title := range []string{"Patient", "Appointment", "Clinic", "Start", "Prediction", "Score Bin", "Treatment Group", "Source"} {
		currentRow.AddCell().SetValue(title)
	}

	for _, row := range r.result.Rows {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(row.PatientId)
		currentRow.AddCell().SetValue(row.AppointmentId)
		currentRow.AddCell().SetValue(row.Clinic)
		currentRow.AddCell().SetValue(row.Start.Format(time.RFC3339))
		currentRow.AddCell().SetFloat(row.Score)
		if row.Bin == NoBin {
			currentRow.AddCell()
		} else {
			currentRow.AddCell().SetValue(strconv.Itoa(row.Bin))
		}
		currentRow.AddCell().SetInt(int(row.TreatmentGroup))
		currentRow.AddCell().SetValue(string(row.Source))
	}

	return nil
}
