package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/UMCU-Digital-Health/No-Show/treatment"
)

var assignmentsListParams = struct {
	Group      int
	PatientIds []string
}{}

var assignmentsCmd = &cobra.Command{
	Use:   "assignments",
	Short: "Inspect persisted treatment assignments",
}

var assignmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List treatment assignments",
	Long:  "The list command prints the persisted treatment group of every patient",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(listAssignments) },
}

func init() {
	assignmentsListCmd.Flags().IntVarP(&assignmentsListParams.Group, "group", "g", -1, "Only list patients in this treatment group (0, 1 or 2)")
	assignmentsListCmd.Flags().StringSliceVarP(&assignmentsListParams.PatientIds, "patient", "p", nil, "Only list these patients")

	assignmentsCmd.AddCommand(assignmentsListCmd)
	rootCmd.AddCommand(assignmentsCmd)
}

func listAssignments(repo treatment.Repository) error {
	filter := treatment.Filter{PatientIds: assignmentsListParams.PatientIds}
	if assignmentsListParams.Group >= 0 {
		group := treatment.Group(assignmentsListParams.Group)
		filter.Group = &group
	}

	list, err := repo.List(context.TODO(), &filter)
	if err != nil {
		return err
	}

	for _, assignment := range list {
		fmt.Printf("%s %s (%s)\n", assignment.PatientId, strconv.Itoa(int(assignment.TreatmentGroup)), assignment.TreatmentGroup)
	}
	fmt.Printf("Found %v assignments\n", len(list))

	return nil
}
