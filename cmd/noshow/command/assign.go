package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/UMCU-Digital-Health/No-Show/config"
	"github.com/UMCU-Digital-Health/No-Show/prediction"
	"github.com/UMCU-Digital-Health/No-Show/treatment"
)

var assignParams = struct {
	PredictionsPath string
	OutputPath      string
	ReportPath      string
}{}

var assignCmd = &cobra.Command{
	Use:   "assign {predictions.csv}",
	Args:  cobra.ExactArgs(1),
	Short: "Assign treatment groups to scored appointments",
	Long:  "The assign command assigns the patients of a predictions file to a treatment group and saves new assignments",
	RunE: func(cmd *cobra.Command, args []string) error {
		assignParams.PredictionsPath = args[0]
		return Run(assignTreatmentGroups)
	},
}

func init() {
	assignCmd.Flags().StringVarP(&assignParams.OutputPath, "output", "o", "", "Output csv file, defaults to stdout")
	assignCmd.Flags().StringVar(&assignParams.ReportPath, "report", "", "Optional xlsx report file")

	rootCmd.AddCommand(assignCmd)
}

func assignTreatmentGroups(cfg *config.Config, service prediction.Service, logger *zap.SugaredLogger) error {
	location, err := cfg.TimeLocation()
	if err != nil {
		return err
	}

	file, err := os.Open(filepath.Clean(assignParams.PredictionsPath))
	if err != nil {
		return fmt.Errorf("unable to open predictions: %w", err)
	}
	defer file.Close()

	predictions, err := treatment.ReadPredictions(file, location)
	if err != nil {
		return err
	}

	result, err := service.Assign(context.TODO(), predictions)
	if err != nil {
		return err
	}
	assigned := result.TreatmentResult()

	output := os.Stdout
	if assignParams.OutputPath != "" {
		output, err = os.Create(filepath.Clean(assignParams.OutputPath))
		if err != nil {
			return fmt.Errorf("unable to create output: %w", err)
		}
		defer output.Close()
	}
	if err := treatment.WriteRows(output, assigned.Rows); err != nil {
		return err
	}

	if assignParams.ReportPath != "" {
		report, err := treatment.NewReport(assigned, time.Now()).Generate()
		if err != nil {
			return err
		}
		if err := report.Save(assignParams.ReportPath); err != nil {
			return fmt.Errorf("unable to save report: %w", err)
		}
	}

	logger.Infow("assigned treatment groups",
		"runId", result.RunId,
		"predictions", len(predictions),
		"updates", len(result.Updates),
	)
	return nil
}
