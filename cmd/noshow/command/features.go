package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/UMCU-Digital-Health/No-Show/appointments"
	"github.com/UMCU-Digital-Health/No-Show/clinics"
	"github.com/UMCU-Digital-Health/No-Show/config"
	"github.com/UMCU-Digital-Health/No-Show/features"
)

var featuresParams = struct {
	AppointmentsPath string
	OutputPath       string
	StartDate        string
}{}

var featuresCmd = &cobra.Command{
	Use:   "features {appointments.csv}",
	Args:  cobra.ExactArgs(1),
	Short: "Build the feature table of an appointment export",
	Long:  "The features command builds the feature table of an appointment export and writes it as parquet",
	RunE: func(cmd *cobra.Command, args []string) error {
		featuresParams.AppointmentsPath = args[0]
		return Run(buildFeatures)
	},
}

func init() {
	featuresCmd.Flags().StringVarP(&featuresParams.OutputPath, "output", "o", "featuretable.parquet", "Output parquet file")
	featuresCmd.Flags().StringVar(&featuresParams.StartDate, "start-date", "", "Only keep patients with an appointment on this date (YYYY-MM-DD)")

	rootCmd.AddCommand(featuresCmd)
}

func buildFeatures(cfg *config.Config, clinicsConfig *clinics.Config, locator features.Locator, logger *zap.SugaredLogger) error {
	location, err := cfg.TimeLocation()
	if err != nil {
		return err
	}
	startDate, err := parseStartDate(featuresParams.StartDate, location)
	if err != nil {
		return err
	}

	file, err := os.Open(filepath.Clean(featuresParams.AppointmentsPath))
	if err != nil {
		return fmt.Errorf("unable to open appointments: %w", err)
	}
	defer file.Close()

	list, err := appointments.NewCSVReader(location).Read(file)
	if err != nil {
		return err
	}

	processed, err := appointments.Process(list, clinicsConfig, appointments.ProcessOptions{
		NoShowCodes: clinicsConfig.NoShowCodeSet(),
		StartDate:   startDate,
	})
	if err != nil {
		return err
	}

	table, err := features.CreateFeatures(processed, locator, cfg.FeatureOptions())
	if err != nil {
		return err
	}

	if err := features.WriteParquetFile(featuresParams.OutputPath, table); err != nil {
		return err
	}

	logger.Infow("wrote feature table",
		"path", featuresParams.OutputPath,
		"appointments", len(list),
		"processed", len(processed),
		"rows", table.Len(),
	)
	return nil
}
