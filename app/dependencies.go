package app

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/UMCU-Digital-Health/No-Show/clinics"
	"github.com/UMCU-Digital-Health/No-Show/config"
	"github.com/UMCU-Digital-Health/No-Show/features"
	"github.com/UMCU-Digital-Health/No-Show/geo"
	"github.com/UMCU-Digital-Health/No-Show/logger"
	"github.com/UMCU-Digital-Health/No-Show/prediction/service"
	"github.com/UMCU-Digital-Health/No-Show/store"
	"github.com/UMCU-Digital-Health/No-Show/treatment"
	treatmentRepository "github.com/UMCU-Digital-Health/No-Show/treatment/repository"
)

// Dependencies returns the options of the dependency graph shared by all commands
func Dependencies() []fx.Option {
	return []fx.Option{
		fx.Provide(
			logger.NewProductionLogger,
			logger.Suggar,
			NewConfig,
			NewClinics,
			NewBinEdges,
			NewLocator,
			store.NewConfig,
			store.NewClient,
			store.NewDatabase,
			treatmentRepository.NewRepository,
			service.NewService,
		),
	}
}

func NewConfig() (*config.Config, error) {
	cfg := config.New()
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}
	return cfg, nil
}

func NewClinics(cfg *config.Config, logger *zap.SugaredLogger) (*clinics.Config, error) {
	clinicsConfig, err := clinics.Load(cfg.ClinicConfigPath, cfg.ClinicOverridePath)
	if err != nil {
		return nil, err
	}

	logger.Infow("loaded clinic configuration",
		"clinics", clinicsConfig.Names(),
		"rct", clinicsConfig.RCTClinics().ToSlice(),
	)
	return clinicsConfig, nil
}

func NewBinEdges(cfg *config.Config) (treatment.BinEdges, error) {
	return treatment.LoadBinEdges(cfg.ScoreBinsPath)
}

func NewLocator(cfg *config.Config, logger *zap.SugaredLogger) (features.Locator, error) {
	postalCodes, err := geo.LoadPostalCodes(cfg.PostalCodesPath)
	if err != nil {
		return nil, err
	}
	logger.Infow("loaded postal codes", "count", len(postalCodes))

	return geo.NewLocator(postalCodes, cfg.Origin(), cfg.DistanceCacheSize)
}
