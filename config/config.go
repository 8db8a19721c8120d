package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/UMCU-Digital-Health/No-Show/features"
	"github.com/UMCU-Digital-Health/No-Show/geo"
)

type Config struct {
	ClinicConfigPath   string `envconfig:"NOSHOW_CLINIC_CONFIG_PATH" default:"config/clinics.yaml" required:"true"`
	ClinicOverridePath string `envconfig:"NOSHOW_CLINIC_CONFIG_OVERRIDE_PATH"`
	PostalCodesPath    string `envconfig:"NOSHOW_POSTAL_CODES_PATH" default:"data/NL.txt" required:"true"`
	ScoreBinsPath      string `envconfig:"NOSHOW_SCORE_BINS_PATH" default:"config/score_bins.yaml" required:"true"`

	AppointmentsLastDays int           `envconfig:"NOSHOW_APPOINTMENTS_LAST_DAYS" default:"14"`
	MinutesEarlyCutoff   int           `envconfig:"NOSHOW_MINUTES_EARLY_CUTOFF" default:"60"`
	ExcludeLast          time.Duration `envconfig:"NOSHOW_EXCLUDE_LAST" default:"72h"`

	RandomSeed          int64  `envconfig:"NOSHOW_RANDOM_SEED" default:"1337"`
	CallLeadWorkingDays int    `envconfig:"NOSHOW_CALL_LEAD_WORKING_DAYS" default:"3"`
	StatusPlanned       string `envconfig:"NOSHOW_STATUS_PLANNED" default:"planned"`

	ClinicLatitude    float64 `envconfig:"NOSHOW_CLINIC_LATITUDE" default:"52.08593762444437"`
	ClinicLongitude   float64 `envconfig:"NOSHOW_CLINIC_LONGITUDE" default:"5.179600848939784"`
	DistanceCacheSize int     `envconfig:"NOSHOW_DISTANCE_CACHE_SIZE" default:"4096"`

	// Location is used for timestamps without an offset
	Location string `envconfig:"NOSHOW_TIMEZONE" default:"Europe/Amsterdam"`
}

func New() *Config {
	return &Config{}
}

func (c *Config) LoadFromEnv() error {
	return envconfig.Process("", c)
}

func (c *Config) FeatureOptions() features.Options {
	return features.Options{
		AppointmentsLastDays: c.AppointmentsLastDays,
		MinutesEarlyCutoff:   c.MinutesEarlyCutoff,
		ExcludeLast:          c.ExcludeLast,
	}
}

func (c *Config) Origin() geo.Point {
	return geo.Point{Latitude: c.ClinicLatitude, Longitude: c.ClinicLongitude}
}

func (c *Config) TimeLocation() (*time.Location, error) {
	return time.LoadLocation(c.Location)
}
