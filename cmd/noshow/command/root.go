package command

import (
	"fmt"
	"os"
	"time"

	"github.com/DataDog/datadog-agent/pkg/util/fxutil"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/UMCU-Digital-Health/No-Show/app"
)

var logLevel string

// Run executes a given function with dependencies supplied by the no-show DI graph
// `f` must return an error or nothing
// `opts` can be used to supply additional arguments that are not provided by the graph
func Run(f interface{}, opts ...fx.Option) error {
	deps := append(opts, app.Dependencies()...)
	return fxutil.OneShot(f, deps...)
}

var rootCmd = &cobra.Command{
	Use:   "noshow",
	Short: "No-show feature builder and RCT treatment assignment",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Overwrite zap's log level
		return os.Setenv("LOG_LEVEL", logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "v", "info", "Log Level")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func parseStartDate(value string, location *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	startDate, err := time.ParseInLocation(time.DateOnly, value, location)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", value, err)
	}
	return &startDate, nil
}
