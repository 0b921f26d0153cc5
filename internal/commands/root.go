package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/buglloc/adguard-rewriter/internal/config"
)

var cfg *config.Config

var rootArgs struct {
	configs []string
	verbose bool
}

var rootCmd = &cobra.Command{
	Use:           "adguard-rewriter",
	SilenceUsage:  true,
	SilenceErrors: true,
	Short:         "Keeps AdGuard Home DNS rewrites pointed at this machine's LAN address",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level := zerolog.InfoLevel
		if rootArgs.verbose {
			level = zerolog.DebugLevel
		}

		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().
			Timestamp().
			Logger()

		var err error
		cfg, err = config.LoadConfig(rootArgs.configs...)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		return nil
	},
	// bare invocation behaves like "sync"
	RunE: func(cmd *cobra.Command, args []string) error {
		return syncCmd.RunE(cmd, args)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringSliceVarP(&rootArgs.configs, "config", "c", nil, "config file(s) layered on top of the environment")
	flags.BoolVarP(&rootArgs.verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(
		syncCmd,
		configCmd,
	)
}

func Execute() error {
	return rootCmd.Execute()
}
