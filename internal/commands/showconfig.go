package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:           "config",
	SilenceUsage:  true,
	SilenceErrors: true,
	Short:         "Prints the resolved configuration without touching the network",
	Run: func(_ *cobra.Command, _ []string) {
		cfg.Describe(os.Stdout)
	},
}
