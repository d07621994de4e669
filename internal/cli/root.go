package cli

import (
	"os"

	"github.com/spf13/cobra"

	"quizshow/internal/config"
)

var configPath string

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = config.DefaultPath
	}

	cmd := &cobra.Command{
		Use:           "quizshow",
		Short:         "Three-round timed quiz in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewPlayCmd(&configPath))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewBankCmd(&configPath))
	cmd.AddCommand(NewScoresCmd(&configPath))
	return cmd
}
