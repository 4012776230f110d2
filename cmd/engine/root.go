package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	dataDir := os.Getenv("AWARDPOOL_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}

	ctx := newCommandContext(&dataDir)

	rootCmd := &cobra.Command{
		Use:           "engine",
		Short:         "Award ceremony prediction pool engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", dataDir, "Directory holding config.yml and the database (env AWARDPOOL_DATA_DIR)")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newNomineesCommand(ctx))
	rootCmd.AddCommand(newWinnersCommand(ctx))
	rootCmd.AddCommand(newLeaderboardCommand(ctx))
	rootCmd.AddCommand(newSimilarityCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newImportCommand(ctx))

	return rootCmd
}
