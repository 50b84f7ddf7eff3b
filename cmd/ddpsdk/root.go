package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var formatFlag string
	var apiKeyFlag string

	ctx := newCommandContext(&configFlag, &formatFlag, &apiKeyFlag)

	rootCmd := &cobra.Command{
		Use:           "ddpsdk",
		Short:         "Drive the ddp engine: extract WAV tracks and metadata from DDP images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.outputFormat(cmd); err != nil {
				return err
			}
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "Output format: table, json or yaml (default: table on a terminal, json otherwise)")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "Engine API key (overrides engine.api_key and DDP_API_KEY)")

	rootCmd.AddCommand(newProcessCommand(ctx))
	rootCmd.AddCommand(newProcessBytesCommand(ctx))
	rootCmd.AddCommand(newJSONCommand(ctx))
	rootCmd.AddCommand(newVerifyCommand(ctx))
	rootCmd.AddCommand(newStagingCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
