package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	debug  bool
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "lessonctl",
		Short:         "Import lesson files and manage lesson templates",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if opts.debug {
				opts.logger, err = zap.NewDevelopment()
			} else {
				opts.logger, err = zap.NewProduction()
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Human-readable debug logging")

	cmd.AddCommand(newImportCmd(opts))
	cmd.AddCommand(newTemplateCmd())
	return cmd
}

func execute() error {
	return newRootCmd().Execute()
}
