package main

import (
	"fmt"

	"github.com/iwvelando/rent-intel/internal/config"
	"github.com/iwvelando/rent-intel/internal/report"
	"github.com/iwvelando/rent-intel/pkg/constants"
	"github.com/iwvelando/rent-intel/pkg/output"
	"github.com/iwvelando/rent-intel/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Score the configured listings and price the configured portfolio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, opts)
		},
	}
}

func runReport(cmd *cobra.Command, opts *rootOptions) error {
	conf, err := config.LoadConfiguration(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", opts.configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	result, err := report.Build(cmd.Context(), logger, *conf)
	if err != nil {
		logger.Error("failed to build report",
			zap.String("op", "main.runReport"),
			zap.Error(err),
		)
		return err
	}

	return output.Write(cmd.OutOrStdout(), outputFormat, result)
}
