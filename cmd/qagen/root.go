package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"lecture-qa/internal/adapter/pptx"
	"lecture-qa/internal/config"
	"lecture-qa/internal/extractor"
	"lecture-qa/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "qagen",
	Short:         "Generate lecture questions from PowerPoint decks",
	Long:          "qagen reads a .pptx deck, extracts its slides and asks the configured model for difficulty-balanced questions.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			cfg.Logger.Level = "debug"
		}
		appConfig = cfg
		return logger.Initialize(cfg.Logger)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// appConfig is loaded before any subcommand runs.
var appConfig *config.Config

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Log at debug level")
	rootCmd.PersistentFlags().Bool("compact", false, "Print JSON without indentation")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(generateCmd)
}

func newExtractor(cfg *config.Config, l *zap.Logger) *extractor.Extractor {
	return extractor.NewExtractor(pptx.NewReader(l), extractor.HeuristicFor(cfg.Extractor.TitleReferenceEMU), l)
}

func writeJSON(w io.Writer, v interface{}, compact bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
