package main

import (
	"lecture-qa/internal/domain"
	"lecture-qa/internal/extractor"
	"lecture-qa/internal/logger"

	"github.com/spf13/cobra"
)

type extractOutput struct {
	Slides  []domain.SlideRecord  `json:"slides"`
	Summary domain.LectureSummary `json:"summary"`
}

var extractCmd = &cobra.Command{
	Use:   "extract <deck.pptx>",
	Short: "Print the slides and summary of a deck as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slides, err := newExtractor(appConfig, logger.Get()).Extract(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		compact, _ := cmd.Flags().GetBool("compact")
		return writeJSON(cmd.OutOrStdout(), extractOutput{
			Slides:  slides,
			Summary: extractor.Summarize(slides),
		}, compact)
	},
}
