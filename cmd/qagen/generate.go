package main

import (
	"fmt"

	"lecture-qa/internal/adapter/llm"
	"lecture-qa/internal/difficulty"
	"lecture-qa/internal/domain"
	"lecture-qa/internal/generator"
	"lecture-qa/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type generateOutput struct {
	Sets    []domain.QuestionSet     `json:"question_sets"`
	Summary generator.Summary        `json:"summary"`
	Balance difficulty.BalanceReport `json:"balance"`
}

var generateCmd = &cobra.Command{
	Use:   "generate <deck.pptx>",
	Short: "Generate questions for a deck and print them as JSON",
	Long: `Without --total every slide with enough content gets --per-slide questions
spread over the default tiers. With --total the questions are allocated over
the whole deck following --easy, --medium and --hard.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.Int("per-slide", 0, "Questions per slide (defaults to generation.qa_per_slide)")
	f.Int("max-slides", 0, "Only use the first N slides (defaults to generation.max_slides_for_qa)")
	f.Int("total", 0, "Generate a comprehensive set of this many questions")
	f.Float64("easy", 0, "Share of easy questions for --total")
	f.Float64("medium", 0, "Share of medium questions for --total")
	f.Float64("hard", 0, "Share of hard questions for --total")
	f.Int("concurrency", 0, "Parallel model calls (defaults to generation.concurrency)")
}

// ratiosFromFlags returns the ratios given on the command line, or the
// configured defaults when none of the three flags is set.
func ratiosFromFlags(cmd *cobra.Command, fallback difficulty.Ratios) (difficulty.Ratios, error) {
	if !cmd.Flags().Changed("easy") && !cmd.Flags().Changed("medium") && !cmd.Flags().Changed("hard") {
		return fallback, nil
	}
	var r difficulty.Ratios
	r.Easy, _ = cmd.Flags().GetFloat64("easy")
	r.Medium, _ = cmd.Flags().GetFloat64("medium")
	r.Hard, _ = cmd.Flags().GetFloat64("hard")
	if err := difficulty.ValidateRatios(r); err != nil {
		return r, fmt.Errorf("invalid ratios: %w", err)
	}
	return r, nil
}

func intFlag(cmd *cobra.Command, name string, fallback int) int {
	if v, _ := cmd.Flags().GetInt(name); v > 0 {
		return v
	}
	return fallback
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := appConfig
	l := logger.Get()

	defaults := difficulty.Ratios{
		Easy:   cfg.Generation.DefaultRatios.Easy,
		Medium: cfg.Generation.DefaultRatios.Medium,
		Hard:   cfg.Generation.DefaultRatios.Hard,
	}
	if defaults == (difficulty.Ratios{}) {
		defaults = difficulty.DefaultRatios()
	}
	ratios, err := ratiosFromFlags(cmd, defaults)
	if err != nil {
		return err
	}
	total, _ := cmd.Flags().GetInt("total")
	if total < 0 {
		return fmt.Errorf("--total must not be negative")
	}

	slides, err := newExtractor(cfg, l).Extract(ctx, args[0])
	if err != nil {
		return err
	}

	model, err := llm.NewQuestionModel(ctx, cfg.LLM, l)
	if err != nil {
		return fmt.Errorf("create question model: %w", err)
	}
	orchestrator := generator.NewOrchestrator(model, l, intFlag(cmd, "concurrency", cfg.Generation.Concurrency))

	var sets []domain.QuestionSet
	if total > 0 {
		sets, err = orchestrator.GenerateComprehensive(ctx, slides, total, ratios)
		if err != nil {
			return err
		}
	} else {
		slides = limitSlides(slides, intFlag(cmd, "max-slides", cfg.Generation.MaxSlidesForQA))
		sets = orchestrator.Generate(ctx, slides, intFlag(cmd, "per-slide", cfg.Generation.QAPerSlide))
	}

	out := generateOutput{
		Sets:    sets,
		Summary: generator.Summarize(sets),
		Balance: difficulty.AnalyzeBalance(generator.Questions(sets)),
	}
	l.Info("Generation finished",
		zap.Int("requested", out.Summary.Requested),
		zap.Int("generated", out.Summary.Generated),
		zap.Float64("balance_score", out.Balance.BalanceScore),
		zap.Bool("is_balanced", out.Balance.IsBalanced))

	compact, _ := cmd.Flags().GetBool("compact")
	return writeJSON(cmd.OutOrStdout(), out, compact)
}

// limitSlides keeps the first limit slides. A limit of zero or less keeps all.
func limitSlides(slides []domain.SlideRecord, limit int) []domain.SlideRecord {
	if limit > 0 && limit < len(slides) {
		return slides[:limit]
	}
	return slides
}
