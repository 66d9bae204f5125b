// Package generator drives prompt building, model calls and reply parsing
// over the slides of a lecture.
package generator

import (
	"context"
	"unicode/utf8"

	"lecture-qa/internal/difficulty"
	"lecture-qa/internal/domain"
	"lecture-qa/internal/parser"
	"lecture-qa/internal/prompt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	minTextLength  = 50
	minBulletCount = 2
)

// HasSufficientContent gates slides before any model call is made.
func HasSufficientContent(slide domain.SlideRecord) bool {
	return utf8.RuneCountInString(slide.FullText()) >= minTextLength ||
		utf8.RuneCountInString(slide.BodyText) >= minTextLength ||
		len(slide.BulletPoints) >= minBulletCount
}

// Orchestrator runs one model call per (slide, tier) unit. A unit that fails
// at the model or at parsing is dropped; it is never retried.
type Orchestrator struct {
	model       domain.QuestionModel
	logger      *zap.Logger
	concurrency int
}

// NewOrchestrator creates an orchestrator. concurrency below 1 runs units
// sequentially.
func NewOrchestrator(model domain.QuestionModel, logger *zap.Logger, concurrency int) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Orchestrator{model: model, logger: logger, concurrency: concurrency}
}

// SlidePlan is the tier quota of one slide in a run.
type SlidePlan struct {
	Slide domain.SlideRecord
	Quota difficulty.Quota
}

// Generate produces questions for every sufficient slide using the default
// per-slide distribution. Sets come back in slide order.
func (o *Orchestrator) Generate(ctx context.Context, slides []domain.SlideRecord, questionsPerSlide int) []domain.QuestionSet {
	quota := difficulty.DefaultDistribution(questionsPerSlide)

	plans := make([]SlidePlan, 0, len(slides))
	for _, slide := range o.qualifying(slides) {
		plans = append(plans, SlidePlan{Slide: slide, Quota: quota})
	}
	return o.run(ctx, plans)
}

// GenerateForSlide fills a single slide quota. The sufficiency gate is not
// applied here.
func (o *Orchestrator) GenerateForSlide(ctx context.Context, slide domain.SlideRecord, quota difficulty.Quota) domain.QuestionSet {
	return o.run(ctx, []SlidePlan{{Slide: slide, Quota: quota}})[0]
}

// GenerateComprehensive spreads total questions over the sufficient slides.
// Global tier counts come from AllocateQuota; each slide then takes at most
// one question per tier from the remaining pool.
func (o *Orchestrator) GenerateComprehensive(ctx context.Context, slides []domain.SlideRecord, total int, ratios difficulty.Ratios) ([]domain.QuestionSet, error) {
	if err := difficulty.ValidateRatios(ratios); err != nil {
		return nil, domain.NewInvalidInputError(err.Error())
	}

	valid := o.qualifying(slides)
	if len(valid) == 0 {
		o.logger.Warn("No slides with enough content for comprehensive generation")
		return []domain.QuestionSet{}, nil
	}

	plans := Allocate(valid, total, ratios)
	o.logger.Info("Comprehensive generation planned",
		zap.Int("total", total),
		zap.Int("slides", len(valid)),
		zap.Int("planned", plannedTotal(plans)))
	return o.run(ctx, plans), nil
}

// Allocate computes the comprehensive per-slide quotas without calling the
// model. The first total%len(slides) slides get one extra question.
func Allocate(slides []domain.SlideRecord, total int, ratios difficulty.Ratios) []SlidePlan {
	if len(slides) == 0 {
		return nil
	}
	if total < 0 {
		total = 0
	}
	perSlide := total / len(slides)
	extra := total % len(slides)

	pool := difficulty.NewPool(difficulty.AllocateQuota(total, ratios))
	plans := make([]SlidePlan, 0, len(slides))
	for i, slide := range slides {
		n := perSlide
		if i < extra {
			n++
		}
		var quota difficulty.Quota
		quota, pool = pool.Take(n)
		plans = append(plans, SlidePlan{Slide: slide, Quota: quota})
	}
	return plans
}

func plannedTotal(plans []SlidePlan) int {
	n := 0
	for _, p := range plans {
		n += p.Quota.Total()
	}
	return n
}

func (o *Orchestrator) qualifying(slides []domain.SlideRecord) []domain.SlideRecord {
	valid := make([]domain.SlideRecord, 0, len(slides))
	for _, slide := range slides {
		if !HasSufficientContent(slide) {
			o.logger.Info("Skipping slide with insufficient content", zap.Int("slide", slide.SlideNumber))
			continue
		}
		valid = append(valid, slide)
	}
	return valid
}

type unit struct {
	plan int
	tier domain.Difficulty
}

// run executes every unit of every plan and assembles the sets in plan
// order. Results are indexed by unit so parallel runs match sequential ones.
func (o *Orchestrator) run(ctx context.Context, plans []SlidePlan) []domain.QuestionSet {
	var units []unit
	for i, p := range plans {
		for _, tier := range p.Quota.Tiers() {
			units = append(units, unit{plan: i, tier: tier})
		}
	}

	results := make([]*domain.GeneratedQuestion, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, u := range units {
		g.Go(func() error {
			results[i] = o.generateOne(gctx, plans[u.plan].Slide, u.tier)
			return nil
		})
	}
	_ = g.Wait()

	sets := make([]domain.QuestionSet, len(plans))
	for i, p := range plans {
		sets[i] = domain.QuestionSet{
			SlideNumber: p.Slide.SlideNumber,
			SlideTitle:  p.Slide.Title,
			Questions:   []domain.GeneratedQuestion{},
			Requested:   p.Quota.Total(),
		}
	}
	for i, u := range units {
		if results[i] != nil {
			sets[u.plan].Questions = append(sets[u.plan].Questions, *results[i])
		}
	}

	for _, set := range sets {
		o.logger.Info("Slide generation finished",
			zap.Int("slide", set.SlideNumber),
			zap.Int("requested", set.Requested),
			zap.Int("generated", len(set.Questions)))
	}
	return sets
}

func (o *Orchestrator) generateOne(ctx context.Context, slide domain.SlideRecord, tier domain.Difficulty) *domain.GeneratedQuestion {
	p := prompt.Build(slide, tier)

	reply, err := o.model.Invoke(ctx, p.System, p.User)
	if err != nil {
		o.logger.Warn("Question model call failed",
			zap.Int("slide", slide.SlideNumber),
			zap.String("difficulty", string(tier)),
			zap.Error(err))
		return nil
	}

	q, err := parser.Parse(reply)
	if err != nil {
		o.logger.Warn("Discarding unparseable model reply",
			zap.Int("slide", slide.SlideNumber),
			zap.String("difficulty", string(tier)),
			zap.Error(err))
		return nil
	}
	return q
}
