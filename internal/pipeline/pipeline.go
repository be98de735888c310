// Package pipeline sequences the two-step fact-check flow: evidence search
// followed by structured evaluation.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/wordlift/factcheck/internal/llm"
	"github.com/wordlift/factcheck/internal/models"
	"github.com/wordlift/factcheck/internal/schema"
	"github.com/wordlift/factcheck/internal/search"
)

// Searcher is the evidence-gathering step.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]search.Evidence, error)
}

// Evaluator is the structured-completion slice of the gateway used by the
// evaluation step.
type Evaluator interface {
	CompleteInto(ctx context.Context, req llm.Request, out any) error
}

// Params carries one pipeline execution.
type Params struct {
	Query      string
	MaxResults int
}

// Pipeline composes the search adapter and the gateway into a deterministic
// two-step flow. All collaborators are injected at construction and the
// pipeline holds no mutable state, so it is safe for concurrent use.
type Pipeline struct {
	searcher  Searcher
	evaluator Evaluator
	selector  *models.Selector
	now       func() time.Time
	logger    *log.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the time source used for datePublished.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithLogger overrides the pipeline logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// New builds a Pipeline.
func New(searcher Searcher, evaluator Evaluator, selector *models.Selector, opts ...Option) *Pipeline {
	p := &Pipeline{
		searcher:  searcher,
		evaluator: evaluator,
		selector:  selector,
		now:       time.Now,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Execute runs the two steps in sequence and returns the verdict verbatim.
// Either a complete ClaimReview is returned or the execution fails as a
// whole; there is no partial result and no silent empty-evidence fallback.
func (p *Pipeline) Execute(ctx context.Context, params Params) (*schema.ClaimReview, error) {
	p.logger.Printf("pipeline: searching evidence query=%q max=%d", truncate(params.Query, 50), params.MaxResults)

	evidence, err := p.searcher.Search(ctx, params.Query, params.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("pipeline: search: %w", err)
	}
	p.logger.Printf("pipeline: search complete results=%d", len(evidence))

	review, err := p.evaluate(ctx, params.Query, evidence)
	if err != nil {
		return nil, fmt.Errorf("pipeline: evaluate: %w", err)
	}
	p.logger.Printf("pipeline: evaluation complete rating=%s verdict=%q",
		review.ReviewRating.RatingValue, review.ReviewRating.AlternateName)

	return review, nil
}

// evaluate runs the structured evaluation step. The date is captured once
// at entry so that datePublished stays consistent even if the provider call
// spans a date boundary.
func (p *Pipeline) evaluate(ctx context.Context, claim string, evidence []search.Evidence) (*schema.ClaimReview, error) {
	model, err := p.selector.ModelFor(models.UseCaseEvaluation)
	if err != nil {
		return nil, err
	}

	date := p.now().Format("2006-01-02")

	req := llm.Request{
		Model: model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: buildSystemPrompt(date)},
			{Role: llm.RoleUser, Content: buildUserPrompt(claim, evidence, date)},
		},
		Schema: &llm.SchemaSpec{
			Name:        "claim_review",
			Description: "schema.org ClaimReview fact-check verdict",
			Definition:  schema.ClaimReviewJSONSchema(),
		},
	}

	var review schema.ClaimReview
	if err := p.evaluator.CompleteInto(ctx, req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// truncate shortens s to at most n characters, never splitting a rune.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
