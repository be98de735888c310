// Package service sits between the API/CLI surfaces and the pipeline. It
// validates the incoming claim and applies request defaults.
package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/wordlift/factcheck/internal/pipeline"
	"github.com/wordlift/factcheck/internal/schema"
)

// Claim length bounds, in characters after trimming.
const (
	MinClaimLength = 1
	MaxClaimLength = 1000
)

// DefaultMaxResults is the evidence-count hint used when none is configured.
const DefaultMaxResults = 5

// ValidationError records a caller input violation. It is never retried and
// maps to a client error at the API surface.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// Runner is the pipeline slice the service depends on.
type Runner interface {
	Execute(ctx context.Context, params pipeline.Params) (*schema.ClaimReview, error)
}

// Service executes fact checks. Immutable after construction.
type Service struct {
	pipeline   Runner
	maxResults int
}

// New builds a Service. maxResults <= 0 falls back to DefaultMaxResults.
func New(p Runner, maxResults int) *Service {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Service{pipeline: p, maxResults: maxResults}
}

// FactCheck validates the claim and runs the pipeline. The returned review
// is the pipeline's verdict verbatim.
func (s *Service) FactCheck(ctx context.Context, claim string) (*schema.ClaimReview, error) {
	claim = strings.TrimSpace(claim)
	length := utf8.RuneCountInString(claim)
	if length < MinClaimLength {
		return nil, &ValidationError{Field: "query", Message: "claim must not be empty"}
	}
	if length > MaxClaimLength {
		return nil, &ValidationError{
			Field:   "query",
			Message: fmt.Sprintf("claim must be at most %d characters", MaxClaimLength),
		}
	}
	return s.pipeline.Execute(ctx, pipeline.Params{Query: claim, MaxResults: s.maxResults})
}
