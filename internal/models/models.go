// Package models maps logical use cases to concrete model identifiers,
// isolating the pipeline from model-naming churn.
package models

import (
	"errors"
	"fmt"
)

// UseCase names a logical pipeline step.
type UseCase string

const (
	// UseCaseWebsearch is the evidence-gathering step.
	UseCaseWebsearch UseCase = "websearch"
	// UseCaseEvaluation is the verdict-rendering step.
	UseCaseEvaluation UseCase = "evaluation"
)

// OnlineSuffix is the provider's model-name marker that enables web-grounded
// search mode. Appending it is an OpenRouter-specific contract.
const OnlineSuffix = ":online"

// ErrUnknownUseCase is returned when a use case has no configured model.
var ErrUnknownUseCase = errors.New("models: unknown use case")

// Selector resolves use cases to model identifiers. The mapping is fixed at
// construction and never mutated, so a Selector is safe for concurrent use.
type Selector struct {
	mapping map[UseCase]string
}

// DefaultMapping mirrors the shipped model configuration.
func DefaultMapping() map[UseCase]string {
	return map[UseCase]string{
		UseCaseWebsearch:  "x-ai/grok-4-fast",
		UseCaseEvaluation: "openai/gpt-4o-mini",
	}
}

// NewSelector builds a Selector from a use case → model mapping. Entries
// with empty model names fall back to the default mapping.
func NewSelector(mapping map[UseCase]string) *Selector {
	m := DefaultMapping()
	for uc, model := range mapping {
		if model != "" {
			m[uc] = model
		}
	}
	return &Selector{mapping: m}
}

// ModelFor returns the model identifier for a use case.
func (s *Selector) ModelFor(uc UseCase) (string, error) {
	model, ok := s.mapping[uc]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownUseCase, uc)
	}
	return model, nil
}

// WebsearchModelFor returns the model identifier for a use case with the
// online-search capability marker appended.
func (s *Selector) WebsearchModelFor(uc UseCase) (string, error) {
	model, err := s.ModelFor(uc)
	if err != nil {
		return "", err
	}
	return model + OnlineSuffix, nil
}
