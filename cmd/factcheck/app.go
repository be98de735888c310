package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/wordlift/factcheck/internal/config"
	"github.com/wordlift/factcheck/internal/llm"
	"github.com/wordlift/factcheck/internal/models"
	"github.com/wordlift/factcheck/internal/pipeline"
	"github.com/wordlift/factcheck/internal/retry"
	"github.com/wordlift/factcheck/internal/search"
	"github.com/wordlift/factcheck/internal/service"
)

// buildService wires providers, gateway clients, selector, adapter, and
// pipeline from configuration. All components are immutable after this
// point; the service is the only handle the surfaces need.
func buildService(cfg config.Config, logger *log.Logger) (*service.Service, error) {
	if cfg.OpenRouter.APIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY is not set")
	}

	policy := retry.Policy{
		MaxRetries:   cfg.Retry.MaxRetries,
		BaseDelay:    cfg.Retry.BaseDelay,
		MaxDelay:     cfg.Retry.MaxDelay,
		JitterFactor: cfg.Retry.JitterFactor,
	}

	// The websearch step always runs through OpenRouter; the ":online"
	// model-name contract is specific to it.
	searchClient := llm.NewClient(
		llm.NewOpenRouterProvider(cfg.OpenRouter.APIKey, cfg.OpenRouter.BaseURL), policy)

	evalProvider, err := newEvaluationProvider(cfg)
	if err != nil {
		return nil, err
	}
	evalClient := llm.NewClient(evalProvider, policy)

	selector := models.NewSelector(map[models.UseCase]string{
		models.UseCaseWebsearch:  cfg.Models.Websearch,
		models.UseCaseEvaluation: cfg.Models.Evaluation,
	})

	adapter := search.NewAdapter(searchClient, selector)
	pipe := pipeline.New(adapter, evalClient, selector, pipeline.WithLogger(logger))

	return service.New(pipe, cfg.Search.MaxResults), nil
}

// newEvaluationProvider dispatches on the configured backend for the
// evaluation step.
func newEvaluationProvider(cfg config.Config) (llm.Provider, error) {
	switch strings.ToLower(cfg.Providers.Evaluation) {
	case "openrouter", "":
		return llm.NewOpenRouterProvider(cfg.OpenRouter.APIKey, cfg.OpenRouter.BaseURL), nil
	case "anthropic":
		if cfg.Providers.AnthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
		return llm.NewAnthropicProvider(cfg.Providers.AnthropicKey), nil
	case "google":
		if cfg.Providers.GoogleKey == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY is not set")
		}
		return llm.NewGoogleProvider(cfg.Providers.GoogleKey), nil
	default:
		return nil, fmt.Errorf("unknown evaluation provider %q", cfg.Providers.Evaluation)
	}
}
