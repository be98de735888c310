// Package search translates a claim into a web-search request against the
// provider's grounded-browsing capability and normalizes the result into an
// ordered evidence list.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/wordlift/factcheck/internal/llm"
	"github.com/wordlift/factcheck/internal/models"
)

// ErrNoResults is returned when the provider yields no parsed search
// results after retries. An empty-but-parsed result list is not an error.
var ErrNoResults = errors.New("search: no results from provider")

// Evidence is a single web source. Order within a result list reflects the
// provider's relevance ranking.
type Evidence struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// resultList is the fixed JSON shape the model is instructed to return.
type resultList struct {
	Results []Evidence `json:"results"`
}

func (r *resultList) Validate() error {
	if r.Results == nil {
		return fmt.Errorf("search: results field missing")
	}
	return nil
}

const systemPrompt = `You are a research assistant. Search the web for information
about the given claim and return structured results.

Return your findings as a JSON object with this structure:
{
    "results": [
        {
            "title": "Source title/headline",
            "url": "https://source-url.com",
            "content": "Relevant excerpt or summary from the source"
        }
    ]
}

Include 3-5 relevant sources. Focus on authoritative sources like news sites,
official organizations, and fact-checking websites.`

// Gateway is the slice of the llm client the adapter needs.
type Gateway interface {
	CompleteInto(ctx context.Context, req llm.Request, out any) error
}

// Adapter performs evidence searches through the gateway. Immutable after
// construction.
type Adapter struct {
	gateway  Gateway
	selector *models.Selector
}

// NewAdapter builds a search adapter. The gateway must be backed by a
// provider that honors the ":online" model-name contract.
func NewAdapter(gateway Gateway, selector *models.Selector) *Adapter {
	return &Adapter{gateway: gateway, selector: selector}
}

// Search returns evidence for a claim, at most maxResults items. The limit
// is advisory to the model, not enforced post-hoc, so the provider may
// return fewer or more.
func (a *Adapter) Search(ctx context.Context, query string, maxResults int) ([]Evidence, error) {
	model, err := a.selector.WebsearchModelFor(models.UseCaseWebsearch)
	if err != nil {
		return nil, err
	}

	req := llm.Request{
		Model: model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf(
				"Search for evidence about this claim: %s\n\nReturn up to %d relevant sources.",
				query, maxResults)},
		},
		Schema: resultSchema(),
	}

	var list resultList
	if err := a.gateway.CompleteInto(ctx, req, &list); err != nil {
		if errors.Is(err, llm.ErrEmptyResponse) {
			return nil, fmt.Errorf("%w: %v", ErrNoResults, err)
		}
		return nil, err
	}
	return list.Results, nil
}

// resultSchema describes the evidence-list shape sent to the provider.
func resultSchema() *llm.SchemaSpec {
	return &llm.SchemaSpec{
		Name:        "websearch_results",
		Description: "Web search results grounding a fact-check",
		Definition: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []string{"results"},
			"properties": map[string]any{
				"results": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":                 "object",
						"additionalProperties": false,
						"required":             []string{"title", "url", "content"},
						"properties": map[string]any{
							"title":   map[string]any{"type": "string"},
							"url":     map[string]any{"type": "string"},
							"content": map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	}
}
