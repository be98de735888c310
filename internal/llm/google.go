package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	googleoption "google.golang.org/api/option"
)

// GoogleProvider implements Provider using the Google Generative AI SDK.
// The API key is stored at construction time; a new genai.Client is created
// per Complete call so that the caller's context governs the connection and
// the client is always closed after use.
type GoogleProvider struct {
	apiKey string
}

// NewGoogleProvider builds a provider for the given API key.
func NewGoogleProvider(apiKey string) *GoogleProvider {
	return &GoogleProvider{apiKey: apiKey}
}

// Complete sends one generate-content call.
func (p *GoogleProvider) Complete(ctx context.Context, req Request) (string, error) {
	client, err := genai.NewClient(ctx, googleoption.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("google: genai client: %w", err)
	}
	defer client.Close()

	system, rest := splitSystem(req.Messages)
	if req.Schema != nil {
		system = strings.TrimSpace(system + "\n\n" + schemaInstruction(req.Schema))
	}

	m := client.GenerativeModel(req.Model)
	if system != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}
	if req.MaxTokens > 0 {
		maxOut := int32(req.MaxTokens)
		m.MaxOutputTokens = &maxOut
	}
	if req.Temperature > 0 {
		temp32 := float32(req.Temperature)
		m.Temperature = &temp32
	}
	if req.Schema != nil {
		// JSON output mode keeps the model from wrapping the response in
		// markdown code fences.
		m.ResponseMIMEType = "application/json"
	}

	var userParts []string
	for _, msg := range rest {
		userParts = append(userParts, msg.Content)
	}

	resp, err := m.GenerateContent(ctx, genai.Text(strings.Join(userParts, "\n\n")))
	if err != nil {
		return "", fmt.Errorf("google: generate content: %w", err)
	}

	var parts []string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				parts = append(parts, string(t))
			}
		}
	}
	if len(parts) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.Join(parts, ""), nil
}
