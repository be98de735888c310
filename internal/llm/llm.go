// Package llm is the single chokepoint for calls to the external model
// provider. It centralizes authentication, retry discipline, and
// structured-output parsing and validation.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/wordlift/factcheck/internal/retry"
)

// ErrEmptyResponse is returned when the provider yields no usable content.
// It is commonly transient and therefore retryable.
var ErrEmptyResponse = errors.New("llm: empty response from provider")

// Message roles accepted by the chat protocol.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat turn.
type Message struct {
	Role    string
	Content string
}

// SchemaSpec describes a structured-output constraint. Definition is a JSON
// Schema document in map form.
type SchemaSpec struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Request carries one completion call. MaxTokens and Temperature of zero
// leave the provider default in place.
type Request struct {
	Model       string
	Messages    []Message
	MaxTokens   int64
	Temperature float64
	// Schema, when set, instructs the provider to constrain its output to
	// the given shape. The response is then parsed strictly before return.
	Schema *SchemaSpec
}

// Provider is the interface implemented by concrete model backends. A
// Provider returns the raw text of the completion; for structured requests
// that text is the JSON document.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Client wraps a Provider with the retry policy. It holds no request-scoped
// state and is safe for concurrent use.
type Client struct {
	provider Provider
	policy   retry.Policy
}

// NewClient builds a gateway client around a provider.
func NewClient(provider Provider, policy retry.Policy) *Client {
	return &Client{provider: provider, policy: policy}
}

// Complete performs a plain text completion under the retry policy.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	var text string
	err := c.policy.Do(ctx, func() error {
		var err error
		text, err = c.provider.Complete(ctx, req)
		return err
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// CompleteInto performs a schema-constrained completion and parses the
// response into out, which must be a non-nil pointer. A response that is
// absent, fails to parse, or fails out's Validate method is treated as
// ErrEmptyResponse and retried; no best-effort coercion is attempted.
// On error the contents of out are unspecified.
func (c *Client) CompleteInto(ctx context.Context, req Request, out any) error {
	if req.Schema == nil {
		return retry.Permanent(fmt.Errorf("llm: CompleteInto requires a schema"))
	}
	return c.policy.Do(ctx, func() error {
		raw, err := c.provider.Complete(ctx, req)
		if err != nil {
			return err
		}
		if err := decodeStrict(raw, out); err != nil {
			return fmt.Errorf("%w: %v", ErrEmptyResponse, err)
		}
		if v, ok := out.(interface{ Validate() error }); ok {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("%w: %v", ErrEmptyResponse, err)
			}
		}
		return nil
	})
}

// decodeStrict parses raw JSON into out after stripping markdown fences.
// Unknown fields are rejected so that a malformed document fails loudly
// instead of producing a partially-populated result.
func decodeStrict(raw string, out any) error {
	raw = stripMarkdownFences(raw)
	if raw == "" {
		return fmt.Errorf("no content")
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parse: %v", err)
	}
	if dec.More() {
		return fmt.Errorf("parse: trailing data after JSON value")
	}
	return nil
}

// fenceRe matches a markdown code fence block (``` or ~~~) with an optional
// language tag and captures the content between the fences.
var fenceRe = regexp.MustCompile("(?s)^(?:`{3}|~{3})[^\\n]*\\n(.*?)(?:`{3}|~{3})\\s*$")

// openFenceRe matches only an opening fence line, for truncated responses.
var openFenceRe = regexp.MustCompile("^(?:`{3}|~{3})[^\\n]*\\n")

// stripMarkdownFences removes leading/trailing markdown code fences that
// models sometimes wrap around JSON output (e.g., "```json\n...\n```").
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if loc := openFenceRe.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:])
	}
	return s
}

// schemaInstruction renders a schema constraint as prompt text for backends
// without a native structured-output parameter.
func schemaInstruction(s *SchemaSpec) string {
	def, err := json.Marshal(s.Definition)
	if err != nil {
		def = []byte("{}")
	}
	var sb strings.Builder
	sb.WriteString("Respond with a single JSON object conforming to the JSON Schema below. ")
	sb.WriteString("No prose, no markdown fences, no explanation outside the JSON.\n\n")
	fmt.Fprintf(&sb, "Schema %q:\n%s", s.Name, def)
	return sb.String()
}

// splitSystem partitions messages into the concatenated system prompt and
// the remaining conversation turns, for backends that carry the system
// prompt out of band.
func splitSystem(messages []Message) (string, []Message) {
	var system []string
	rest := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}
