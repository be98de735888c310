package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/wordlift/factcheck/internal/retry"
)

// mockProvider is a test double for Provider. Responses and errors are
// returned in call order; the last entry repeats if the list is exhausted.
type mockProvider struct {
	responses []string
	errs      []error
	calls     int
	lastReq   Request
}

func (m *mockProvider) Complete(_ context.Context, req Request) (string, error) {
	m.lastReq = req
	idx := m.calls
	m.calls++
	if len(m.errs) > 0 {
		i := idx
		if i >= len(m.errs) {
			i = len(m.errs) - 1
		}
		if m.errs[i] != nil {
			return "", m.errs[i]
		}
	}
	if len(m.responses) == 0 {
		return "", fmt.Errorf("mockProvider: no responses configured")
	}
	i := idx
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	return m.responses[i], nil
}

// fastPolicy retries without waiting.
func fastPolicy(maxRetries int) retry.Policy {
	p := retry.NewPolicy(maxRetries, time.Nanosecond)
	p.MaxDelay = time.Nanosecond
	p.JitterFactor = 0
	return p
}

type testDoc struct {
	Answer string `json:"answer"`
}

var errInvalidAnswer = errors.New("invalid answer")

func (d *testDoc) Validate() error {
	if d.Answer == "" {
		return errInvalidAnswer
	}
	return nil
}

func testSchema() *SchemaSpec {
	return &SchemaSpec{
		Name: "test_doc",
		Definition: map[string]any{
			"type":       "object",
			"properties": map[string]any{"answer": map[string]any{"type": "string"}},
		},
	}
}

func TestComplete_ReturnsProviderText(t *testing.T) {
	mp := &mockProvider{responses: []string{"hello"}}
	c := NewClient(mp, fastPolicy(3))

	got, err := c.Complete(context.Background(), Request{Model: "m"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "hello" {
		t.Errorf("Complete = %q", got)
	}
	if mp.calls != 1 {
		t.Errorf("provider called %d times, want 1", mp.calls)
	}
}

func TestComplete_RetriesEmptyResponse(t *testing.T) {
	mp := &mockProvider{
		responses: []string{"", "", "ok"},
		errs:      []error{ErrEmptyResponse, ErrEmptyResponse, nil},
	}
	c := NewClient(mp, fastPolicy(3))

	got, err := c.Complete(context.Background(), Request{Model: "m"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "ok" {
		t.Errorf("Complete = %q", got)
	}
	if mp.calls != 3 {
		t.Errorf("provider called %d times, want 3", mp.calls)
	}
}

func TestComplete_ExhaustedRetriesPropagateError(t *testing.T) {
	transport := errors.New("502 bad gateway")
	mp := &mockProvider{errs: []error{transport}}
	c := NewClient(mp, fastPolicy(3))

	_, err := c.Complete(context.Background(), Request{Model: "m"})
	if !errors.Is(err, transport) {
		t.Fatalf("Complete = %v, want transport error", err)
	}
	if mp.calls != 4 {
		t.Errorf("provider called %d times, want 4", mp.calls)
	}
}

func TestCompleteInto_ParsesStructuredResponse(t *testing.T) {
	mp := &mockProvider{responses: []string{`{"answer":"42"}`}}
	c := NewClient(mp, fastPolicy(3))

	var doc testDoc
	req := Request{Model: "m", Schema: testSchema()}
	if err := c.CompleteInto(context.Background(), req, &doc); err != nil {
		t.Fatalf("CompleteInto: %v", err)
	}
	if doc.Answer != "42" {
		t.Errorf("Answer = %q", doc.Answer)
	}
	if mp.lastReq.Schema == nil {
		t.Error("schema was not forwarded to the provider")
	}
}

func TestCompleteInto_StripsMarkdownFences(t *testing.T) {
	mp := &mockProvider{responses: []string{"```json\n{\"answer\":\"42\"}\n```"}}
	c := NewClient(mp, fastPolicy(0))

	var doc testDoc
	if err := c.CompleteInto(context.Background(), Request{Schema: testSchema()}, &doc); err != nil {
		t.Fatalf("CompleteInto: %v", err)
	}
	if doc.Answer != "42" {
		t.Errorf("Answer = %q", doc.Answer)
	}
}

func TestCompleteInto_RetriesUnparsableOutput(t *testing.T) {
	mp := &mockProvider{responses: []string{"not json", `{"answer":"ok"}`}}
	c := NewClient(mp, fastPolicy(3))

	var doc testDoc
	if err := c.CompleteInto(context.Background(), Request{Schema: testSchema()}, &doc); err != nil {
		t.Fatalf("CompleteInto: %v", err)
	}
	if mp.calls != 2 {
		t.Errorf("provider called %d times, want 2", mp.calls)
	}
}

func TestCompleteInto_RejectsTrailingData(t *testing.T) {
	mp := &mockProvider{responses: []string{`{"answer":"ok"} garbage`}}
	c := NewClient(mp, fastPolicy(0))

	var doc testDoc
	err := c.CompleteInto(context.Background(), Request{Schema: testSchema()}, &doc)
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("CompleteInto = %v, want ErrEmptyResponse", err)
	}
}

func TestCompleteInto_RejectsUnknownFields(t *testing.T) {
	mp := &mockProvider{responses: []string{`{"answer":"ok","fabricated":true}`}}
	c := NewClient(mp, fastPolicy(0))

	var doc testDoc
	err := c.CompleteInto(context.Background(), Request{Schema: testSchema()}, &doc)
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("CompleteInto = %v, want ErrEmptyResponse", err)
	}
}

func TestCompleteInto_RetriesValidationFailure(t *testing.T) {
	mp := &mockProvider{responses: []string{`{"answer":""}`, `{"answer":"ok"}`}}
	c := NewClient(mp, fastPolicy(3))

	var doc testDoc
	if err := c.CompleteInto(context.Background(), Request{Schema: testSchema()}, &doc); err != nil {
		t.Fatalf("CompleteInto: %v", err)
	}
	if doc.Answer != "ok" {
		t.Errorf("Answer = %q", doc.Answer)
	}
}

func TestCompleteInto_RequiresSchema(t *testing.T) {
	mp := &mockProvider{responses: []string{`{}`}}
	c := NewClient(mp, fastPolicy(3))

	var doc testDoc
	if err := c.CompleteInto(context.Background(), Request{}, &doc); err == nil {
		t.Fatal("CompleteInto without schema succeeded")
	}
	if mp.calls != 0 {
		t.Errorf("provider called %d times, want 0", mp.calls)
	}
}

func TestStripMarkdownFences(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"tilde fence", "~~~\n{\"a\":1}\n~~~", `{"a":1}`},
		{"truncated fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"surrounding space", "  {\"a\":1}\n", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripMarkdownFences(tt.in); got != tt.want {
				t.Errorf("stripMarkdownFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitSystem(t *testing.T) {
	system, rest := splitSystem([]Message{
		{Role: RoleSystem, Content: "be helpful"},
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	})
	if system != "be helpful" {
		t.Errorf("system = %q", system)
	}
	if len(rest) != 2 {
		t.Fatalf("rest has %d messages, want 2", len(rest))
	}
	if rest[0].Role != RoleUser || rest[1].Role != RoleAssistant {
		t.Errorf("rest order wrong: %+v", rest)
	}
}
