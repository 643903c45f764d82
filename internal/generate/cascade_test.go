package generate

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

// scriptedProvider returns canned responses in order, recording every
// prompt it sees.
type scriptedProvider struct {
	name      string
	available bool
	responses []string
	errs      []error
	prompts   []string
}

func (p *scriptedProvider) Name() string    { return p.name }
func (p *scriptedProvider) Model() string   { return "test-model" }
func (p *scriptedProvider) Available() bool { return p.available }

func (p *scriptedProvider) Generate(_ context.Context, prompt string) (string, error) {
	i := len(p.prompts)
	p.prompts = append(p.prompts, prompt)
	if i < len(p.errs) && p.errs[i] != nil {
		return "", p.errs[i]
	}
	if i < len(p.responses) {
		return p.responses[i], nil
	}
	return "", fmt.Errorf("no scripted response %d", i)
}

func testBundle() *types.ContextBundle {
	return &types.ContextBundle{
		Company: types.CompanyContext{Name: "Acme", URL: "https://acme.com"},
	}
}

func validIdeasJSON(n int) string {
	var sb strings.Builder
	sb.WriteString(`{"ideas":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"title":"Idea %d","summary":"Summary %d.","effort":"sprint","outline":{"pages":["p"],"components":["c"],"data":["d"]}}`, i, i)
	}
	sb.WriteString(`]}`)
	return sb.String()
}

func TestCascadeFirstProviderWins(t *testing.T) {
	p1 := &scriptedProvider{name: "alpha", available: true, responses: []string{validIdeasJSON(5)}}
	p2 := &scriptedProvider{name: "beta", available: true}
	c := NewWithProviders([]Provider{p1, p2}, time.Second)

	out, err := c.Run(context.Background(), &Request{Kind: KindIdeas, Bundle: testBundle()})
	require.NoError(t, err)
	assert.Equal(t, "alpha", out.Provider)
	assert.Len(t, out.Ideas, 5)
	assert.Empty(t, p2.prompts, "later providers must not be called")
	assert.Empty(t, out.ProviderError)
}

func TestCascadeSkipsUnavailableProviders(t *testing.T) {
	p1 := &scriptedProvider{name: "alpha", available: false}
	p2 := &scriptedProvider{name: "beta", available: true, responses: []string{validIdeasJSON(5)}}
	c := NewWithProviders([]Provider{p1, p2}, time.Second)

	out, err := c.Run(context.Background(), &Request{Kind: KindIdeas, Bundle: testBundle()})
	require.NoError(t, err)
	assert.Equal(t, "beta", out.Provider)
	assert.Empty(t, p1.prompts)

	require.NotEmpty(t, out.Attempts)
	assert.Equal(t, "skipped", out.Attempts[0].Outcome)
}

func TestCascadeTransportErrorMovesOnWithoutRetry(t *testing.T) {
	p1 := &scriptedProvider{name: "alpha", available: true, errs: []error{fmt.Errorf("connect timeout")}}
	p2 := &scriptedProvider{name: "beta", available: true, responses: []string{validIdeasJSON(5)}}
	c := NewWithProviders([]Provider{p1, p2}, time.Second)

	out, err := c.Run(context.Background(), &Request{Kind: KindIdeas, Bundle: testBundle()})
	require.NoError(t, err)
	assert.Equal(t, "beta", out.Provider)
	assert.Len(t, p1.prompts, 1, "transport errors earn no retry")
}

func TestCascadeInvalidResponseRetriesOnceWithHint(t *testing.T) {
	// First response is below the minimum idea count; second is valid.
	p := &scriptedProvider{
		name:      "alpha",
		available: true,
		responses: []string{validIdeasJSON(1), validIdeasJSON(5)},
	}
	c := NewWithProviders([]Provider{p}, time.Second)

	out, err := c.Run(context.Background(), &Request{Kind: KindIdeas, Bundle: testBundle()})
	require.NoError(t, err)
	assert.Equal(t, "alpha", out.Provider)

	require.Len(t, p.prompts, 2, "exactly one retry")
	assert.NotEqual(t, p.prompts[0], p.prompts[1])
	assert.True(t, strings.HasPrefix(p.prompts[1], p.prompts[0]), "retry keeps the original prompt")
	assert.Contains(t, p.prompts[1], "JSON only", "retry appends the structure hint")
}

func TestCascadeSecondInvalidResponseFallsThrough(t *testing.T) {
	p1 := &scriptedProvider{
		name:      "alpha",
		available: true,
		responses: []string{validIdeasJSON(1), validIdeasJSON(2)},
	}
	p2 := &scriptedProvider{name: "beta", available: true, responses: []string{validIdeasJSON(5)}}
	c := NewWithProviders([]Provider{p1, p2}, time.Second)

	out, err := c.Run(context.Background(), &Request{Kind: KindIdeas, Bundle: testBundle()})
	require.NoError(t, err)
	assert.Equal(t, "beta", out.Provider)
	assert.Len(t, p1.prompts, 2, "one attempt plus one hinted retry, then fall through")
}

func TestCascadeDeterministicFloor(t *testing.T) {
	p := &scriptedProvider{name: "alpha", available: true, errs: []error{fmt.Errorf("boom")}}
	c := NewWithProviders([]Provider{p}, time.Second)

	out, err := c.Run(context.Background(), &Request{Kind: KindIdeas, Bundle: testBundle()})
	require.NoError(t, err)

	assert.Equal(t, "deterministic", out.Provider)
	assert.Len(t, out.Ideas, 15, "fallback always yields three ideas per effort level")
	assert.Contains(t, out.ProviderError, "boom", "the last real failure is kept for evidence")

	last := out.Attempts[len(out.Attempts)-1]
	assert.Equal(t, "deterministic", last.Provider)
	assert.Equal(t, "ok", last.Outcome)
}

func TestCascadeNoProvidersConfigured(t *testing.T) {
	c := NewWithProviders(nil, time.Second)

	out, err := c.Run(context.Background(), &Request{Kind: KindIdeas, Bundle: testBundle()})
	require.NoError(t, err)
	assert.Equal(t, "deterministic", out.Provider)
	assert.Len(t, out.Ideas, 15)
	assert.Empty(t, out.ProviderError)
}

func TestCascadeIdeasOrderedByEffort(t *testing.T) {
	// Provider returns ideas in deliberately shuffled effort order.
	raw := `{"ideas":[
		{"title":"E","summary":"s.","effort":"epic","outline":{}},
		{"title":"A","summary":"s.","effort":"spark","outline":{}},
		{"title":"W","summary":"s.","effort":"weekend","outline":{}},
		{"title":"B","summary":"s.","effort":"sprint","outline":{}},
		{"title":"D","summary":"s.","effort":"daybuild","outline":{}}
	]}`
	p := &scriptedProvider{name: "alpha", available: true, responses: []string{raw}}
	c := NewWithProviders([]Provider{p}, time.Second)

	out, err := c.Run(context.Background(), &Request{Kind: KindIdeas, Bundle: testBundle()})
	require.NoError(t, err)

	lastRank := -1
	for _, idea := range out.Ideas {
		rank := types.EffortRank(idea.Effort)
		assert.Greater(t, rank, lastRank)
		lastRank = rank
	}
}

func TestCascadePlanRequest(t *testing.T) {
	raw := `{"setup_script":"npm create vite@latest","folder_name":"acme-dash","steps":[
		{"role":"builder","title":"Scaffold","instruction":"i","prompt":"p"},
		{"role":"builder","title":"Theme","instruction":"i","prompt":"p"},
		{"role":"builder","title":"Core","instruction":"i","prompt":"p"},
		{"role":"reviewer","title":"Polish","instruction":"i","prompt":"p"}
	]}`
	p := &scriptedProvider{name: "alpha", available: true, responses: []string{raw}}
	c := NewWithProviders([]Provider{p}, time.Second)

	idea := &types.Idea{ID: uuid.New(), Title: "Acme Dash", Summary: "s", Effort: types.EffortDaybuild}
	out, err := c.Run(context.Background(), &Request{Kind: KindPlan, Bundle: testBundle(), Idea: idea})
	require.NoError(t, err)

	require.NotNil(t, out.Plan)
	assert.Equal(t, idea.ID, out.Plan.IdeaID)
	assert.Equal(t, "acme-dash", out.Plan.FolderName)
	assert.Len(t, out.Plan.Steps, 4)
}

func TestCascadePlanRequiresIdea(t *testing.T) {
	c := NewWithProviders(nil, time.Second)
	_, err := c.Run(context.Background(), &Request{Kind: KindPlan, Bundle: testBundle()})
	assert.Error(t, err)
}

func TestCascadeCustomRequiresExactlyOneIdea(t *testing.T) {
	// Two ideas for a custom request is a shape failure: one hinted
	// retry, then the deterministic floor takes over.
	p := &scriptedProvider{
		name:      "alpha",
		available: true,
		responses: []string{validIdeasJSON(2), validIdeasJSON(2)},
	}
	c := NewWithProviders([]Provider{p}, time.Second)

	out, err := c.Run(context.Background(), &Request{
		Kind:        KindCustom,
		Bundle:      testBundle(),
		Description: "A live status page for the Acme public API with incident history.",
	})
	require.NoError(t, err)
	assert.Len(t, p.prompts, 2)
	assert.Equal(t, "deterministic", out.Provider)
	require.Len(t, out.Ideas, 1)
	assert.Equal(t, types.IdeaCustom, out.Ideas[0].Source)
}
