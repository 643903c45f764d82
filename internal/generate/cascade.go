package generate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/bundle"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/config"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/prompts"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

const promptFile = "generation.json"

// RequestKind selects which generation the cascade performs.
type RequestKind string

// Request kinds.
const (
	KindIdeas  RequestKind = "ideas"
	KindPlan   RequestKind = "plan"
	KindCustom RequestKind = "custom"
)

// Request carries everything a single generation needs. Bundle is always
// required; Idea only for KindPlan, Description only for KindCustom.
type Request struct {
	Kind        RequestKind
	Bundle      *types.ContextBundle
	Idea        *types.Idea
	Description string
}

// Attempt records one provider call for the evidence trail.
type Attempt struct {
	Provider   string `json:"provider"`
	Model      string `json:"model,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Outcome    string `json:"outcome"` // ok | skipped | transport_error | invalid_response
	Detail     string `json:"detail,omitempty"`
}

// Outcome is the final result of a cascade run. Exactly one of Ideas or
// Plan is set depending on the request kind.
type Outcome struct {
	Ideas      []types.Idea
	Plan       *types.BuildPlan
	Provider   string
	Model      string
	DurationMS int64
	// ProviderError holds the last real-provider failure when the
	// deterministic generator had to answer.
	ProviderError string
	Attempts      []Attempt
}

// Cascade tries providers in order until one yields a valid response.
type Cascade struct {
	providers []Provider
	fallback  *FallbackProvider
	timeout   time.Duration
}

// New builds the standard cascade from configuration: Gemini SDK, then
// OpenAI, then Gemini over plain REST, then the deterministic generator.
func New(cfg *config.Config) *Cascade {
	return &Cascade{
		providers: []Provider{
			&GeminiProvider{APIKey: cfg.GeminiAPIKey, ModelName: cfg.GeminiModel},
			&OpenAIProvider{APIKey: cfg.OpenAIAPIKey, ModelName: cfg.OpenAIModel},
			&GeminiRESTProvider{APIKey: cfg.GeminiAPIKey, ModelName: cfg.GeminiModel},
		},
		fallback: &FallbackProvider{},
		timeout:  cfg.GenerateTimeout,
	}
}

// NewWithProviders builds a cascade over an explicit provider list. Used
// by tests to substitute scripted providers.
func NewWithProviders(providers []Provider, timeout time.Duration) *Cascade {
	return &Cascade{
		providers: providers,
		fallback:  &FallbackProvider{},
		timeout:   timeout,
	}
}

// Run executes the cascade for a request. It never returns an error for
// idea or plan generation: the deterministic generator is the floor.
func (c *Cascade) Run(ctx context.Context, req *Request) (*Outcome, error) {
	if req.Bundle == nil {
		return nil, fmt.Errorf("generate: request has no context bundle")
	}
	if req.Kind == KindPlan && req.Idea == nil {
		return nil, fmt.Errorf("generate: plan request has no idea")
	}

	prompt, hint, err := c.buildPrompt(req)
	if err != nil {
		return nil, err
	}

	out := &Outcome{}
	started := time.Now()
	var lastProviderErr error

	for _, p := range c.providers {
		if !p.Available() {
			out.Attempts = append(out.Attempts, Attempt{
				Provider: p.Name(), Model: p.Model(), Outcome: "skipped", Detail: "not configured",
			})
			continue
		}

		if ok := c.tryProvider(ctx, p, prompt, hint, req, out, &lastProviderErr); ok {
			out.Provider = p.Name()
			out.Model = p.Model()
			out.DurationMS = time.Since(started).Milliseconds()
			return out, nil
		}
	}

	// Every real provider is exhausted: synthesize deterministically.
	c.applyFallback(req, out)
	out.Provider = c.fallback.Name()
	out.DurationMS = time.Since(started).Milliseconds()
	if lastProviderErr != nil {
		out.ProviderError = lastProviderErr.Error()
	}
	out.Attempts = append(out.Attempts, Attempt{Provider: c.fallback.Name(), Outcome: "ok"})
	return out, nil
}

// tryProvider gives p one call, plus exactly one hinted retry when the
// response is transport-clean but structurally invalid. Returns true
// when out has been filled with a valid result.
func (c *Cascade) tryProvider(ctx context.Context, p Provider, prompt, hint string, req *Request, out *Outcome, lastErr *error) bool {
	retried := false
	attemptPrompt := prompt
	for {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		callStart := time.Now()
		raw, err := p.Generate(callCtx, attemptPrompt)
		cancel()
		elapsed := time.Since(callStart).Milliseconds()

		if err != nil {
			log.Printf("[GENERATE] provider %s failed: %v", p.Name(), err)
			out.Attempts = append(out.Attempts, Attempt{
				Provider: p.Name(), Model: p.Model(), DurationMS: elapsed,
				Outcome: "transport_error", Detail: err.Error(),
			})
			*lastErr = err
			return false
		}

		parseErr := c.accept(req, raw, out)
		if parseErr == nil {
			out.Attempts = append(out.Attempts, Attempt{
				Provider: p.Name(), Model: p.Model(), DurationMS: elapsed, Outcome: "ok",
			})
			return true
		}

		out.Attempts = append(out.Attempts, Attempt{
			Provider: p.Name(), Model: p.Model(), DurationMS: elapsed,
			Outcome: "invalid_response", Detail: parseErr.Error(),
		})
		*lastErr = parseErr

		var vErr *validationError
		if !errors.As(parseErr, &vErr) || retried {
			return false
		}
		log.Printf("[GENERATE] provider %s returned an invalid response, retrying with structure hint: %v", p.Name(), parseErr)
		retried = true
		attemptPrompt = prompt + "\n\n" + hint
	}
}

// accept parses raw according to the request kind and fills out on
// success. Returns a *validationError for structural failures.
func (c *Cascade) accept(req *Request, raw string, out *Outcome) error {
	switch req.Kind {
	case KindPlan:
		payload, err := parsePlan(raw)
		if err != nil {
			return err
		}
		out.Plan = planFromPayload(req.Idea.ID, payload)
		return nil
	case KindCustom:
		ideas, err := parseIdeas(raw, 1, 1)
		if err != nil {
			return err
		}
		out.Ideas = ideasFromPayload(ideas, types.IdeaCustom)
		return nil
	default:
		ideas, err := parseIdeas(raw, minIdeasPerSet, 0)
		if err != nil {
			return err
		}
		out.Ideas = ideasFromPayload(ideas, types.IdeaGenerated)
		return nil
	}
}

func (c *Cascade) applyFallback(req *Request, out *Outcome) {
	companyName := req.Bundle.Company.Name
	switch req.Kind {
	case KindPlan:
		out.Plan = planFromPayload(req.Idea.ID, c.fallback.Plan(req.Idea))
	case KindCustom:
		out.Ideas = ideasFromPayload([]ideaPayload{c.fallback.CustomIdea(companyName, req.Description)}, types.IdeaCustom)
	default:
		out.Ideas = ideasFromPayload(c.fallback.Ideas(companyName), types.IdeaGenerated)
	}
}

// buildPrompt renders the template for the request kind and returns the
// prompt plus the structure hint used on the single retry.
func (c *Cascade) buildPrompt(req *Request) (prompt, hint string, err error) {
	rendered := bundle.RenderPrompt(req.Bundle)

	var key string
	var data map[string]string
	switch req.Kind {
	case KindPlan:
		key = "buildplan"
		data = map[string]string{
			"Title":   req.Idea.Title,
			"Summary": req.Idea.Summary,
			"Effort":  string(req.Idea.Effort),
			"Bundle":  rendered,
		}
	case KindCustom:
		key = "custom-idea"
		data = map[string]string{
			"Description": req.Description,
			"Bundle":      rendered,
		}
	case KindIdeas:
		key = "ideas"
		data = map[string]string{"Bundle": rendered}
	default:
		return "", "", fmt.Errorf("generate: unknown request kind %q", req.Kind)
	}

	// Templates are embedded: a missing key is a programmer error, not a
	// runtime condition.
	tpl := prompts.MustGet(promptFile, key)
	hintTpl := prompts.MustGet(promptFile, key+"-structure-hint")
	return prompts.Format(tpl, data), hintTpl, nil
}

// ideasFromPayload sorts payloads by ascending effort (stable within a
// level) and assigns fresh ids.
func ideasFromPayload(payloads []ideaPayload, source types.IdeaSource) []types.Idea {
	ordered := make([]ideaPayload, 0, len(payloads))
	for _, level := range types.EffortLevels() {
		for _, p := range payloads {
			if p.Effort == string(level) {
				ordered = append(ordered, p)
			}
		}
	}

	ideas := make([]types.Idea, 0, len(ordered))
	for _, p := range ordered {
		ideas = append(ideas, types.Idea{
			ID:      uuid.New(),
			Title:   p.Title,
			Summary: p.Summary,
			Effort:  types.EffortLevel(p.Effort),
			Outline: types.IdeaOutline{
				Pages:       p.Outline.Pages,
				Components:  p.Outline.Components,
				Data:        p.Outline.Data,
				NiceToHaves: p.Outline.NiceToHaves,
			},
			InspiredAngle: p.InspiredAngle,
			Source:        source,
		})
	}
	return ideas
}

func planFromPayload(ideaID uuid.UUID, p *planPayload) *types.BuildPlan {
	steps := make([]types.BuildStep, 0, len(p.Steps))
	for _, s := range p.Steps {
		steps = append(steps, types.BuildStep{
			Role:          s.Role,
			Title:         s.Title,
			Instruction:   s.Instruction,
			Prompt:        s.Prompt,
			DoneLooksLike: s.DoneLooksLike,
		})
	}
	return &types.BuildPlan{
		IdeaID:      ideaID,
		SetupScript: p.SetupScript,
		FolderName:  p.FolderName,
		Steps:       steps,
	}
}
