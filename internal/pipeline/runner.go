// Package pipeline orchestrates the analysis workflow: eight named steps
// run strictly in order against one job, each degrading to skipped rather
// than halting the run. Pollers observe progress through published
// snapshots; the runner is the only writer.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/auxdata"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/bundle"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/config"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/generate"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/reader"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/resolve"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/theme"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

// Runner executes the step sequence for one job at a time. The process-wide
// caches (theme, product keywords, trending) live in its components, so one
// runner is shared by all jobs.
type Runner struct {
	cfg      *config.Config
	sampler  *theme.Sampler
	news     *auxdata.NewsIndex
	products *auxdata.ProductIndex
	cascade  *generate.Cascade
}

// NewRunner wires the runner from configuration.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		cfg:      cfg,
		sampler:  theme.NewSampler(),
		news:     auxdata.NewNewsIndex(cfg.SearchAPIKey, cfg.SearchCX, cfg.SearchTimeout),
		products: auxdata.NewProductIndex(cfg.SearchTimeout),
		cascade:  generate.New(cfg),
	}
}

// runState carries intermediate step outputs forward. It never outlives
// one run.
type runState struct {
	site     *reader.Result
	pages    []types.PageSummary
	keywords []string
	products *auxdata.SearchResult
}

type stepFunc func(ctx context.Context, job *types.Job, state *runState) (types.StepStatus, string)

// Run executes all steps for the job and marks it done or failed. publish
// is called after every visible state change with the live job; the
// callback must snapshot (Clone) before sharing.
func (r *Runner) Run(ctx context.Context, job *types.Job, publish func(*types.Job)) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[PIPELINE] job %s panicked: %v", job.ID, rec)
			for i := range job.Steps {
				if job.Steps[i].Status == types.StepRunning {
					job.Steps[i].Status = types.StepFailed
					job.Steps[i].Note = "internal error"
				}
			}
			r.finish(job, types.JobFailed, publish)
		}
	}()

	job.Status = types.JobRunning
	publish(job)

	steps := map[string]stepFunc{
		StepResolve:  r.stepResolve,
		StepReadSite: r.stepReadSite,
		StepTheme:    r.stepTheme,
		StepPress:    r.stepPress,
		StepNews:     r.stepNews,
		StepProducts: r.stepProducts,
		StepBundle:   r.stepBundle,
		StepGenerate: r.stepGenerate,
	}

	state := &runState{}
	for _, id := range stepOrder {
		r.runStep(ctx, job, id, steps[id], state, publish)
	}

	r.finish(job, types.JobDone, publish)
}

func (r *Runner) finish(job *types.Job, status types.JobStatus, publish func(*types.Job)) {
	job.Status = status
	now := time.Now()
	job.DoneAt = &now
	publish(job)
}

// runStep drives one step through running to a terminal status, recording
// its duration in evidence. Pacing stretches steps that finish instantly
// so progress UIs stay legible; zero pacing disables it.
func (r *Runner) runStep(ctx context.Context, job *types.Job, id string, fn stepFunc, state *runState, publish func(*types.Job)) {
	step := job.Step(id)
	step.Status = types.StepRunning
	publish(job)

	started := time.Now()
	status, note := fn(ctx, job, state)
	elapsed := time.Since(started)

	if r.cfg.StepPacing > 0 && elapsed < r.cfg.StepPacing {
		time.Sleep(r.cfg.StepPacing - elapsed)
	}

	job.Evidence.RecordTiming(id, elapsed.Milliseconds())
	step.Status = status
	step.Note = note
	publish(job)

	fmt.Printf("  %s: %s", stepLabels[id], status)
	if note != "" {
		fmt.Printf(" (%s)", note)
	}
	fmt.Println()
}

// stepResolve fixes the subject's display name and home URL. Actual
// disambiguation happened synchronously at submission; by the time a job
// exists the choice (if any) is already attached.
func (r *Runner) stepResolve(_ context.Context, job *types.Job, _ *runState) (types.StepStatus, string) {
	name := strings.TrimSpace(job.Input)
	if job.Choice != nil && job.Choice.Label != "" && job.Choice.Label != resolve.UseAsTypedLabel {
		name = job.Choice.Label
	} else if resolve.IsURL(name) {
		name = nameFromURL(name)
	}

	homeURL := resolve.HomeURL(job.Input, job.Choice)
	job.Company = &types.CompanyContext{Name: name, URL: homeURL}
	if job.Choice != nil && job.Choice.Description != "" {
		job.Company.Description = job.Choice.Description
	}

	if homeURL == "" {
		return types.StepDone, "no site to read"
	}
	return types.StepDone, name
}

// stepReadSite reads the home page plus related pages and folds the text
// evidence into the company context.
func (r *Runner) stepReadSite(ctx context.Context, job *types.Job, state *runState) (types.StepStatus, string) {
	if job.Company.URL == "" {
		return types.StepSkipped, "no site URL"
	}

	res := reader.ReadSite(ctx, job.Company.URL, reader.Options{
		UseBrowser:    r.cfg.UseBrowser,
		FetchTimeout:  r.cfg.FetchTimeout,
		RenderTimeout: r.cfg.RenderTimeout,
		ProbeTimeout:  r.cfg.ProbeTimeout,
	})
	state.site = res

	for _, a := range res.Attempts {
		job.Evidence.RecordAttempt(a)
	}
	if res.Thin {
		job.Evidence.ThinContent = true
		job.Evidence.AddNote("site content was thin; context leans on external sources")
	}

	if res.Home == nil {
		return types.StepSkipped, "site unreachable"
	}

	if res.Home.MetaDescription != "" && job.Company.Description == "" {
		job.Company.Description = res.Home.MetaDescription
	}
	job.Company.Headings = res.Headings()
	job.Company.NavLabels = res.Home.NavLabels
	job.Company.URL = res.Home.URL

	state.pages = append(state.pages, types.PageSummary{
		URL: res.Home.URL, Title: res.Home.Title, Headings: res.Home.Headings,
	})
	for _, p := range res.SubPages {
		state.pages = append(state.pages, types.PageSummary{
			URL: p.URL, Title: p.Title, Headings: p.Headings,
		})
	}

	note := fmt.Sprintf("%d pages", len(state.pages))
	if res.Thin {
		note += ", thin content"
	}
	return types.StepDone, note
}

// stepTheme always produces a theme: the cascade bottoms out in the
// name-derived palette, so this step never skips.
func (r *Runner) stepTheme(ctx context.Context, job *types.Job, state *runState) (types.StepStatus, string) {
	homeHTML := ""
	homeURL := job.Company.URL
	if state.site != nil && state.site.Home != nil {
		homeHTML = state.site.Home.HTML
		homeURL = state.site.Home.URL
	}

	t, cacheHit := r.sampler.Sample(ctx, job.Company.Name, homeURL, homeHTML)
	job.Evidence.RecordCacheHit("theme", cacheHit)
	job.Theme = t

	note := string(t.Source)
	if cacheHit {
		note += ", cached"
	}
	return types.StepDone, note
}

func (r *Runner) stepPress(ctx context.Context, job *types.Job, _ *runState) (types.StepStatus, string) {
	if job.Company.URL == "" {
		return types.StepSkipped, "no site URL"
	}

	res := auxdata.DiscoverPress(ctx, job.Company.URL, r.cfg.ProbeTimeout, r.cfg.FetchTimeout)
	job.Company.PressHeadlines = res.Headlines
	job.Evidence.PressCount = len(res.Headlines)
	job.Evidence.PressSample = sample(res.Headlines, 3)

	if len(res.Headlines) == 0 {
		return types.StepSkipped, "no press pages found"
	}
	return types.StepDone, fmt.Sprintf("%d headlines", len(res.Headlines))
}

func (r *Runner) stepNews(ctx context.Context, job *types.Job, _ *runState) (types.StepStatus, string) {
	if r.cfg.SearchAPIKey == "" || r.cfg.SearchCX == "" {
		return types.StepSkipped, "news index not configured"
	}

	items := r.news.Search(ctx, job.Company.Name, hostOf(job.Company.URL))
	titles := make([]string, 0, len(items))
	for _, it := range items {
		titles = append(titles, it.Title)
	}
	job.Company.NewsTitles = titles
	job.Evidence.NewsCount = len(items)
	job.Evidence.NewsSample = sample(titles, 3)

	if len(items) == 0 {
		return types.StepSkipped, "no recent news"
	}
	return types.StepDone, fmt.Sprintf("%d items", len(items))
}

func (r *Runner) stepProducts(ctx context.Context, job *types.Job, state *runState) (types.StepStatus, string) {
	state.keywords = auxdata.DeriveKeywords(job.Company)
	job.Evidence.Keywords = state.keywords

	res := r.products.Search(ctx, state.keywords)
	state.products = res
	job.Evidence.RecordCacheHit("products", res.CacheHit)
	job.Evidence.ProductCount = len(res.Items)

	names := make([]string, 0, len(res.Items))
	for _, it := range res.Items {
		names = append(names, it.Name)
	}
	job.Evidence.ProductSample = sample(names, 3)

	if len(res.Items) == 0 {
		return types.StepSkipped, "no related launches"
	}
	note := fmt.Sprintf("%d launches", len(res.Items))
	if res.Trending {
		note += ", trending fallback"
	}
	return types.StepDone, note
}

// stepBundle is the pure merge point: everything generation sees is fixed
// here.
func (r *Runner) stepBundle(_ context.Context, job *types.Job, state *runState) (types.StepStatus, string) {
	var news []types.NewsItem
	var products []types.ProductItem
	var patterns []string

	for _, title := range job.Company.NewsTitles {
		news = append(news, types.NewsItem{Title: title})
	}
	if state.products != nil {
		products = state.products.Items
		if state.products.Trending {
			patterns = append(patterns, "no keyword-matched launches; showing currently trending projects")
		}
	}
	if job.Evidence.ThinContent {
		patterns = append(patterns, "site content was thin; external evidence carries more weight")
	}

	job.Bundle = bundle.Build(job.Company, job.Theme, state.pages, news, products, patterns, state.keywords)
	return types.StepDone, bundle.Digest(job.Bundle)
}

func (r *Runner) stepGenerate(ctx context.Context, job *types.Job, _ *runState) (types.StepStatus, string) {
	out, err := r.cascade.Run(ctx, &generate.Request{Kind: generate.KindIdeas, Bundle: job.Bundle})
	if err != nil {
		// Only a malformed request reaches here; the cascade itself
		// always bottoms out in the deterministic generator.
		return types.StepFailed, err.Error()
	}

	for i := range out.Ideas {
		out.Ideas[i].JobID = job.ID
	}
	job.Ideas = out.Ideas
	job.Evidence.ProviderUsed = out.Provider
	job.Evidence.ProviderModel = out.Model
	job.Evidence.ProviderError = out.ProviderError

	return types.StepDone, fmt.Sprintf("%d ideas via %s", len(job.Ideas), out.Provider)
}

func sample(items []string, n int) []string {
	if len(items) <= n {
		return append([]string(nil), items...)
	}
	return append([]string(nil), items[:n]...)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}

// nameFromURL turns "https://www.example.com/x" into "example".
func nameFromURL(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "https://" + rawURL
	}
	host := hostOf(rawURL)
	if host == "" {
		return rawURL
	}
	if i := strings.Index(host, "."); i > 0 {
		return host[:i]
	}
	return host
}
