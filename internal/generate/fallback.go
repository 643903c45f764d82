package generate

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

// ideasPerLevel is how many ideas the deterministic generator emits for
// each of the five effort levels.
const ideasPerLevel = 3

// archetype is one entry in the fixed content template pool. %s slots
// take the company name.
type archetype struct {
	title   string
	summary string
	outline outlinePayload
}

// archetypePool holds five archetypes per effort level; the seed picks
// which three each subject gets, so distinct subjects see distinct sets.
var archetypePool = map[types.EffortLevel][]archetype{
	types.EffortSpark: {
		{"%s Link-in-Bio Page", "A single polished landing card with %s branding, key links, and a short pitch. Pure static HTML and CSS, deployable in minutes.",
			outlinePayload{Pages: []string{"Landing card"}, Components: []string{"Hero", "Link list"}, Data: []string{"Static copy"}}},
		{"%s Status Badge", "A tiny endpoint that renders a live status badge styled with %s colors, embeddable anywhere.",
			outlinePayload{Pages: []string{"Badge endpoint"}, Components: []string{"SVG renderer"}, Data: []string{"Uptime flag"}}},
		{"%s Brand Color Card", "A shareable card showing the %s palette with copy-to-clipboard hex codes for designers.",
			outlinePayload{Pages: []string{"Palette card"}, Components: []string{"Swatch grid", "Copy button"}, Data: []string{"Palette JSON"}}},
		{"%s One-Question Poll", "A single-question poll on a topic %s customers care about, with a live result bar.",
			outlinePayload{Pages: []string{"Poll"}, Components: []string{"Vote buttons", "Result bar"}, Data: []string{"Vote counts"}}},
		{"%s Countdown Teaser", "A launch-countdown teaser page in the %s visual style with an email capture field.",
			outlinePayload{Pages: []string{"Teaser"}, Components: []string{"Countdown", "Email form"}, Data: []string{"Launch date"}}},
	},
	types.EffortSprint: {
		{"%s FAQ Chat Widget", "An embeddable chat-style widget answering common questions about %s from a small canned knowledge base.",
			outlinePayload{Pages: []string{"Demo page"}, Components: []string{"Chat window", "Suggested questions"}, Data: []string{"Q&A pairs"}, NiceToHaves: []string{"Typing animation"}}},
		{"%s Pricing Explorer", "An interactive calculator that estimates the right %s plan from a few sliders.",
			outlinePayload{Pages: []string{"Calculator"}, Components: []string{"Sliders", "Plan card"}, Data: []string{"Plan matrix"}}},
		{"%s Changelog Feed", "A clean, filterable changelog page for %s product updates with RSS output.",
			outlinePayload{Pages: []string{"Feed", "Entry detail"}, Components: []string{"Filter chips", "Timeline"}, Data: []string{"Release entries"}}},
		{"%s Testimonial Wall", "A masonry wall of customer quotes about %s with tag filtering and share links.",
			outlinePayload{Pages: []string{"Wall"}, Components: []string{"Quote cards", "Tag filter"}, Data: []string{"Quotes"}}},
		{"%s Onboarding Checklist", "A guided first-run checklist for new %s users that persists progress locally.",
			outlinePayload{Pages: []string{"Checklist"}, Components: []string{"Step list", "Progress ring"}, Data: []string{"Steps"}, NiceToHaves: []string{"Confetti on completion"}}},
	},
	types.EffortDaybuild: {
		{"%s Metrics Dashboard", "A one-day dashboard mock showing the KPIs a %s team would track, with believable seeded data and drill-down charts.",
			outlinePayload{Pages: []string{"Overview", "Detail"}, Components: []string{"KPI tiles", "Line charts", "Table"}, Data: []string{"Seeded time series"}, NiceToHaves: []string{"Dark mode"}}},
		{"%s Feedback Inbox", "A triage inbox for %s customer feedback: tag, prioritize, and archive with keyboard shortcuts.",
			outlinePayload{Pages: []string{"Inbox", "Detail pane"}, Components: []string{"List", "Tag editor", "Shortcuts"}, Data: []string{"Feedback items"}}},
		{"%s Docs Search", "A fast client-side search over %s documentation with highlighted matches and deep links.",
			outlinePayload{Pages: []string{"Search"}, Components: []string{"Search box", "Result list"}, Data: []string{"Indexed docs"}}},
		{"%s Integration Gallery", "A filterable gallery of tools that connect to %s, each with a mock setup flow.",
			outlinePayload{Pages: []string{"Gallery", "Setup flow"}, Components: []string{"Cards", "Wizard"}, Data: []string{"Integration list"}}},
		{"%s Roadmap Board", "A public-roadmap board for %s with voting and status columns.",
			outlinePayload{Pages: []string{"Board"}, Components: []string{"Columns", "Vote button"}, Data: []string{"Roadmap items"}}},
	},
	types.EffortWeekend: {
		{"%s Customer Portal", "A weekend-scale portal where %s customers see their account, invoices, and usage in the brand style.",
			outlinePayload{Pages: []string{"Login", "Dashboard", "Invoices"}, Components: []string{"Auth form", "Usage charts", "Invoice table"}, Data: []string{"Mock accounts"}, NiceToHaves: []string{"CSV export"}}},
		{"%s Mobile Companion", "A responsive companion app for %s with offline-friendly caching and push-style notifications.",
			outlinePayload{Pages: []string{"Home", "Alerts", "Settings"}, Components: []string{"Card feed", "Notification list"}, Data: []string{"Cached API payloads"}}},
		{"%s Marketplace Mock", "A two-sided marketplace prototype around the %s ecosystem: listings, search, and a checkout stub.",
			outlinePayload{Pages: []string{"Browse", "Listing", "Checkout"}, Components: []string{"Search", "Listing cards", "Cart"}, Data: []string{"Listings"}}},
		{"%s Internal Admin", "An admin console for %s support staff: user lookup, audit trail, and feature flag toggles.",
			outlinePayload{Pages: []string{"Users", "Audit", "Flags"}, Components: []string{"Data grid", "Flag switches"}, Data: []string{"Users", "Events"}}},
		{"%s Analytics Embed", "An embeddable analytics widget suite themed for %s that drops into any page with one script tag.",
			outlinePayload{Pages: []string{"Demo host page"}, Components: []string{"Embed loader", "Chart widgets"}, Data: []string{"Metrics API stub"}}},
	},
	types.EffortEpic: {
		{"%s Platform Clone", "A week-long slice of the core %s product: the primary workflow end to end with realistic seeded data and polish.",
			outlinePayload{Pages: []string{"Onboarding", "Main workflow", "Settings"}, Components: []string{"Workflow engine", "State management", "Charts"}, Data: []string{"Seeded domain data"}, NiceToHaves: []string{"E2E tests", "CI pipeline"}}},
		{"%s AI Assistant", "A deep assistant over %s domain data: ingestion, retrieval, and a streaming chat UI with citations.",
			outlinePayload{Pages: []string{"Chat", "Sources"}, Components: []string{"Ingest pipeline", "Retriever", "Streaming chat"}, Data: []string{"Document corpus"}, NiceToHaves: []string{"Eval harness"}}},
		{"%s Developer Platform", "A mini developer platform for %s: API keys, docs, a sandbox, and usage billing mock.",
			outlinePayload{Pages: []string{"Console", "Docs", "Sandbox"}, Components: []string{"Key manager", "API playground", "Usage meter"}, Data: []string{"API catalog"}}},
		{"%s Realtime Collab", "A collaborative editor in the %s domain with presence, cursors, and conflict-free merging.",
			outlinePayload{Pages: []string{"Editor", "Share"}, Components: []string{"CRDT sync", "Presence avatars"}, Data: []string{"Documents"}}},
		{"%s Data Pipeline", "A full ingest-transform-visualize pipeline for data %s cares about, with scheduled jobs and alerting.",
			outlinePayload{Pages: []string{"Pipelines", "Runs", "Alerts"}, Components: []string{"Scheduler", "Transform steps", "Alert rules"}, Data: []string{"Source feeds"}}},
	},
}

// FallbackProvider is the terminal cascade state: a deterministic
// generator that always returns a complete, schema-valid result.
type FallbackProvider struct{}

// Name implements Provider.
func (p *FallbackProvider) Name() string { return "deterministic" }

// Model implements Provider.
func (p *FallbackProvider) Model() string { return "" }

// Available implements Provider.
func (p *FallbackProvider) Available() bool { return true }

// Generate is unused: the cascade calls the typed methods below directly
// because the fallback cannot fail and needs no prompt.
func (p *FallbackProvider) Generate(_ context.Context, _ string) (string, error) {
	return "", fmt.Errorf("fallback provider generates structurally, not from prompts")
}

// seedFor derives the template-pool offset from the subject's name with
// FNV-1a, so output is reproducible across runs and implementations.
func seedFor(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return h.Sum64()
}

// Ideas synthesizes exactly ideasPerLevel ideas for each of the five
// effort levels, ordered from lowest to highest effort.
func (p *FallbackProvider) Ideas(companyName string) []ideaPayload {
	name := strings.TrimSpace(companyName)
	if name == "" {
		name = "The Company"
	}
	seed := seedFor(name)

	var out []ideaPayload
	for levelIdx, level := range types.EffortLevels() {
		pool := archetypePool[level]
		offset := int((seed >> (4 * levelIdx)) % uint64(len(pool)))
		for i := 0; i < ideasPerLevel; i++ {
			tpl := pool[(offset+i)%len(pool)]
			out = append(out, ideaPayload{
				Title:   fmt.Sprintf(tpl.title, name),
				Summary: fmt.Sprintf(tpl.summary, name),
				Effort:  string(level),
				Outline: tpl.outline,
			})
		}
	}
	return out
}

// CustomIdea shapes a user description into a single idea.
func (p *FallbackProvider) CustomIdea(companyName, description string) ideaPayload {
	name := strings.TrimSpace(companyName)
	if name == "" {
		name = "The Company"
	}
	title := description
	// Truncate on a rune boundary so a multibyte character is never split.
	if r := []rune(title); len(r) > 60 {
		title = strings.TrimSpace(string(r[:60])) + "..."
	}
	return ideaPayload{
		Title:   fmt.Sprintf("%s: %s", name, title),
		Summary: description,
		Effort:  string(types.EffortDaybuild),
		Outline: outlinePayload{
			Pages:      []string{"Main view"},
			Components: []string{"Core interaction"},
			Data:       []string{"Seeded sample data"},
		},
	}
}

// Plan synthesizes a complete build plan for an idea.
func (p *FallbackProvider) Plan(idea *types.Idea) *planPayload {
	folder := slugify(idea.Title)
	return &planPayload{
		SetupScript: fmt.Sprintf("mkdir %s && cd %s\nnpm create vite@latest . -- --template react\nnpm install\nnpm run dev", folder, folder),
		FolderName:  folder,
		Steps: []stepPayload{
			{
				Role:        "builder",
				Title:       "Scaffold the project",
				Instruction: "Run the setup script and confirm the dev server renders the starter page.",
				Prompt:      fmt.Sprintf("Set up a new React project for a prototype called %q. Remove the starter boilerplate and add a blank App shell with a header.", idea.Title),
				DoneLooksLike: []string{
					"Dev server runs without errors",
					"Blank app shell with a header is visible",
				},
			},
			{
				Role:        "designer",
				Title:       "Apply the brand theme",
				Instruction: "Define CSS variables for the brand palette and apply them across the shell.",
				Prompt:      "Create a theme.css with CSS custom properties for primary, accent, background and text colors, and wire them into the app shell components.",
				DoneLooksLike: []string{
					"Palette variables defined in one place",
					"Header and background use the brand colors",
				},
			},
			{
				Role:        "builder",
				Title:       "Build the core screen",
				Instruction: "Implement the main view from the idea outline with seeded placeholder data.",
				Prompt:      fmt.Sprintf("Implement the primary screen for %q: %s. Use hardcoded seed data shaped like the real domain.", idea.Title, idea.Summary),
				DoneLooksLike: []string{
					"Core interaction works end to end with seed data",
				},
			},
			{
				Role:        "builder",
				Title:       "Wire interactivity",
				Instruction: "Connect the remaining components so state changes flow through the whole screen.",
				Prompt:      "Add state handling so every control on the main screen updates the view live, with sensible empty and loading states.",
				DoneLooksLike: []string{
					"All controls respond immediately",
					"Empty state looks intentional",
				},
			},
			{
				Role:        "reviewer",
				Title:       "Polish and review",
				Instruction: "Pass over spacing, typography and responsiveness, then do a demo run-through.",
				Prompt:      "Review the prototype for visual consistency: spacing scale, font sizes, mobile layout. Fix the three most visible issues.",
				DoneLooksLike: []string{
					"Prototype is presentable on a phone-width viewport",
					"A 60-second demo runs without a hitch",
				},
			},
		},
	}
}

func slugify(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "prototype"
	}
	return out
}
