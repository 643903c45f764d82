package pipeline

import "github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"

// Step ids, in execution order. Later steps consume earlier steps'
// outputs, so the runner never starts a step before its predecessor
// reaches a terminal status.
const (
	StepResolve  = "resolve"
	StepReadSite = "read_site"
	StepTheme    = "theme"
	StepPress    = "press"
	StepNews     = "news"
	StepProducts = "products"
	StepBundle   = "bundle"
	StepGenerate = "generate"
)

var stepOrder = []string{
	StepResolve, StepReadSite, StepTheme, StepPress,
	StepNews, StepProducts, StepBundle, StepGenerate,
}

var stepLabels = map[string]string{
	StepResolve:  "Resolving subject",
	StepReadSite: "Reading the site",
	StepTheme:    "Sampling brand theme",
	StepPress:    "Scanning press pages",
	StepNews:     "Searching recent news",
	StepProducts: "Finding related launches",
	StepBundle:   "Assembling context",
	StepGenerate: "Generating ideas",
}

// NewSteps returns the full step list in pending state, in order.
func NewSteps() []types.AnalysisStep {
	steps := make([]types.AnalysisStep, 0, len(stepOrder))
	for _, id := range stepOrder {
		steps = append(steps, types.AnalysisStep{
			ID:     id,
			Label:  stepLabels[id],
			Status: types.StepPending,
		})
	}
	return steps
}
