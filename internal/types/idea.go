package types

import "github.com/google/uuid"

// EffortLevel is one of five ordered buckets describing how long an idea
// should take to build, from shortest to longest.
type EffortLevel string

// Effort levels, in ascending order.
const (
	EffortSpark    EffortLevel = "spark"    // under an hour
	EffortSprint   EffortLevel = "sprint"   // an afternoon
	EffortDaybuild EffortLevel = "daybuild" // a full day
	EffortWeekend  EffortLevel = "weekend"  // a weekend
	EffortEpic     EffortLevel = "epic"     // a week or more
)

// EffortLevels returns all effort levels in ascending order.
func EffortLevels() []EffortLevel {
	return []EffortLevel{EffortSpark, EffortSprint, EffortDaybuild, EffortWeekend, EffortEpic}
}

// EffortRank returns the ordinal position of a level, or -1 if unknown.
func EffortRank(l EffortLevel) int {
	for i, e := range EffortLevels() {
		if e == l {
			return i
		}
	}
	return -1
}

// IdeaSource records how an idea came to exist.
type IdeaSource string

// Idea sources
const (
	IdeaGenerated IdeaSource = "generated"
	IdeaCustom    IdeaSource = "custom"
)

// IdeaOutline is the structured build sketch attached to an idea.
type IdeaOutline struct {
	Pages       []string `json:"pages,omitempty"`
	Components  []string `json:"components,omitempty"`
	Data        []string `json:"data,omitempty"`
	NiceToHaves []string `json:"nice_to_haves,omitempty"`
}

// Idea is one generated prototype concept. Mutated in place only by the
// regenerate operation.
type Idea struct {
	ID            uuid.UUID   `json:"id"`
	JobID         uuid.UUID   `json:"job_id"`
	Title         string      `json:"title"`
	Summary       string      `json:"summary"`
	Effort        EffortLevel `json:"effort"`
	Outline       IdeaOutline `json:"outline"`
	InspiredAngle string      `json:"inspired_angle,omitempty"`
	Source        IdeaSource  `json:"source"`
}

// BuildStep is one instruction in a build plan.
type BuildStep struct {
	Role          string   `json:"role"`
	Title         string   `json:"title"`
	Instruction   string   `json:"instruction"`
	Prompt        string   `json:"prompt"`
	DoneLooksLike []string `json:"done_looks_like,omitempty"`
}

// BuildPlan is the step-by-step instruction set tied to one idea.
// Generated once and cached per idea id.
type BuildPlan struct {
	IdeaID      uuid.UUID   `json:"idea_id"`
	SetupScript string      `json:"setup_script"`
	FolderName  string      `json:"folder_name"`
	Steps       []BuildStep `json:"steps"`
	Provider    string      `json:"provider,omitempty"`
	DurationMS  int64       `json:"duration_ms,omitempty"`
}
