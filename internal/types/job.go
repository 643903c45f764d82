// Package types defines the shared data model for the pitch kit pipeline.
package types

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the overall state of an analysis run.
type JobStatus string

// Job status values
const (
	JobPending JobStatus = "pending"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Terminal reports whether s is a terminal job status.
func (s JobStatus) Terminal() bool {
	return s == JobDone || s == JobFailed
}

// StepStatus represents the state of a single pipeline step.
type StepStatus string

// Step status values. A step must reach done, skipped or failed before the
// pipeline moves on; it never returns to running afterwards.
const (
	StepPending StepStatus = "pending"
	StepRunning StepStatus = "running"
	StepDone    StepStatus = "done"
	StepSkipped StepStatus = "skipped"
	StepFailed  StepStatus = "failed"
)

// Terminal reports whether s is a terminal step status.
func (s StepStatus) Terminal() bool {
	return s == StepDone || s == StepSkipped || s == StepFailed
}

// AnalysisStep is one named stage of the pipeline, as shown to pollers.
type AnalysisStep struct {
	ID     string     `json:"id"`
	Label  string     `json:"label"`
	Status StepStatus `json:"status"`
	Note   string     `json:"note,omitempty"`
}

// Job is one end-to-end analysis run for a single subject. It is created at
// submission and mutated only by the pipeline runner; pollers receive copies.
type Job struct {
	ID        uuid.UUID             `json:"id"`
	Input     string                `json:"input"`
	Choice    *DisambiguationOption `json:"choice,omitempty"`
	Steps     []AnalysisStep        `json:"steps"`
	Status    JobStatus             `json:"status"`
	Company   *CompanyContext       `json:"company,omitempty"`
	Theme     *Theme                `json:"theme,omitempty"`
	Evidence  *Evidence             `json:"evidence,omitempty"`
	Bundle    *ContextBundle        `json:"bundle,omitempty"`
	Ideas     []Idea                `json:"ideas,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	DoneAt    *time.Time            `json:"done_at,omitempty"`
}

// Step returns a pointer to the step with the given id, or nil.
func (j *Job) Step(id string) *AnalysisStep {
	for i := range j.Steps {
		if j.Steps[i].ID == id {
			return &j.Steps[i]
		}
	}
	return nil
}

// Clone returns a deep enough copy of the job for read-only polling.
// Slices are copied so the runner can keep appending to the original.
func (j *Job) Clone() *Job {
	c := *j
	c.Steps = append([]AnalysisStep(nil), j.Steps...)
	c.Ideas = append([]Idea(nil), j.Ideas...)
	if j.Evidence != nil {
		ev := j.Evidence.clone()
		c.Evidence = ev
	}
	return &c
}

// DisambiguationOption is one candidate entity for an ambiguous subject.
type DisambiguationOption struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Domain      string `json:"domain,omitempty"`
	EntityID    string `json:"entity_id,omitempty"`
}

// CompanyContext holds the resolved subject's descriptive attributes.
// It is built incrementally by the pipeline stages and is read-only to
// generation.
type CompanyContext struct {
	Name           string   `json:"name"`
	URL            string   `json:"url,omitempty"`
	Description    string   `json:"description,omitempty"`
	IndustryHints  []string `json:"industry_hints,omitempty"`
	Headings       []string `json:"headings,omitempty"`
	NavLabels      []string `json:"nav_labels,omitempty"`
	PressHeadlines []string `json:"press_headlines,omitempty"`
	NewsTitles     []string `json:"news_titles,omitempty"`
}
