package types

// AttemptOutcome classifies the result of one fetch attempt.
type AttemptOutcome string

// Attempt outcomes
const (
	AttemptOK       AttemptOutcome = "ok"
	AttemptBlocked  AttemptOutcome = "blocked"
	AttemptTimeout  AttemptOutcome = "timeout"
	AttemptError    AttemptOutcome = "error"
	AttemptNotFound AttemptOutcome = "not_found"
	AttemptEmpty    AttemptOutcome = "empty"
)

// FetchAttempt is the diagnostic record for one attempted URL.
type FetchAttempt struct {
	URL        string         `json:"url"`
	Outcome    AttemptOutcome `json:"outcome"`
	StatusCode int            `json:"status_code,omitempty"`
	Headings   int            `json:"headings,omitempty"`
	Note       string         `json:"note,omitempty"`
}

// Evidence is the observability record paired 1:1 with a Job. It is
// append-only during a run: entries are added, never rewritten.
type Evidence struct {
	CacheHits     map[string]bool  `json:"cache_hits,omitempty"`
	StepTimingsMS map[string]int64 `json:"step_timings_ms,omitempty"`
	FetchAttempts []FetchAttempt   `json:"fetch_attempts,omitempty"`
	ThinContent   bool             `json:"thin_content,omitempty"`

	PressCount    int      `json:"press_count"`
	PressSample   []string `json:"press_sample,omitempty"`
	NewsCount     int      `json:"news_count"`
	NewsSample    []string `json:"news_sample,omitempty"`
	ProductCount  int      `json:"product_count"`
	ProductSample []string `json:"product_sample,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`

	ProviderUsed  string   `json:"provider_used,omitempty"`
	ProviderModel string   `json:"provider_model,omitempty"`
	ProviderError string   `json:"provider_error,omitempty"`
	Notes         []string `json:"notes,omitempty"`
}

// NewEvidence returns an empty evidence record ready for appending.
func NewEvidence() *Evidence {
	return &Evidence{
		CacheHits:     make(map[string]bool),
		StepTimingsMS: make(map[string]int64),
	}
}

// RecordTiming stores the elapsed milliseconds for a named step.
func (e *Evidence) RecordTiming(step string, ms int64) {
	if e.StepTimingsMS == nil {
		e.StepTimingsMS = make(map[string]int64)
	}
	e.StepTimingsMS[step] = ms
}

// RecordCacheHit stores whether a subsystem lookup was served from cache.
func (e *Evidence) RecordCacheHit(subsystem string, hit bool) {
	if e.CacheHits == nil {
		e.CacheHits = make(map[string]bool)
	}
	e.CacheHits[subsystem] = hit
}

// RecordAttempt appends one fetch attempt diagnostic.
func (e *Evidence) RecordAttempt(a FetchAttempt) {
	e.FetchAttempts = append(e.FetchAttempts, a)
}

// AddNote appends a free-form diagnostic note.
func (e *Evidence) AddNote(note string) {
	e.Notes = append(e.Notes, note)
}

func (e *Evidence) clone() *Evidence {
	c := *e
	c.CacheHits = make(map[string]bool, len(e.CacheHits))
	for k, v := range e.CacheHits {
		c.CacheHits[k] = v
	}
	c.StepTimingsMS = make(map[string]int64, len(e.StepTimingsMS))
	for k, v := range e.StepTimingsMS {
		c.StepTimingsMS[k] = v
	}
	c.FetchAttempts = append([]FetchAttempt(nil), e.FetchAttempts...)
	c.PressSample = append([]string(nil), e.PressSample...)
	c.NewsSample = append([]string(nil), e.NewsSample...)
	c.ProductSample = append([]string(nil), e.ProductSample...)
	c.Keywords = append([]string(nil), e.Keywords...)
	c.Notes = append([]string(nil), e.Notes...)
	return &c
}
