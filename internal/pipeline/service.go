package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/config"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/generate"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/resolve"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/store"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

// StartResult is the synchronous answer to a submission: either the job
// started, or the subject needs disambiguation first.
type StartResult struct {
	NeedsDisambiguation bool                         `json:"needs_disambiguation,omitempty"`
	Options             []types.DisambiguationOption `json:"options,omitempty"`
	JobID               uuid.UUID                    `json:"job_id,omitempty"`
}

// NotReadyError marks a write against a job whose run has not finished.
// The runner goroutine is the sole writer until the job is terminal, so
// callers must wait and resubmit rather than retry immediately.
type NotReadyError struct {
	ID uuid.UUID
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("job %s is still running", e.ID)
}

// Service owns the job registry and spawns one pipeline run per accepted
// submission. Pollers only ever see snapshots; the runner goroutine is
// the sole writer of each live job.
type Service struct {
	cfg      *config.Config
	resolver *resolve.Resolver
	runner   *Runner
	store    *store.Layered

	mu        sync.RWMutex
	jobs      map[uuid.UUID]*types.Job // latest published snapshots
	ideaIndex map[uuid.UUID]uuid.UUID  // idea id -> job id
	done      map[uuid.UUID]chan struct{}
}

// NewService wires a service from configuration and an opened store.
func NewService(cfg *config.Config, st *store.Layered) *Service {
	return &Service{
		cfg:       cfg,
		resolver:  resolve.New(cfg.SearchAPIKey, cfg.SearchCX, cfg.SearchTimeout),
		runner:    NewRunner(cfg),
		store:     st,
		jobs:      make(map[uuid.UUID]*types.Job),
		ideaIndex: make(map[uuid.UUID]uuid.UUID),
		done:      make(map[uuid.UUID]chan struct{}),
	}
}

// StartAnalysis resolves the subject synchronously and, unless it needs
// disambiguation, creates a job and starts its pipeline run in the
// background. A run has no user-initiated cancellation: once started it
// finishes on its own even if every poller gives up.
func (s *Service) StartAnalysis(ctx context.Context, input string, choice *types.DisambiguationOption) (*StartResult, error) {
	if input == "" {
		return nil, fmt.Errorf("empty subject")
	}

	if choice == nil {
		res := s.resolver.Resolve(ctx, input)
		if res.NeedsDisambiguation {
			return &StartResult{NeedsDisambiguation: true, Options: res.Options}, nil
		}
		choice = res.Resolved
	}

	job := &types.Job{
		ID:        uuid.New(),
		Input:     input,
		Choice:    choice,
		Steps:     NewSteps(),
		Status:    types.JobPending,
		Evidence:  types.NewEvidence(),
		CreatedAt: time.Now(),
	}

	doneCh := make(chan struct{})
	s.mu.Lock()
	s.jobs[job.ID] = job.Clone()
	s.done[job.ID] = doneCh
	s.mu.Unlock()

	go func() {
		defer close(doneCh)
		s.runner.Run(context.Background(), job, s.publish)
	}()

	return &StartResult{JobID: job.ID}, nil
}

// publish snapshots the live job into the registry and, once terminal,
// persists it.
func (s *Service) publish(job *types.Job) {
	snap := job.Clone()

	s.mu.Lock()
	s.jobs[job.ID] = snap
	for _, idea := range snap.Ideas {
		s.ideaIndex[idea.ID] = job.ID
	}
	s.mu.Unlock()

	if snap.Status.Terminal() {
		s.persistJob(snap)
	}
}

func (s *Service) persistJob(job *types.Job) {
	data, err := json.Marshal(job)
	if err != nil {
		log.Printf("[PIPELINE] marshaling job %s: %v", job.ID, err)
		return
	}
	if err := s.store.Put(context.Background(), store.BucketJobs, job.ID.String(), data); err != nil {
		log.Printf("[PIPELINE] persisting job %s: %v", job.ID, err)
	}
}

// GetJob returns a read-only snapshot: registry first, then the durable
// store for jobs that predate this process.
func (s *Service) GetJob(ctx context.Context, id uuid.UUID) (*types.Job, error) {
	s.mu.RLock()
	job, ok := s.jobs[id]
	s.mu.RUnlock()
	if ok {
		return job.Clone(), nil
	}

	data, found, err := s.store.Get(ctx, store.BucketJobs, id.String())
	if err != nil {
		return nil, fmt.Errorf("loading job %s: %w", id, err)
	}
	if !found {
		return nil, &store.NotFoundError{Kind: "job", ID: id.String()}
	}

	var loaded types.Job
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("decoding job %s: %w", id, err)
	}

	s.mu.Lock()
	s.jobs[id] = &loaded
	for _, idea := range loaded.Ideas {
		s.ideaIndex[idea.ID] = id
	}
	s.mu.Unlock()

	return loaded.Clone(), nil
}

// Wait blocks until the job's pipeline run finishes. Jobs loaded from the
// store are already terminal and return immediately.
func (s *Service) Wait(ctx context.Context, id uuid.UUID) error {
	s.mu.RLock()
	ch, ok := s.done[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetIdea returns one idea with the theme of its parent job.
func (s *Service) GetIdea(ctx context.Context, ideaID uuid.UUID) (*types.Idea, *types.Theme, error) {
	job, idea, err := s.findIdea(ctx, ideaID)
	if err != nil {
		return nil, nil, err
	}
	return idea, job.Theme, nil
}

func (s *Service) findIdea(ctx context.Context, ideaID uuid.UUID) (*types.Job, *types.Idea, error) {
	s.mu.RLock()
	jobID, ok := s.ideaIndex[ideaID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, &store.NotFoundError{Kind: "idea", ID: ideaID.String()}
	}

	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	for i := range job.Ideas {
		if job.Ideas[i].ID == ideaID {
			return job, &job.Ideas[i], nil
		}
	}
	return nil, nil, &store.NotFoundError{Kind: "idea", ID: ideaID.String()}
}

// GeneratePlan returns the cached build plan for an idea, generating and
// caching one on first request. force regenerates even when cached.
func (s *Service) GeneratePlan(ctx context.Context, ideaID uuid.UUID, force bool) (*types.BuildPlan, error) {
	if !force {
		if data, found, err := s.store.Get(ctx, store.BucketPlans, ideaID.String()); err == nil && found {
			var plan types.BuildPlan
			if err := json.Unmarshal(data, &plan); err == nil {
				return &plan, nil
			}
		}
	}

	job, idea, err := s.findIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if job.Bundle == nil {
		return nil, fmt.Errorf("job %s has no context bundle yet", job.ID)
	}

	out, err := s.runner.cascade.Run(ctx, &generate.Request{
		Kind:   generate.KindPlan,
		Bundle: job.Bundle,
		Idea:   idea,
	})
	if err != nil {
		return nil, err
	}

	plan := out.Plan
	plan.Provider = out.Provider
	plan.DurationMS = out.DurationMS

	if data, err := json.Marshal(plan); err == nil {
		if err := s.store.Put(ctx, store.BucketPlans, ideaID.String(), data); err != nil {
			log.Printf("[PIPELINE] persisting plan for idea %s: %v", ideaID, err)
		}
	}
	return plan, nil
}

// CreateCustomIdea expands a user description into a new idea attached to
// the job. The job must be terminal: until then the runner goroutine owns
// it and an externally-added idea would be erased by the next publish.
// Description length bounds are enforced at the HTTP layer.
func (s *Service) CreateCustomIdea(ctx context.Context, jobID uuid.UUID, description string) (*types.Idea, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.Status.Terminal() {
		return nil, &NotReadyError{ID: jobID}
	}
	if job.Bundle == nil {
		return nil, fmt.Errorf("job %s has no context bundle", jobID)
	}

	idea, err := s.generateCustom(ctx, job, description)
	if err != nil {
		return nil, err
	}
	idea.JobID = jobID

	job.Ideas = append(job.Ideas, *idea)
	s.replaceJob(job)
	return idea, nil
}

// RegenerateIdea rewrites an existing idea in place from a new
// description. The idea keeps its id, so cached plans for it go stale;
// the plan endpoint's force flag covers that.
func (s *Service) RegenerateIdea(ctx context.Context, ideaID uuid.UUID, description string) (*types.Idea, error) {
	job, idea, err := s.findIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if !job.Status.Terminal() {
		return nil, &NotReadyError{ID: job.ID}
	}
	if description == "" {
		description = idea.Summary
	}

	fresh, err := s.generateCustom(ctx, job, description)
	if err != nil {
		return nil, err
	}

	idea.Title = fresh.Title
	idea.Summary = fresh.Summary
	idea.Effort = fresh.Effort
	idea.Outline = fresh.Outline
	idea.InspiredAngle = fresh.InspiredAngle

	s.replaceJob(job)
	return idea, nil
}

func (s *Service) generateCustom(ctx context.Context, job *types.Job, description string) (*types.Idea, error) {
	out, err := s.runner.cascade.Run(ctx, &generate.Request{
		Kind:        generate.KindCustom,
		Bundle:      job.Bundle,
		Description: description,
	})
	if err != nil {
		return nil, err
	}
	if len(out.Ideas) != 1 {
		return nil, fmt.Errorf("custom generation produced %d ideas, want 1", len(out.Ideas))
	}
	return &out.Ideas[0], nil
}

// replaceJob installs an externally-mutated snapshot as the latest state
// and persists it. Only valid for terminal jobs, where no runner
// goroutine is writing anymore.
func (s *Service) replaceJob(job *types.Job) {
	s.mu.Lock()
	s.jobs[job.ID] = job
	for _, idea := range job.Ideas {
		s.ideaIndex[idea.ID] = job.ID
	}
	s.mu.Unlock()
	s.persistJob(job)
}
