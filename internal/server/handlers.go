package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

// AnalyzeRequest represents the request body for /analyze
type AnalyzeRequest struct {
	Input  string                      `json:"input" validate:"required,min=1,max=300"`
	Choice *types.DisambiguationOption `json:"choice,omitempty"`
}

// CustomIdeaRequest represents the request body for custom idea creation
// and regeneration. The description bounds keep prompts meaningful
// without letting callers smuggle in entire documents.
type CustomIdeaRequest struct {
	Description string `json:"description" validate:"required,min=40,max=600"`
}

// IdeaResponse represents the response for /ideas/{id}
type IdeaResponse struct {
	Idea  *types.Idea  `json:"idea"`
	Theme *types.Theme `json:"theme,omitempty"`
}

// handleAnalyze starts a new analysis, or returns disambiguation options
// when the subject is ambiguous.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "input is required and must be at most 300 characters")
		return
	}

	result, err := s.service.StartAnalysis(r.Context(), req.Input, req.Choice)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if result.NeedsDisambiguation {
		s.jsonResponse(w, http.StatusOK, result)
		return
	}
	s.jsonResponse(w, http.StatusAccepted, result)
}

// handleGetJob returns a read-only snapshot of a job. Polling never
// mutates job state.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	job, err := s.service.GetJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	// Ideas are withheld until the run completes so pollers never see a
	// partial set.
	if job.Status != types.JobDone {
		job.Ideas = nil
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleGetIdea returns one idea plus its parent job's theme.
func (s *Server) handleGetIdea(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	idea, theme, err := s.service.GetIdea(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, IdeaResponse{Idea: idea, Theme: theme})
}

// handleGeneratePlan returns the cached build plan for an idea,
// generating one on first request. ?force=true regenerates.
func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	force := r.URL.Query().Get("force") == "true"
	plan, err := s.service.GeneratePlan(r.Context(), id, force)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, plan)
}

// handleCreateCustomIdea expands a user description into a new idea on
// the job.
func (s *Server) handleCreateCustomIdea(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	req, ok := s.customIdeaRequest(w, r)
	if !ok {
		return
	}

	idea, err := s.service.CreateCustomIdea(r.Context(), id, req.Description)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, idea)
}

// handleRegenerateIdea rewrites an existing idea in place. An empty body
// regenerates from the idea's current summary.
func (s *Server) handleRegenerateIdea(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	// Decode rather than trust Content-Length: chunked requests report -1
	// and must still pass validation when they carry a description.
	var req CustomIdeaRequest
	switch err := json.NewDecoder(r.Body).Decode(&req); {
	case errors.Is(err, io.EOF):
		// No body: regenerate from the idea's current summary.
	case err != nil:
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	default:
		if err := s.validator.Struct(req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "description must be between 40 and 600 characters")
			return
		}
	}
	description := req.Description

	idea, err := s.service.RegenerateIdea(r.Context(), id, description)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, idea)
}

func (s *Server) customIdeaRequest(w http.ResponseWriter, r *http.Request) (*CustomIdeaRequest, bool) {
	var req CustomIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "description must be between 40 and 600 characters")
		return nil, false
	}
	return &req, true
}

func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
