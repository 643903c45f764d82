package generate

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/types"
)

// Wire payloads the providers must produce.

type outlinePayload struct {
	Pages       []string `json:"pages"`
	Components  []string `json:"components"`
	Data        []string `json:"data"`
	NiceToHaves []string `json:"nice_to_haves"`
}

type ideaPayload struct {
	Title         string         `json:"title"`
	Summary       string         `json:"summary"`
	Effort        string         `json:"effort"`
	Outline       outlinePayload `json:"outline"`
	InspiredAngle string         `json:"inspired_angle"`
}

type ideasPayload struct {
	Ideas []ideaPayload `json:"ideas"`
}

type stepPayload struct {
	Role          string   `json:"role"`
	Title         string   `json:"title"`
	Instruction   string   `json:"instruction"`
	Prompt        string   `json:"prompt"`
	DoneLooksLike []string `json:"done_looks_like"`
}

type planPayload struct {
	SetupScript string        `json:"setup_script"`
	FolderName  string        `json:"folder_name"`
	Steps       []stepPayload `json:"steps"`
}

const ideasSchema = `{
	"type": "object",
	"required": ["ideas"],
	"properties": {
		"ideas": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["title", "summary", "effort", "outline"],
				"properties": {
					"title": {"type": "string", "minLength": 1},
					"summary": {"type": "string", "minLength": 1},
					"effort": {"type": "string", "enum": ["spark", "sprint", "daybuild", "weekend", "epic"]},
					"outline": {
						"type": "object",
						"properties": {
							"pages": {"type": "array", "items": {"type": "string"}},
							"components": {"type": "array", "items": {"type": "string"}},
							"data": {"type": "array", "items": {"type": "string"}},
							"nice_to_haves": {"type": "array", "items": {"type": "string"}}
						}
					},
					"inspired_angle": {"type": "string"}
				}
			}
		}
	}
}`

const planSchema = `{
	"type": "object",
	"required": ["setup_script", "folder_name", "steps"],
	"properties": {
		"setup_script": {"type": "string", "minLength": 1},
		"folder_name": {"type": "string", "minLength": 1},
		"steps": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["role", "title", "instruction", "prompt"],
				"properties": {
					"role": {"type": "string", "minLength": 1},
					"title": {"type": "string", "minLength": 1},
					"instruction": {"type": "string", "minLength": 1},
					"prompt": {"type": "string", "minLength": 1},
					"done_looks_like": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

// Domain policy thresholds.
const (
	minIdeasPerSet = 5 // a full idea set must cover at least this many
	minPlanSteps   = 4
)

// validationError distinguishes shape failures (which earn the single
// hinted retry) from transport failures (which do not).
type validationError struct {
	Reason string
}

func (e *validationError) Error() string {
	return "validation failed: " + e.Reason
}

// parseIdeas validates and converts an ideas response. minCount and
// maxCount express the effort-to-count policy for the request kind.
func parseIdeas(raw string, minCount, maxCount int) ([]ideaPayload, error) {
	raw = cleanJSONBlock(raw)

	if err := checkSchema(ideasSchema, raw); err != nil {
		return nil, err
	}

	var payload ideasPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, &validationError{Reason: fmt.Sprintf("response is not valid JSON: %v", err)}
	}

	if len(payload.Ideas) < minCount {
		return nil, &validationError{Reason: fmt.Sprintf("only %d ideas, need at least %d", len(payload.Ideas), minCount)}
	}
	if maxCount > 0 && len(payload.Ideas) > maxCount {
		return nil, &validationError{Reason: fmt.Sprintf("%d ideas, want at most %d", len(payload.Ideas), maxCount)}
	}
	for _, idea := range payload.Ideas {
		if types.EffortRank(types.EffortLevel(idea.Effort)) < 0 {
			return nil, &validationError{Reason: fmt.Sprintf("unknown effort level %q", idea.Effort)}
		}
	}
	return payload.Ideas, nil
}

// parsePlan validates and converts a build plan response.
func parsePlan(raw string) (*planPayload, error) {
	raw = cleanJSONBlock(raw)

	if err := checkSchema(planSchema, raw); err != nil {
		return nil, err
	}

	var payload planPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, &validationError{Reason: fmt.Sprintf("response is not valid JSON: %v", err)}
	}

	if len(payload.Steps) < minPlanSteps {
		return nil, &validationError{Reason: fmt.Sprintf("only %d steps, need at least %d", len(payload.Steps), minPlanSteps)}
	}
	return &payload, nil
}

func checkSchema(schema, doc string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(doc),
	)
	if err != nil {
		return &validationError{Reason: fmt.Sprintf("response is not valid JSON: %v", err)}
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return &validationError{Reason: fmt.Sprintf("%s: %s", first.Field(), first.Description())}
	}
	return nil
}
