package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/fairwaylabs/caddie-api/internal/golf"
)

// ErrBadModelReply indicates the model's reply was not a JSON document
// conforming to the expected schema. Reported to the caller, not retried.
var ErrBadModelReply = errors.New("model reply does not match expected schema")

var analysisSchema = jsonschema.MustCompileString("analysis_response.json", golf.ResponseSchema)

// ParseAnalysis validates the reply against the response schema and decodes
// it. It fails closed: anything that is not a fully conforming JSON object
// is rejected, replacing brace-matching extraction from free-form text.
func ParseAnalysis(content string) (golf.AnalysisResult, json.RawMessage, error) {
	trimmed := strings.TrimSpace(content)

	var generic interface{}
	if err := json.Unmarshal([]byte(trimmed), &generic); err != nil {
		return golf.AnalysisResult{}, nil, fmt.Errorf("%w: %v", ErrBadModelReply, err)
	}
	if err := analysisSchema.Validate(generic); err != nil {
		return golf.AnalysisResult{}, nil, fmt.Errorf("%w: %v", ErrBadModelReply, err)
	}

	var result golf.AnalysisResult
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		return golf.AnalysisResult{}, nil, fmt.Errorf("%w: %v", ErrBadModelReply, err)
	}
	normalizeResult(&result)

	return result, json.RawMessage(trimmed), nil
}

// normalizeResult replaces absent list fields with empty slices so the
// result always serializes them as JSON arrays, never null.
func normalizeResult(r *golf.AnalysisResult) {
	if r.ScoringAreas == nil {
		r.ScoringAreas = []golf.ScoringArea{}
	}
	if r.TroubleHoles == nil {
		r.TroubleHoles = []golf.HoleNote{}
	}
	if r.StrengthHoles == nil {
		r.StrengthHoles = []golf.HoleNote{}
	}
	if r.HolePlans == nil {
		r.HolePlans = []golf.HolePlan{}
	}
	if r.PracticePlan == nil {
		r.PracticePlan = []golf.PracticeItem{}
	}
	if r.MentalGame == nil {
		r.MentalGame = []string{}
	}
}

// ParseCourseStrategy validates a course-strategy reply. The shape is looser
// than the analysis schema; only the top-level keys are enforced.
func ParseCourseStrategy(content string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(content)

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadModelReply, err)
	}
	for _, key := range []string{"overview", "key_holes", "club_selection", "scoring_targets"} {
		if _, ok := doc[key]; !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrBadModelReply, key)
		}
	}

	return json.RawMessage(trimmed), nil
}
