package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"alfredoptarigan/ai-interviewer/internal/models"
)

// The schemas only reject structures coercion cannot recover from. Missing
// and mistyped scalar fields are handled by the as* helpers.
const (
	profileSchemaSrc = `{
  "type": "object",
  "properties": {
    "key_skills": {"type": ["array", "string", "null"]}
  }
}`

	questionsSchemaSrc = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["question"],
    "properties": {
      "question": {"type": "string"},
      "tags": {"type": ["array", "string", "null"]}
    }
  }
}`

	evaluationSchemaSrc = `{
  "type": "object",
  "properties": {
    "technicalScore": {"type": ["number", "string", "null"]},
    "communicationScore": {"type": ["number", "string", "null"]},
    "relevanceScore": {"type": ["number", "string", "null"]}
  }
}`

	assessmentSchemaSrc = `{
  "type": "object",
  "properties": {
    "overallScore": {"type": ["number", "string", "null"]},
    "detailedScores": {"type": ["object", "null"]},
    "detailedQuestionAnalysis": {"type": ["array", "null"]},
    "keyStrengths": {"type": ["array", "string", "null"]},
    "areasForImprovement": {"type": ["array", "string", "null"]}
  }
}`
)

var (
	profileSchema    = mustCompileSchema("profile.json", profileSchemaSrc)
	questionsSchema  = mustCompileSchema("questions.json", questionsSchemaSrc)
	evaluationSchema = mustCompileSchema("evaluation.json", evaluationSchemaSrc)
	assessmentSchema = mustCompileSchema("assessment.json", assessmentSchemaSrc)
)

func mustCompileSchema(name, src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(src)); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", name, err))
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", name, err))
	}
	return schema
}

// decodeResult carries what the pipeline learned besides the value itself.
type decodeResult struct {
	Strategy string
	Clamped  []string
}

// decodeModelJSON runs raw text through extraction, JSON parsing and a
// schema check. Failures come back as *AIError carrying the raw text.
func decodeModelJSON(stage Stage, raw string, shape Shape, schema *jsonschema.Schema) (any, decodeResult, error) {
	var result decodeResult

	candidate, strategy, err := extractJSONWithStrategy(raw, shape)
	if err != nil {
		return nil, result, newAIError(stage, ErrExtractionFailure, raw, err)
	}
	result.Strategy = strategy

	var value any
	if err := json.Unmarshal([]byte(candidate), &value); err != nil {
		return nil, result, newAIError(stage, ErrExtractionFailure, raw, err)
	}

	if shape == ShapeArray {
		value = unwrapArray(value)
	}

	if err := schema.Validate(value); err != nil {
		return nil, result, newAIError(stage, ErrDomainParse, raw, err)
	}

	return value, result, nil
}

// unwrapArray accepts {"questions": [...]} or any single-key object holding
// an array where an array was asked for.
func unwrapArray(value any) any {
	obj, ok := value.(map[string]any)
	if !ok {
		return value
	}
	if arr, ok := obj["questions"].([]any); ok {
		return arr
	}
	if len(obj) == 1 {
		for _, v := range obj {
			if arr, ok := v.([]any); ok {
				return arr
			}
		}
	}
	return value
}

func decodeProfile(value any) *models.CandidateProfile {
	obj := asObject(value)
	return &models.CandidateProfile{
		Name:             asString(obj["name"]),
		Email:            asString(obj["email"]),
		Experience:       asString(obj["experience"]),
		KeySkills:        asStringList(obj["key_skills"]),
		InferredPosition: asString(obj["inferred_position"]),
	}
}

// decodeQuestions assigns q<n> to questions without an id and suffixes
// repeated ids so every id stays unique within the list.
func decodeQuestions(value any) []models.Question {
	items := asObjectList(value)
	questions := make([]models.Question, 0, len(items))
	seen := make(map[string]bool, len(items))

	for i, item := range items {
		id := asString(item["id"])
		if id == "" {
			id = fmt.Sprintf("q%d", i+1)
		}
		for base, n := id, 2; seen[id]; n++ {
			id = fmt.Sprintf("%s-%d", base, n)
		}
		seen[id] = true

		questions = append(questions, models.Question{
			ID:       id,
			Question: asString(item["question"]),
			Tags:     asStringList(item["tags"]),
		})
	}

	return questions
}

func decodeEvaluation(value any, result *decodeResult) models.Evaluation {
	obj := asObject(value)

	eval := models.Evaluation{
		TechnicalScore:     result.score(obj, "technicalScore"),
		CommunicationScore: result.score(obj, "communicationScore"),
		RelevanceScore:     result.score(obj, "relevanceScore"),
		Feedback:           asString(obj["feedback"]),
	}
	eval.Score = overallScore(eval)

	return eval
}

// overallScore is the mean of the three sub-scores rounded half to even.
func overallScore(e models.Evaluation) int {
	mean := (e.TechnicalScore + e.CommunicationScore + e.RelevanceScore) / 3
	return int(math.RoundToEven(mean))
}

func decodeAssessment(value any, result *decodeResult) *models.AssessmentReport {
	obj := asObject(value)
	scores := asObject(obj["detailedScores"])

	report := &models.AssessmentReport{
		OverallScore:      result.score(obj, "overallScore"),
		Recommendation:    canonicalRecommendation(asString(obj["recommendation"])),
		InterviewDuration: asString(obj["interviewDuration"]),
		DetailedScores: models.DetailedScores{
			TechnicalSkills: result.score(scores, "technicalSkills"),
			Communication:   result.score(scores, "communication"),
			SoftSkills:      result.score(scores, "softSkills"),
		},
		DetailedQuestionAnalysis: []models.QuestionAnalysis{},
		KeyStrengths:             asStringList(obj["keyStrengths"]),
		AreasForImprovement:      asStringList(obj["areasForImprovement"]),
	}

	for _, item := range asObjectList(obj["detailedQuestionAnalysis"]) {
		report.DetailedQuestionAnalysis = append(report.DetailedQuestionAnalysis, models.QuestionAnalysis{
			Question:           asString(item["question"]),
			Response:           asString(item["response"]),
			Tags:               asStringList(item["tags"]),
			Score:              result.score(item, "score"),
			TechnicalScore:     result.score(item, "technicalScore"),
			CommunicationScore: result.score(item, "communicationScore"),
			RelevanceScore:     result.score(item, "relevanceScore"),
		})
	}

	return report
}

func (r *decodeResult) score(obj map[string]any, key string) float64 {
	v, clamped := clampScore(asFloat(obj[key]))
	if clamped {
		r.Clamped = append(r.Clamped, key)
	}
	return v
}

// canonicalRecommendation maps case and spacing variants onto the fixed
// labels. Unknown values pass through trimmed.
func canonicalRecommendation(v string) string {
	normalized := strings.Join(strings.Fields(v), " ")
	for _, label := range models.Recommendations {
		if strings.EqualFold(normalized, label) {
			return label
		}
	}
	return normalized
}
