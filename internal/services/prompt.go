package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"alfredoptarigan/ai-interviewer/internal/models"
)

// QuestionPlan is how many questions of each category to request.
type QuestionPlan struct {
	Technical     int
	SoftSkills    int
	Communication int
}

var DefaultQuestionPlan = QuestionPlan{Technical: 10, SoftSkills: 3, Communication: 2}

func (p QuestionPlan) Total() int {
	return p.Technical + p.SoftSkills + p.Communication
}

// PromptBuilder renders the instruction text for each stage. Caller data is
// embedded verbatim between --- delimiter lines.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildProfileExtractionPrompt creates prompt for resume analysis
func (pb *PromptBuilder) BuildProfileExtractionPrompt(resumeText string) string {
	return fmt.Sprintf(`Analyze the following resume text and extract the candidate's name, email, total years of experience (if quantifiable, otherwise a brief summary like "2 roles (5 years)"), a list of key skills, and an inferred primary job role/position.

Ensure the 'key_skills' is always a JSON array of strings, even if empty.

Format the output strictly as a JSON object with the following keys: `+"`name`"+` (string), `+"`email`"+` (string), `+"`experience`"+` (string, e.g., "5 years" or "2 roles (5 years)"), `+"`key_skills`"+` (array of strings), `+"`inferred_position`"+` (string).

Example JSON output:
%s

Resume Text:
%s
`, fencedExample(`{
  "name": "John Doe",
  "email": "john.doe@example.com",
  "experience": "5 years",
  "key_skills": ["Python", "Machine Learning", "Data Science"],
  "inferred_position": "Data Scientist"
}`), delimited(resumeText))
}

// BuildQuestionGenerationPrompt creates prompt for tailored interview questions
func (pb *PromptBuilder) BuildQuestionGenerationPrompt(profile models.CandidateProfile, role string, plan QuestionPlan) string {
	name := profile.Name
	if name == "" {
		name = "Candidate"
	}
	experience := profile.Experience
	if experience == "" {
		experience = "N/A"
	}
	skills := strings.Join(profile.KeySkills, ", ")
	if skills == "" {
		skills = "none listed"
	}

	return fmt.Sprintf(`As an expert interviewer, generate interview questions for a candidate applying for the role below.

Candidate name:
%s

Target role:
%s

Experience:
%s

Key skills:
%s

Generate the following specific number of questions:
- %d Technical questions
- %d Soft Skills questions
- %d Communication Skills questions

For each question, also provide 1-3 relevant tags (e.g., 'technical', 'experience', 'soft skills', 'problem-solving', 'leadership', 'communication', 'project').

Format the output strictly as a JSON array of objects. Each object should have the following keys:
- `+"`id`"+`: A unique string ID for the question.
- `+"`question`"+`: The interview question.
- `+"`tags`"+`: An array of strings representing the tags.

Example JSON format:
%s
`, delimited(name), delimited(role), delimited(experience), delimited(skills),
		plan.Technical, plan.SoftSkills, plan.Communication,
		fencedExample(`[
  {
    "id": "q1",
    "question": "Can you describe a challenging project you worked on and how you overcame obstacles?",
    "tags": ["experience", "problem-solving"]
  },
  {
    "id": "q2",
    "question": "Explain the concept of RESTful APIs and how you've used them in your projects.",
    "tags": ["technical", "api"]
  }
]`))
}

// BuildAnswerEvaluationPrompt creates prompt for scoring a single answer
func (pb *PromptBuilder) BuildAnswerEvaluationPrompt(question models.Question, response string) string {
	return fmt.Sprintf(`You are an AI interviewer. Evaluate the following candidate's response to an interview question.
Provide a score out of 100 for Technical accuracy, Communication clarity, and Relevance to the question.
Also, provide a brief feedback on the response.

Format the output strictly as a JSON object with the following keys:
- `+"`technicalScore`"+`: (integer 0-100)
- `+"`communicationScore`"+`: (integer 0-100)
- `+"`relevanceScore`"+`: (integer 0-100)
- `+"`feedback`"+`: (string)

Example JSON output:
%s

Question:
%s

Candidate's Response:
%s
`, fencedExample(`{
  "technicalScore": 85,
  "communicationScore": 90,
  "relevanceScore": 88,
  "feedback": "The response was technically sound and clearly communicated, showing good understanding."
}`), delimited(question.Question), delimited(response))
}

// BuildAssessmentPrompt creates prompt for the final interview report
func (pb *PromptBuilder) BuildAssessmentPrompt(profile *models.CandidateProfile, responses []models.ResponseRecord, duration string) string {
	profileJSON := "{}"
	if profile != nil {
		if b, err := json.MarshalIndent(profile, "", "  "); err == nil {
			profileJSON = string(b)
		}
	}

	return fmt.Sprintf(`Generate a comprehensive interview assessment report based on the following candidate profile and interview responses.

Candidate Profile:
%s

Interview Questions and Responses:
%s

Overall Interview Duration: %s

Provide the assessment strictly as a JSON object with the following structure:
- `+"`overallScore`"+`: (integer 0-100, aggregate score based on all responses)
- `+"`recommendation`"+`: (string, one of %s)
- `+"`interviewDuration`"+`: (string, e.g., "15m 30s")
- `+"`detailedScores`"+`: (object with `+"`technicalSkills`"+`, `+"`communication`"+`, `+"`softSkills`"+` - each an integer 0-100)
- `+"`detailedQuestionAnalysis`"+`: (array of objects, one for each question, including `+"`question`"+`, `+"`response`"+`, `+"`tags`"+`, `+"`score`"+`, `+"`technicalScore`"+`, `+"`communicationScore`"+`, `+"`relevanceScore`"+`)
- `+"`keyStrengths`"+`: (array of strings)
- `+"`areasForImprovement`"+`: (array of strings)

Example JSON output:
%s
`, delimited(profileJSON), delimited(BuildTranscript(responses)), duration,
		quotedList(models.Recommendations),
		fencedExample(`{
  "overallScore": 85,
  "recommendation": "Recommended",
  "interviewDuration": "12m 45s",
  "detailedScores": {
    "technicalSkills": 88,
    "communication": 82,
    "softSkills": 85
  },
  "detailedQuestionAnalysis": [
    {
      "question": "Tell me about a challenging project...",
      "response": "My response...",
      "tags": ["experience"],
      "score": 80,
      "technicalScore": 75,
      "communicationScore": 85,
      "relevanceScore": 80
    }
  ],
  "keyStrengths": ["Strong technical foundation"],
  "areasForImprovement": ["More detailed examples"]
}`))
}

// BuildTranscript renders each answered question with its evaluation.
func BuildTranscript(responses []models.ResponseRecord) string {
	entries := make([]string, 0, len(responses))
	for _, r := range responses {
		entries = append(entries, fmt.Sprintf(
			"Q: %s\nA: %s\nEvaluation: Technical: %s%%, Communication: %s%%, Relevance: %s%%. Feedback: %s",
			r.Question,
			r.Response,
			formatScore(r.Evaluation.TechnicalScore),
			formatScore(r.Evaluation.CommunicationScore),
			formatScore(r.Evaluation.RelevanceScore),
			r.Evaluation.Feedback,
		))
	}
	return strings.Join(entries, "\n\n")
}

func delimited(s string) string {
	return "---\n" + s + "\n---"
}

func fencedExample(s string) string {
	return "```json\n" + s + "\n```"
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func quotedList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = strconv.Quote(item)
	}
	return strings.Join(quoted, ", ")
}
