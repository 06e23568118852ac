package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"alfredoptarigan/ai-interviewer/internal/models"
)

func TestBuildProfileExtractionPromptEmbedsResumeVerbatim(t *testing.T) {
	pb := NewPromptBuilder()
	resume := "Jane Doe\njane@example.com\n100% uptime on SQL pipelines\n" + strings.Repeat("x", 50000)

	prompt := pb.BuildProfileExtractionPrompt(resume)

	assert.Contains(t, prompt, "---\n"+resume+"\n---")
	assert.Contains(t, prompt, "```json")
	assert.Contains(t, prompt, "`key_skills` (array of strings)")
	assert.NotContains(t, prompt, "%!")
}

func TestBuildQuestionGenerationPrompt(t *testing.T) {
	pb := NewPromptBuilder()
	profile := models.CandidateProfile{Name: "Jane", Experience: "3 years", KeySkills: []string{"SQL", "Python"}}

	prompt := pb.BuildQuestionGenerationPrompt(profile, "Analyst", DefaultQuestionPlan)

	assert.Contains(t, prompt, "---\nJane\n---")
	assert.Contains(t, prompt, "---\nAnalyst\n---")
	assert.Contains(t, prompt, "---\nSQL, Python\n---")
	assert.Contains(t, prompt, "- 10 Technical questions")
	assert.Contains(t, prompt, "- 3 Soft Skills questions")
	assert.Contains(t, prompt, "- 2 Communication Skills questions")
	assert.Equal(t, 15, DefaultQuestionPlan.Total())
}

func TestBuildQuestionGenerationPromptDegenerateProfile(t *testing.T) {
	prompt := NewPromptBuilder().BuildQuestionGenerationPrompt(models.CandidateProfile{}, "", DefaultQuestionPlan)

	assert.Contains(t, prompt, "---\nCandidate\n---")
	assert.Contains(t, prompt, "---\nN/A\n---")
	assert.Contains(t, prompt, "---\nnone listed\n---")
}

func TestBuildAnswerEvaluationPrompt(t *testing.T) {
	question := models.Question{ID: "q1", Question: "What is an index?"}
	answer := "A data structure.\nIt speeds up \"lookups\"."

	prompt := NewPromptBuilder().BuildAnswerEvaluationPrompt(question, answer)

	assert.Contains(t, prompt, "---\nWhat is an index?\n---")
	assert.Contains(t, prompt, "---\n"+answer+"\n---")
	assert.Contains(t, prompt, "`relevanceScore`: (integer 0-100)")
}

func TestBuildAssessmentPrompt(t *testing.T) {
	profile := &models.CandidateProfile{Name: "Jane", KeySkills: []string{"SQL"}, Position: "Analyst"}
	responses := []models.ResponseRecord{
		{
			Question: "What is an index?",
			Response: "A lookup structure.",
			Evaluation: models.Evaluation{
				TechnicalScore: 80, CommunicationScore: 90, RelevanceScore: 70.5, Feedback: "Good.",
			},
		},
	}

	prompt := NewPromptBuilder().BuildAssessmentPrompt(profile, responses, "2m 15s")

	assert.Contains(t, prompt, `"name": "Jane"`)
	assert.Contains(t, prompt, `"position": "Analyst"`)
	assert.Contains(t, prompt, "Q: What is an index?\nA: A lookup structure.\nEvaluation: Technical: 80%, Communication: 90%, Relevance: 70.5%. Feedback: Good.")
	assert.Contains(t, prompt, "Overall Interview Duration: 2m 15s")
	assert.Contains(t, prompt, `"Consider with Reservations"`)
	assert.NotContains(t, prompt, "%!")
}

func TestBuildAssessmentPromptNilProfile(t *testing.T) {
	prompt := NewPromptBuilder().BuildAssessmentPrompt(nil, nil, "0m 0s")

	assert.Contains(t, prompt, "Candidate Profile:\n---\n{}\n---")
}

func TestBuildTranscriptSeparatesEntries(t *testing.T) {
	transcript := BuildTranscript([]models.ResponseRecord{
		{Question: "A?", Response: "a"},
		{Question: "B?", Response: "b"},
	})

	assert.Equal(t, 2, strings.Count(transcript, "Q: "))
	assert.Contains(t, transcript, "Feedback: \n\nQ: B?")
}
