package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

type scriptedGenerator struct {
	mu      sync.Mutex
	replies map[Stage]func(prompt string) (string, error)
	prompts map[Stage][]string
}

func newScriptedGenerator() *scriptedGenerator {
	return &scriptedGenerator{
		replies: map[Stage]func(string) (string, error){},
		prompts: map[Stage][]string{},
	}
}

func (g *scriptedGenerator) on(stage Stage, reply string) {
	g.onFunc(stage, func(string) (string, error) { return reply, nil })
}

func (g *scriptedGenerator) onFunc(stage Stage, fn func(prompt string) (string, error)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.replies[stage] = fn
}

func (g *scriptedGenerator) Generate(ctx context.Context, stage Stage, prompt string) (string, error) {
	g.mu.Lock()
	fn := g.replies[stage]
	g.prompts[stage] = append(g.prompts[stage], prompt)
	g.mu.Unlock()

	if fn == nil {
		return "", fmt.Errorf("%w: no scripted reply", ErrUpstreamEmpty)
	}
	return fn(prompt)
}

func (g *scriptedGenerator) calls(stage Stage) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts[stage])
}

func questionsJSON(n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"id": "q%d", "question": "Question %d?", "tags": ["technical"]}`, i+1, i+1)
	}
	return "```json\n[" + strings.Join(items, ",") + "]\n```"
}

const (
	profileReply    = `Here you go: {"name": "Jane", "email": "jane@example.com", "experience": "3 years", "key_skills": ["SQL"], "inferred_position": "Data Analyst"}`
	evaluationReply = "```json\n{\"technicalScore\": 80, \"communicationScore\": 90, \"relevanceScore\": 70, \"feedback\": \"Clear answer.\"}\n```"
	assessmentReply = `{"overallScore": 82, "recommendation": "recommended", "interviewDuration": "45m 0s", "detailedScores": {"technicalSkills": 80, "communication": 85, "softSkills": 78}, "detailedQuestionAnalysis": [], "keyStrengths": ["SQL"], "areasForImprovement": ["Depth"]}`
)

type interviewFixture struct {
	svc       *interviewService
	repo      repositories.SessionRepository
	generator *scriptedGenerator
}

func newInterviewFixture() *interviewFixture {
	repo := repositories.NewMemorySessionRepository(time.Hour, time.Minute)
	gen := newScriptedGenerator()
	gen.on(StageProfileExtraction, profileReply)
	gen.on(StageQuestionGeneration, questionsJSON(15))
	gen.on(StageAnswerEvaluation, evaluationReply)
	gen.on(StageAssessmentGeneration, assessmentReply)

	svc := NewInterviewService(repo, gen, NewDocumentParserService(zap.NewNop()), zap.NewNop()).(*interviewService)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }

	return &interviewFixture{svc: svc, repo: repo, generator: gen}
}

func (f *interviewFixture) upload(t *testing.T, sessionID string) string {
	t.Helper()
	res, err := f.svc.UploadResume(context.Background(), sessionID, "resume.txt", []byte("Jane Doe, SQL analyst"))
	require.NoError(t, err)
	return res.SessionID
}

func TestInterviewEndToEnd(t *testing.T) {
	f := newInterviewFixture()
	ctx := context.Background()

	res, err := f.svc.UploadResume(ctx, "", "resume.txt", []byte("Jane Doe\n3 years of SQL"))
	require.NoError(t, err)
	require.NotEmpty(t, res.SessionID)
	assert.Equal(t, "Jane", res.Profile.Name)
	assert.Equal(t, []string{"SQL"}, res.Profile.KeySkills)
	assert.Equal(t, "3 years", res.Profile.Experience)
	assert.Contains(t, f.generator.prompts[StageProfileExtraction][0], "Jane Doe\n3 years of SQL")

	questions, err := f.svc.SetupInterview(ctx, res.SessionID, "Analyst")
	require.NoError(t, err)
	assert.Len(t, questions, 15)

	evaluation, err := f.svc.SubmitAnswer(ctx, res.SessionID, "q1", "I would add an index.", "1:30")
	require.NoError(t, err)
	assert.Equal(t, 80, evaluation.Score)

	report, err := f.svc.GenerateAssessment(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "1m 30s", report.InterviewDuration)
	assert.Equal(t, models.RecommendationRecommended, report.Recommendation)
	assert.Equal(t, 82.0, report.OverallScore)

	session, err := f.svc.GetSession(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Analyst", session.CandidateProfile.Position)
	require.Len(t, session.InterviewResponses, 1)
	assert.Equal(t, "Question 1?", session.InterviewResponses[0].Question)
	assert.Equal(t, []string{"technical"}, session.InterviewResponses[0].Tags)
	assert.NotNil(t, session.InterviewStartTime)
	assert.NotNil(t, session.InterviewEndTime)
	assert.Equal(t, "1m 30s", session.InterviewAssessment.InterviewDuration)

	assessmentPrompt := f.generator.prompts[StageAssessmentGeneration][0]
	assert.Contains(t, assessmentPrompt, "Overall Interview Duration: 1m 30s")
	assert.Contains(t, assessmentPrompt, "A: I would add an index.")
}

func TestUploadResumeKeepsClientSessionID(t *testing.T) {
	f := newInterviewFixture()

	id := f.upload(t, "client-chosen")

	assert.Equal(t, "client-chosen", id)
}

func TestUploadResumeMissingFile(t *testing.T) {
	f := newInterviewFixture()

	_, err := f.svc.UploadResume(context.Background(), "s1", "", nil)

	assert.ErrorIs(t, err, ErrMissingFile)
	assert.ErrorIs(t, err, ErrInputValidation)
}

func TestUploadResumeBlankText(t *testing.T) {
	f := newInterviewFixture()
	ctx := context.Background()

	_, err := f.svc.UploadResume(ctx, "s1", "resume.txt", []byte("   \n\t"))

	assert.ErrorIs(t, err, ErrExtractionEmpty)
	assert.Equal(t, 0, f.generator.calls(StageProfileExtraction))

	session, err := f.repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, session.CandidateProfile)
}

func TestUploadResumeUnparsableReplyKeepsRawText(t *testing.T) {
	f := newInterviewFixture()
	f.generator.on(StageProfileExtraction, "Sorry, I cannot help with that.")
	ctx := context.Background()

	_, err := f.svc.UploadResume(ctx, "s1", "resume.txt", []byte("resume"))

	var aiErr *AIError
	require.ErrorAs(t, err, &aiErr)
	assert.ErrorIs(t, err, ErrExtractionFailure)
	assert.Equal(t, "Sorry, I cannot help with that.", aiErr.Raw)

	session, err := f.repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, session.CandidateProfile)
}

func TestUploadResumeUpstreamFailure(t *testing.T) {
	f := newInterviewFixture()
	f.generator.onFunc(StageProfileExtraction, func(string) (string, error) {
		return "", fmt.Errorf("%w: no text content", ErrUpstreamEmpty)
	})

	_, err := f.svc.UploadResume(context.Background(), "s1", "resume.txt", []byte("resume"))

	var aiErr *AIError
	require.ErrorAs(t, err, &aiErr)
	assert.ErrorIs(t, err, ErrUpstreamEmpty)
	assert.Equal(t, StageProfileExtraction, aiErr.Stage)
}

func TestSetupInterviewUnknownSession(t *testing.T) {
	f := newInterviewFixture()

	_, err := f.svc.SetupInterview(context.Background(), "nope", "Analyst")
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = f.svc.SetupInterview(context.Background(), "", "Analyst")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSetupInterviewWithoutProfile(t *testing.T) {
	f := newInterviewFixture()
	ctx := context.Background()
	_, err := f.repo.GetOrCreate(ctx, "s1")
	require.NoError(t, err)

	_, err = f.svc.SetupInterview(ctx, "s1", "Analyst")

	assert.ErrorIs(t, err, ErrPreconditionFailed)
	assert.ErrorIs(t, err, ErrInputValidation)
	assert.Equal(t, 0, f.generator.calls(StageQuestionGeneration))
}

func TestSetupInterviewRequiresRole(t *testing.T) {
	f := newInterviewFixture()
	id := f.upload(t, "s1")

	_, err := f.svc.SetupInterview(context.Background(), id, "   ")

	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestSetupInterviewFailureLeavesSessionUntouched(t *testing.T) {
	f := newInterviewFixture()
	ctx := context.Background()
	id := f.upload(t, "s1")
	_, err := f.svc.SetupInterview(ctx, id, "Analyst")
	require.NoError(t, err)
	_, err = f.svc.SubmitAnswer(ctx, id, "q1", "answer", "0:30")
	require.NoError(t, err)

	f.generator.on(StageQuestionGeneration, `[{"id": "x"}]`)
	_, err = f.svc.SetupInterview(ctx, id, "Engineer")
	require.ErrorIs(t, err, ErrDomainParse)

	session, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Analyst", session.CandidateProfile.Position)
	assert.Len(t, session.InterviewQuestions, 15)
	assert.Len(t, session.InterviewResponses, 1)
}

func TestSetupInterviewResetsResponsesAndAssessment(t *testing.T) {
	f := newInterviewFixture()
	ctx := context.Background()
	id := f.upload(t, "s1")
	_, err := f.svc.SetupInterview(ctx, id, "Analyst")
	require.NoError(t, err)
	_, err = f.svc.SubmitAnswer(ctx, id, "q1", "answer", "0:30")
	require.NoError(t, err)
	_, err = f.svc.GenerateAssessment(ctx, id)
	require.NoError(t, err)

	_, err = f.svc.SetupInterview(ctx, id, "Engineer")
	require.NoError(t, err)

	session, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, session.InterviewResponses)
	assert.Nil(t, session.InterviewAssessment)
	assert.Nil(t, session.InterviewEndTime)
	assert.Equal(t, "Engineer", session.CandidateProfile.Position)
}

func TestSubmitAnswerValidation(t *testing.T) {
	f := newInterviewFixture()
	ctx := context.Background()
	id := f.upload(t, "s1")
	_, err := f.svc.SetupInterview(ctx, id, "Analyst")
	require.NoError(t, err)

	_, err = f.svc.SubmitAnswer(ctx, id, "", "answer", "0:10")
	assert.ErrorIs(t, err, ErrMissingAnswerFields)

	_, err = f.svc.SubmitAnswer(ctx, id, "q1", " ", "0:10")
	assert.ErrorIs(t, err, ErrMissingAnswerFields)

	_, err = f.svc.SubmitAnswer(ctx, id, "q99", "answer", "0:10")
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.SubmitAnswer(ctx, "unknown", "q1", "answer", "0:10")
	assert.ErrorIs(t, err, ErrInvalidSession)

	assert.Equal(t, 0, f.generator.calls(StageAnswerEvaluation))
}

func TestSubmitAnswerFailureAppendsNothing(t *testing.T) {
	f := newInterviewFixture()
	ctx := context.Background()
	id := f.upload(t, "s1")
	_, err := f.svc.SetupInterview(ctx, id, "Analyst")
	require.NoError(t, err)

	f.generator.on(StageAnswerEvaluation, "")
	_, err = f.svc.SubmitAnswer(ctx, id, "q1", "answer", "0:10")
	require.Error(t, err)

	session, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, session.InterviewResponses)
}

func TestSubmitAnswerConcurrentSameSession(t *testing.T) {
	f := newInterviewFixture()
	ctx := context.Background()
	id := f.upload(t, "s1")
	_, err := f.svc.SetupInterview(ctx, id, "Analyst")
	require.NoError(t, err)

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			qid := fmt.Sprintf("q%d", i%15+1)
			_, err := f.svc.SubmitAnswer(ctx, id, qid, "answer", "0:01")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	session, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Len(t, session.InterviewResponses, n)
}

func TestGenerateAssessmentWithoutResponses(t *testing.T) {
	f := newInterviewFixture()
	ctx := context.Background()
	id := f.upload(t, "s1")
	_, err := f.svc.SetupInterview(ctx, id, "Analyst")
	require.NoError(t, err)

	_, err = f.svc.GenerateAssessment(ctx, id)

	assert.ErrorIs(t, err, ErrNoResponses)
	assert.ErrorIs(t, err, ErrInputValidation)
	assert.Equal(t, 0, f.generator.calls(StageAssessmentGeneration))
}

func TestGenerateAssessmentSkipsUnparsableDurations(t *testing.T) {
	f := newInterviewFixture()
	ctx := context.Background()
	id := f.upload(t, "s1")
	_, err := f.svc.SetupInterview(ctx, id, "Analyst")
	require.NoError(t, err)

	for qid, d := range map[string]string{"q1": "1:30", "q2": "0:45", "q3": "bad"} {
		_, err := f.svc.SubmitAnswer(ctx, id, qid, "answer", d)
		require.NoError(t, err)
	}

	report, err := f.svc.GenerateAssessment(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, "2m 15s", report.InterviewDuration)
}

func TestGenerateAssessmentOverwritesPrevious(t *testing.T) {
	f := newInterviewFixture()
	ctx := context.Background()
	id := f.upload(t, "s1")
	_, err := f.svc.SetupInterview(ctx, id, "Analyst")
	require.NoError(t, err)
	_, err = f.svc.SubmitAnswer(ctx, id, "q1", "answer", "0:30")
	require.NoError(t, err)

	_, err = f.svc.GenerateAssessment(ctx, id)
	require.NoError(t, err)

	f.generator.on(StageAssessmentGeneration, `{"overallScore": 40, "recommendation": "Not Recommended"}`)
	report, err := f.svc.GenerateAssessment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.RecommendationNotRecommended, report.Recommendation)

	session, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 40.0, session.InterviewAssessment.OverallScore)
	assert.Equal(t, "0m 30s", session.InterviewAssessment.InterviewDuration)
}

func TestResetSession(t *testing.T) {
	f := newInterviewFixture()
	ctx := context.Background()
	id := f.upload(t, "s1")

	require.NoError(t, f.svc.ResetSession(ctx, id))

	_, err := f.svc.GetSession(ctx, id)
	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.ErrorIs(t, f.svc.ResetSession(ctx, id), ErrInvalidSession)
}

func TestGetSessionReturnsCopy(t *testing.T) {
	f := newInterviewFixture()
	ctx := context.Background()
	id := f.upload(t, "s1")

	snapshot, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	snapshot.CandidateProfile.Name = "Mallory"

	again, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Jane", again.CandidateProfile.Name)
}

func TestAIErrorMessage(t *testing.T) {
	err := newAIError(StageAnswerEvaluation, ErrDomainParse, "raw", errors.New("bad shape"))

	assert.Contains(t, err.Error(), "answer_evaluation")
	assert.Contains(t, err.Error(), "bad shape")
	assert.ErrorIs(t, err, ErrDomainParse)
}
