package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
	"alfredoptarigan/ai-interviewer/pkg/metrics"
)

// InterviewService runs the interview workflow: resume upload, interview
// setup, answer submission and the final assessment. Operations on one
// session are serialized; different sessions run in parallel.
type InterviewService interface {
	UploadResume(ctx context.Context, sessionID, filename string, data []byte) (*UploadResult, error)
	SetupInterview(ctx context.Context, sessionID, role string) ([]models.Question, error)
	SubmitAnswer(ctx context.Context, sessionID, questionID, responseText, duration string) (*models.Evaluation, error)
	GenerateAssessment(ctx context.Context, sessionID string) (*models.AssessmentReport, error)
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	ResetSession(ctx context.Context, sessionID string) error
}

type UploadResult struct {
	SessionID string
	Profile   *models.CandidateProfile
}

type interviewService struct {
	sessions      repositories.SessionRepository
	generator     GenerationService
	parser        DocumentParserService
	promptBuilder *PromptBuilder
	questionPlan  QuestionPlan
	locks         *sessionLocks
	now           func() time.Time
	log           *zap.Logger
}

func NewInterviewService(
	sessions repositories.SessionRepository,
	generator GenerationService,
	parser DocumentParserService,
	log *zap.Logger,
) InterviewService {
	return &interviewService{
		sessions:      sessions,
		generator:     generator,
		parser:        parser,
		promptBuilder: NewPromptBuilder(),
		questionPlan:  DefaultQuestionPlan,
		locks:         newSessionLocks(),
		now:           time.Now,
		log:           log,
	}
}

// UploadResume implements InterviewService. An empty sessionID starts a new
// session; the session exists from this point even if extraction fails.
func (s *interviewService) UploadResume(ctx context.Context, sessionID, filename string, data []byte) (*UploadResult, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if filename == "" || len(data) == 0 {
		return nil, ErrMissingFile
	}

	resumeText := s.parser.ExtractText(filename, data)
	if strings.TrimSpace(resumeText) == "" {
		return nil, ErrExtractionEmpty
	}

	s.log.Info("📄 Extracting candidate profile",
		zap.String("session_id", sessionID),
		zap.Int("resume_chars", len(resumeText)),
	)

	prompt := s.promptBuilder.BuildProfileExtractionPrompt(resumeText)
	raw, err := s.generate(ctx, StageProfileExtraction, prompt)
	if err != nil {
		return nil, err
	}

	value, _, err := decodeModelJSON(StageProfileExtraction, raw, ShapeObject, profileSchema)
	if err != nil {
		return nil, err
	}
	profile := decodeProfile(value)

	session.CandidateProfile = profile
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	metrics.RecordResumeProcessed()

	copied := *profile
	return &UploadResult{SessionID: sessionID, Profile: &copied}, nil
}

// SetupInterview implements InterviewService. It replaces any earlier
// questions and discards previous answers and assessment.
func (s *interviewService) SetupInterview(ctx context.Context, sessionID, role string) ([]models.Question, error) {
	unlock, session, err := s.lockSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	role = strings.TrimSpace(role)
	if role == "" || session.CandidateProfile == nil {
		return nil, ErrPreconditionFailed
	}

	s.log.Info("🤖 Generating interview questions",
		zap.String("session_id", sessionID),
		zap.String("role", role),
	)

	prompt := s.promptBuilder.BuildQuestionGenerationPrompt(*session.CandidateProfile, role, s.questionPlan)
	raw, err := s.generate(ctx, StageQuestionGeneration, prompt)
	if err != nil {
		return nil, err
	}

	value, _, err := decodeModelJSON(StageQuestionGeneration, raw, ShapeArray, questionsSchema)
	if err != nil {
		return nil, err
	}
	questions := decodeQuestions(value)
	if len(questions) != s.questionPlan.Total() {
		s.log.Warn("unexpected question count",
			zap.String("session_id", sessionID),
			zap.Int("expected", s.questionPlan.Total()),
			zap.Int("received", len(questions)),
		)
	}

	start := s.now()
	session.CandidateProfile.Position = role
	session.InterviewQuestions = questions
	session.InterviewResponses = []models.ResponseRecord{}
	session.InterviewStartTime = &start
	session.InterviewEndTime = nil
	session.InterviewAssessment = nil

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return cloneQuestions(questions), nil
}

// SubmitAnswer implements InterviewService.
func (s *interviewService) SubmitAnswer(ctx context.Context, sessionID, questionID, responseText, duration string) (*models.Evaluation, error) {
	unlock, session, err := s.lockSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if strings.TrimSpace(questionID) == "" || strings.TrimSpace(responseText) == "" {
		return nil, ErrMissingAnswerFields
	}

	question, ok := session.FindQuestion(questionID)
	if !ok {
		return nil, ErrQuestionNotFound
	}

	prompt := s.promptBuilder.BuildAnswerEvaluationPrompt(question, responseText)
	raw, err := s.generate(ctx, StageAnswerEvaluation, prompt)
	if err != nil {
		return nil, err
	}

	value, result, err := decodeModelJSON(StageAnswerEvaluation, raw, ShapeObject, evaluationSchema)
	if err != nil {
		return nil, err
	}
	evaluation := decodeEvaluation(value, &result)
	s.reportClamped(StageAnswerEvaluation, sessionID, result)

	session.InterviewResponses = append(session.InterviewResponses, models.ResponseRecord{
		QuestionID: question.ID,
		Question:   question.Question,
		Tags:       append([]string{}, question.Tags...),
		Response:   responseText,
		Duration:   duration,
		Evaluation: evaluation,
	})

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	metrics.RecordAnswerEvaluated()

	return &evaluation, nil
}

// GenerateAssessment implements InterviewService. The reported duration is
// always the sum of the answer durations, whatever the model says.
func (s *interviewService) GenerateAssessment(ctx context.Context, sessionID string) (*models.AssessmentReport, error) {
	unlock, session, err := s.lockSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if len(session.InterviewResponses) == 0 {
		return nil, ErrNoResponses
	}

	duration := FormatInterviewDuration(TotalInterviewSeconds(session.InterviewResponses))

	s.log.Info("📊 Generating assessment",
		zap.String("session_id", sessionID),
		zap.Int("responses", len(session.InterviewResponses)),
		zap.String("duration", duration),
	)

	prompt := s.promptBuilder.BuildAssessmentPrompt(session.CandidateProfile, session.InterviewResponses, duration)
	raw, err := s.generate(ctx, StageAssessmentGeneration, prompt)
	if err != nil {
		return nil, err
	}

	value, result, err := decodeModelJSON(StageAssessmentGeneration, raw, ShapeObject, assessmentSchema)
	if err != nil {
		return nil, err
	}
	report := decodeAssessment(value, &result)
	s.reportClamped(StageAssessmentGeneration, sessionID, result)

	if report.InterviewDuration != duration {
		s.log.Debug("overriding model interview duration",
			zap.String("model", report.InterviewDuration),
			zap.String("computed", duration),
		)
	}
	report.InterviewDuration = duration

	end := s.now()
	session.InterviewEndTime = &end
	session.InterviewAssessment = report

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	metrics.RecordAssessmentGenerated()

	copied := *report
	return &copied, nil
}

// GetSession implements InterviewService. The returned session is a copy.
func (s *interviewService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	unlock, session, err := s.lockSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return cloneSession(session), nil
}

// ResetSession implements InterviewService.
func (s *interviewService) ResetSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrInvalidSession
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return ErrInvalidSession
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// lockSession takes the session lock and loads the session. The caller must
// call unlock when err is nil.
func (s *interviewService) lockSession(ctx context.Context, sessionID string) (func(), *models.Session, error) {
	if sessionID == "" {
		return nil, nil, ErrInvalidSession
	}

	unlock := s.locks.Lock(sessionID)

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		unlock()
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, nil, ErrInvalidSession
		}
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}

	return unlock, session, nil
}

func (s *interviewService) generate(ctx context.Context, stage Stage, prompt string) (string, error) {
	raw, err := s.generator.Generate(ctx, stage, prompt)
	if err != nil {
		s.log.Error("❌ generation failed", zap.String("stage", stage.String()), zap.Error(err))
		return "", newAIError(stage, ErrUpstreamEmpty, raw, err)
	}

	s.log.Debug("raw generation response", zap.String("stage", stage.String()), zap.String("raw", raw))
	return raw, nil
}

func (s *interviewService) reportClamped(stage Stage, sessionID string, result decodeResult) {
	if len(result.Clamped) == 0 {
		return
	}
	for range result.Clamped {
		metrics.RecordScoreClamped(stage.String())
	}
	s.log.Warn("⚠️  model returned scores outside 0-100, clamped",
		zap.String("stage", stage.String()),
		zap.String("session_id", sessionID),
		zap.Strings("fields", result.Clamped),
	)
}

func cloneQuestions(questions []models.Question) []models.Question {
	out := make([]models.Question, len(questions))
	for i, q := range questions {
		q.Tags = append([]string{}, q.Tags...)
		out[i] = q
	}
	return out
}

func cloneSession(s *models.Session) *models.Session {
	out := *s
	if s.CandidateProfile != nil {
		profile := *s.CandidateProfile
		profile.KeySkills = append([]string{}, s.CandidateProfile.KeySkills...)
		out.CandidateProfile = &profile
	}
	out.InterviewQuestions = cloneQuestions(s.InterviewQuestions)
	out.InterviewResponses = append([]models.ResponseRecord{}, s.InterviewResponses...)
	if s.InterviewAssessment != nil {
		report := *s.InterviewAssessment
		out.InterviewAssessment = &report
	}
	return &out
}
