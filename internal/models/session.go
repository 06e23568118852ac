package models

import "time"

// Session is the server-side state of one candidate's interview.
// Every ResponseRecord.QuestionID refers to a question in InterviewQuestions
// at the time it was submitted.
type Session struct {
	ID                  string            `json:"session_id"`
	CandidateProfile    *CandidateProfile `json:"candidate_profile"`
	InterviewQuestions  []Question        `json:"interview_questions"`
	InterviewResponses  []ResponseRecord  `json:"interview_responses"`
	InterviewStartTime  *time.Time        `json:"interview_start_time,omitempty"`
	InterviewEndTime    *time.Time        `json:"interview_end_time,omitempty"`
	InterviewAssessment *AssessmentReport `json:"interview_assessment,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:                 id,
		InterviewQuestions: []Question{},
		InterviewResponses: []ResponseRecord{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func (s *Session) FindQuestion(id string) (Question, bool) {
	for _, q := range s.InterviewQuestions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

type CandidateProfile struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Experience       string   `json:"experience"`
	KeySkills        []string `json:"key_skills"`
	InferredPosition string   `json:"inferred_position"`
	Position         string   `json:"position,omitempty"`
}

type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Tags     []string `json:"tags"`
}

// ResponseRecord keeps a copy of the question text and tags as they were
// when the answer was submitted.
type ResponseRecord struct {
	QuestionID string     `json:"question_id"`
	Question   string     `json:"question"`
	Tags       []string   `json:"tags"`
	Response   string     `json:"response"`
	Duration   string     `json:"duration"`
	Evaluation Evaluation `json:"evaluation"`
}
