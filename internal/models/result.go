package models

type SetupInterviewRequest struct {
	PositionRole string `json:"position_role" validate:"required"`
}

type SubmitAnswerRequest struct {
	QuestionID   string `json:"question_id" validate:"required"`
	ResponseText string `json:"response_text" validate:"required"`
	Duration     string `json:"duration"`
}

type UploadResumeResponse struct {
	Message          string            `json:"message"`
	CandidateProfile *CandidateProfile `json:"candidate_profile"`
	SessionID        string            `json:"session_id"`
}

type SetupInterviewResponse struct {
	Message   string     `json:"message"`
	Questions []Question `json:"questions"`
}

type SubmitAnswerResponse struct {
	Message    string      `json:"message"`
	Evaluation *Evaluation `json:"evaluation"`
}

type AssessmentResponse struct {
	Message    string            `json:"message"`
	Assessment *AssessmentReport `json:"assessment"`
}

type ErrorResponse struct {
	Error       string `json:"error"`
	Code        int    `json:"code"`
	RawResponse string `json:"raw_response,omitempty"`
}
