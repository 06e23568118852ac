package models

type Evaluation struct {
	TechnicalScore     float64 `json:"technicalScore"`
	CommunicationScore float64 `json:"communicationScore"`
	RelevanceScore     float64 `json:"relevanceScore"`
	Feedback           string  `json:"feedback"`
	Score              int     `json:"score"`
}

const (
	RecommendationHighlyRecommended = "Highly Recommended"
	RecommendationRecommended       = "Recommended"
	RecommendationReservations      = "Consider with Reservations"
	RecommendationNotRecommended    = "Not Recommended"
)

var Recommendations = []string{
	RecommendationHighlyRecommended,
	RecommendationRecommended,
	RecommendationReservations,
	RecommendationNotRecommended,
}

type AssessmentReport struct {
	OverallScore             float64            `json:"overallScore"`
	Recommendation           string             `json:"recommendation"`
	InterviewDuration        string             `json:"interviewDuration"`
	DetailedScores           DetailedScores     `json:"detailedScores"`
	DetailedQuestionAnalysis []QuestionAnalysis `json:"detailedQuestionAnalysis"`
	KeyStrengths             []string           `json:"keyStrengths"`
	AreasForImprovement      []string           `json:"areasForImprovement"`
}

type DetailedScores struct {
	TechnicalSkills float64 `json:"technicalSkills"`
	Communication   float64 `json:"communication"`
	SoftSkills      float64 `json:"softSkills"`
}

type QuestionAnalysis struct {
	Question           string   `json:"question"`
	Response           string   `json:"response"`
	Tags               []string `json:"tags"`
	Score              float64  `json:"score"`
	TechnicalScore     float64  `json:"technicalScore"`
	CommunicationScore float64  `json:"communicationScore"`
	RelevanceScore     float64  `json:"relevanceScore"`
}
