package services

// Stage names one prompt/response contract with the generation service.
type Stage string

const (
	StageProfileExtraction    Stage = "profile_extraction"
	StageQuestionGeneration   Stage = "question_generation"
	StageAnswerEvaluation     Stage = "answer_evaluation"
	StageAssessmentGeneration Stage = "assessment_generation"
)

var Stages = []Stage{
	StageProfileExtraction,
	StageQuestionGeneration,
	StageAnswerEvaluation,
	StageAssessmentGeneration,
}

func (s Stage) String() string {
	return string(s)
}

// Operation is the user facing name of the step the stage serves.
func (s Stage) Operation() string {
	switch s {
	case StageProfileExtraction:
		return "resume upload"
	case StageQuestionGeneration:
		return "interview setup"
	case StageAnswerEvaluation:
		return "answer evaluation"
	case StageAssessmentGeneration:
		return "assessment generation"
	default:
		return string(s)
	}
}

// EmptyResponseMessage is shown when the stage got nothing back.
func (s Stage) EmptyResponseMessage() string {
	switch s {
	case StageProfileExtraction:
		return "AI failed to parse resume or returned empty response."
	case StageQuestionGeneration:
		return "AI failed to generate questions or returned empty response."
	case StageAnswerEvaluation:
		return "AI failed to evaluate response or returned empty response."
	case StageAssessmentGeneration:
		return "AI failed to generate assessment or returned empty response."
	default:
		return "AI returned empty response."
	}
}
