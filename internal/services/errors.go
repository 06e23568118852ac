package services

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP statuses with errors.Is.
var (
	ErrInputValidation   = errors.New("input validation failed")
	ErrNotFound          = errors.New("not found")
	ErrUpstreamEmpty     = errors.New("generation service returned no content")
	ErrExtractionFailure = errors.New("no usable JSON in generation response")
	ErrDomainParse       = errors.New("generation response has an unexpected structure")
)

var (
	ErrInvalidSession      = fmt.Errorf("%w: invalid or missing session ID", ErrInputValidation)
	ErrMissingFile         = fmt.Errorf("%w: no resume file provided", ErrInputValidation)
	ErrExtractionEmpty     = fmt.Errorf("%w: could not extract text from the provided document", ErrInputValidation)
	ErrPreconditionFailed  = fmt.Errorf("%w: position role and candidate profile are required", ErrInputValidation)
	ErrMissingAnswerFields = fmt.Errorf("%w: question ID and response text are required", ErrInputValidation)
	ErrNoResponses         = fmt.Errorf("%w: no interview responses to assess", ErrInputValidation)
	ErrQuestionNotFound    = fmt.Errorf("%w: question not found in current session", ErrNotFound)
)

// AIError is a failed generation stage. Raw holds whatever text the
// generation service returned so callers can show it for diagnosis.
type AIError struct {
	Stage Stage
	Kind  error
	Raw   string
	Err   error
}

func newAIError(stage Stage, kind error, raw string, err error) *AIError {
	return &AIError{Stage: stage, Kind: kind, Raw: raw, Err: err}
}

func (e *AIError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Stage, e.Kind, e.Err)
}

func (e *AIError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
