package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/services"
)

const (
	msgInvalidSession  = "Invalid or missing session ID"
	msgNoResumeFile    = "No resume file provided"
	msgNoSelectedFile  = "No selected file"
	msgExtractionEmpty = "Could not extract text from the provided PDF. Please ensure it is a text-based PDF or its text is extractable."
	msgSetupRequired   = "Position role and candidate profile are required"
	msgAnswerRequired  = "Question ID and response text are required"
	msgNoResponses     = "No interview responses to assess"
	msgQuestionMissing = "Question not found in current session"
	msgInvalidPayload  = "Invalid request payload"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{services.ErrInvalidSession, fiber.StatusBadRequest, msgInvalidSession},
	{services.ErrMissingFile, fiber.StatusBadRequest, msgNoResumeFile},
	{services.ErrExtractionEmpty, fiber.StatusBadRequest, msgExtractionEmpty},
	{services.ErrPreconditionFailed, fiber.StatusBadRequest, msgSetupRequired},
	{services.ErrMissingAnswerFields, fiber.StatusBadRequest, msgAnswerRequired},
	{services.ErrNoResponses, fiber.StatusBadRequest, msgNoResponses},
	{services.ErrQuestionNotFound, fiber.StatusNotFound, msgQuestionMissing},
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	var aiErr *services.AIError
	switch {
	case errors.As(err, &aiErr):
		return fiber.StatusInternalServerError
	case errors.Is(err, services.ErrInputValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	var aiErr *services.AIError
	if errors.As(err, &aiErr) {
		return aiErrorMessage(aiErr)
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.message
		}
	}
	return fmt.Sprintf("An unexpected error occurred: %v", err)
}

func aiErrorMessage(err *services.AIError) string {
	switch {
	case errors.Is(err.Kind, services.ErrExtractionFailure), errors.Is(err.Kind, services.ErrDomainParse):
		cause := err.Err
		if cause == nil {
			cause = err.Kind
		}
		return fmt.Sprintf("Failed to parse AI response as JSON for %s: %v. Raw AI response: %s",
			err.Stage.Operation(), cause, err.Raw)
	case errors.Is(err.Err, services.ErrUpstreamEmpty):
		return err.Stage.EmptyResponseMessage()
	default:
		return fmt.Sprintf("An unexpected error occurred during %s: %v", err.Stage.Operation(), err.Err)
	}
}

// respondError writes the error body for err. AI failures carry the raw
// upstream text alongside the message.
func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	body := models.ErrorResponse{
		Error: errorMessage(err),
		Code:  status,
	}

	var aiErr *services.AIError
	if errors.As(err, &aiErr) {
		body.RawResponse = aiErr.Raw
	}

	return c.Status(status).JSON(body)
}

func respondMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{
		Error: message,
		Code:  status,
	})
}
