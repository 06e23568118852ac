package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/services"
)

type ResultHandler struct {
	interviewService services.InterviewService
}

func NewResultHandler(interviewService services.InterviewService) *ResultHandler {
	return &ResultHandler{
		interviewService: interviewService,
	}
}

// HandleGetAssessment handles GET /get_assessment
func (h *ResultHandler) HandleGetAssessment(c *fiber.Ctx) error {
	sessionID := sessionIDFrom(c)
	if sessionID == "" {
		return respondError(c, services.ErrInvalidSession)
	}

	report, err := h.interviewService.GenerateAssessment(c.UserContext(), sessionID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.AssessmentResponse{
		Message:    "Assessment generated",
		Assessment: report,
	})
}

// HandleGetSession handles GET /session
func (h *ResultHandler) HandleGetSession(c *fiber.Ctx) error {
	sessionID := sessionIDFrom(c)
	if sessionID == "" {
		return respondError(c, services.ErrInvalidSession)
	}

	session, err := h.interviewService.GetSession(c.UserContext(), sessionID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(session)
}

// HandleResetSession handles DELETE /session
func (h *ResultHandler) HandleResetSession(c *fiber.Ctx) error {
	sessionID := sessionIDFrom(c)
	if err := h.interviewService.ResetSession(c.UserContext(), sessionID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
