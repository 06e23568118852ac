package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/services"
)

type InterviewHandler struct {
	interviewService services.InterviewService
}

func NewInterviewHandler(interviewService services.InterviewService) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
	}
}

// HandleSetupInterview handles POST /setup_interview
func (h *InterviewHandler) HandleSetupInterview(c *fiber.Ctx) error {
	sessionID := sessionIDFrom(c)
	if sessionID == "" {
		return respondError(c, services.ErrInvalidSession)
	}

	var req models.SetupInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return respondMessage(c, fiber.StatusBadRequest, msgInvalidPayload)
	}

	if err := validateRequest(req); err != nil {
		return respondError(c, services.ErrPreconditionFailed)
	}

	questions, err := h.interviewService.SetupInterview(c.UserContext(), sessionID, utils.CopyString(req.PositionRole))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SetupInterviewResponse{
		Message:   "Interview questions generated",
		Questions: questions,
	})
}

// HandleSubmitAnswer handles POST /submit_answer
func (h *InterviewHandler) HandleSubmitAnswer(c *fiber.Ctx) error {
	sessionID := sessionIDFrom(c)
	if sessionID == "" {
		return respondError(c, services.ErrInvalidSession)
	}

	var req models.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return respondMessage(c, fiber.StatusBadRequest, msgInvalidPayload)
	}

	if err := validateRequest(req); err != nil {
		return respondError(c, services.ErrMissingAnswerFields)
	}

	evaluation, err := h.interviewService.SubmitAnswer(
		c.UserContext(),
		sessionID,
		utils.CopyString(req.QuestionID),
		utils.CopyString(req.ResponseText),
		utils.CopyString(req.Duration),
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SubmitAnswerResponse{
		Message:    "Answer submitted and evaluated",
		Evaluation: evaluation,
	})
}
