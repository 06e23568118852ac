package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/services"
)

const resumeFormField = "resume"

type UploadHandler struct {
	interviewService services.InterviewService
	maxFileSize      int64
}

func NewUploadHandler(interviewService services.InterviewService, maxFileSize int64) *UploadHandler {
	return &UploadHandler{
		interviewService: interviewService,
		maxFileSize:      maxFileSize,
	}
}

// HandleUploadResume handles POST /upload_resume
func (h *UploadHandler) HandleUploadResume(c *fiber.Ctx) error {
	sessionID := sessionIDFrom(c)

	var (
		filename   string
		data       []byte
		missingMsg = msgNoResumeFile
	)

	fileHeader, err := c.FormFile(resumeFormField)
	if err == nil {
		if fileHeader.Size > h.maxFileSize {
			return respondMessage(c, fiber.StatusBadRequest,
				fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize))
		}

		filename = fileHeader.Filename
		missingMsg = msgNoSelectedFile

		data, err = readFormFile(fileHeader)
		if err != nil {
			return respondError(c, fmt.Errorf("failed to read resume file: %w", err))
		}
	}

	// A missing file is still passed through: the session is created before
	// the file is checked.
	result, err := h.interviewService.UploadResume(c.UserContext(), sessionID, filename, data)
	if err != nil {
		if errors.Is(err, services.ErrMissingFile) {
			return respondMessage(c, fiber.StatusBadRequest, missingMsg)
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.UploadResumeResponse{
		Message:          "Resume processed successfully",
		CandidateProfile: result.Profile,
		SessionID:        result.SessionID,
	})
}

func readFormFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}
