package handlers

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the interview endpoints on router.
func RegisterRoutes(router fiber.Router, upload *UploadHandler, interview *InterviewHandler, result *ResultHandler) {
	router.Post("/upload_resume", upload.HandleUploadResume)
	router.Post("/setup_interview", interview.HandleSetupInterview)
	router.Post("/submit_answer", interview.HandleSubmitAnswer)
	router.Get("/get_assessment", result.HandleGetAssessment)
	router.Get("/session", result.HandleGetSession)
	router.Delete("/session", result.HandleResetSession)
}
