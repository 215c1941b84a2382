package handlers

import (
	"github.com/gofiber/fiber/v2"
	job "github.com/tamralc/publora/internal/jobs"
)

type SchedulerHandler struct {
	job *job.PublishDueJob
}

func NewSchedulerHandler(job *job.PublishDueJob) *SchedulerHandler {
	return &SchedulerHandler{job: job}
}

// RunScheduler is the manual trigger for operational recovery. It runs the
// same query-and-process pass as the cron tick and reports the counts.
func (h *SchedulerHandler) RunScheduler(c *fiber.Ctx) error {
	report, err := h.job.RunOnce(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to process scheduled posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":   "Scheduled posts processed",
		"total":     report.Total,
		"processed": report.Processed,
		"failed":    report.Failed,
	})
}
