package handlers

import (
	"github.com/gofiber/fiber/v2"

	"robot-visualizer/services"
)

// Session - 서버가 띄운 시각화 세션 (main 에서 설정)
var Session *services.VisualizerSession

// HandleVisualizerStatus - GET /api/visualizer/status
func HandleVisualizerStatus(c *fiber.Ctx) error {
	if Session == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "visualizer not running",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"session": Session.Status(),
		"viewers": Viewers.GetClientCount(),
	})
}
