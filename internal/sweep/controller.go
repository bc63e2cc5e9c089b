package sweep

import (
	"github.com/gofiber/fiber/v2"
)

// MountController exposes a manual trigger for the sweeper. Callers guard the
// router; the route itself does no authentication.
func MountController(router fiber.Router, s *Sweeper) {
	router.Post("/run", func(c *fiber.Ctx) error {
		report, err := s.Run()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(report)
	})
}
