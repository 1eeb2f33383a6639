package utils

import "github.com/gofiber/fiber/v2"

// RenderError renders the shared error page with the given status. It keeps
// failure pages distinguishable (404 vs 409 vs 502) instead of collapsing
// everything into a generic 500.
func RenderError(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).Render("error", fiber.Map{
		"Code":    code,
		"Message": message,
	})
}
