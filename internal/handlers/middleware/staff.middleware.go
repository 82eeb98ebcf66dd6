package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireStaff rejects requests from non-staff users. It assumes
// RequireAuth already ran on the route.
func (m *Middleware) RequireStaff() fiber.Handler {
	log := m.log.Function("RequireStaff")

	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			log.Info("user not found in context")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		if !user.IsStaff() {
			log.Info("user is not staff", "userID", user.ID)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Staff access required",
			})
		}

		return c.Next()
	}
}
