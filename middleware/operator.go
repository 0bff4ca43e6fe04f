// middleware/operator.go
package middleware

import (
	"log"

	"coinrush/services"

	"github.com/gofiber/fiber/v2"
)

// OperatorSessionMiddleware gates admin routes on the persisted operator
// login flag. The flag survives restarts until an explicit logout — that is
// the reference behavior, weakness included.
func OperatorSessionMiddleware(admin *services.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		loggedIn, err := admin.OperatorLoggedIn()
		if err != nil {
			log.Printf("DB error reading operator session: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to read operator session",
			})
		}
		if !loggedIn {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "operator login required",
			})
		}
		return c.Next()
	}
}
