// middleware/client.go
package middleware

import (
	"log"

	"coinrush/services"

	"github.com/gofiber/fiber/v2"
)

// ClientContextMiddleware resolves the caller's IP into a UserProfile and
// attaches both to the request context. Blocked IPs are refused here, before
// any ledger operation runs — except for the profile read itself, which the
// front end needs to render the blocked screen.
func ClientContextMiddleware(identity *services.IdentityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if ip == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "could not determine client address",
			})
		}

		profile, firstVisit, err := identity.Resolve(ip, c.Query("ref"))
		if err != nil {
			log.Printf("DB error resolving identity for %s: %v", ip, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to resolve identity",
			})
		}

		if profile.IsBlocked && !(c.Method() == fiber.MethodGet && c.Path() == "/s/profile") {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": services.ErrBlocked.Error(),
			})
		}

		c.Locals("client_ip", ip)
		c.Locals("profile", profile)
		c.Locals("first_visit", firstVisit)
		return c.Next()
	}
}
