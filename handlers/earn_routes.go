// handlers/earn_routes.go
package handlers

import (
	"errors"
	"log"

	"coinrush/metrics"
	"coinrush/middleware"
	"coinrush/models"
	"coinrush/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// lookupErr normalizes a First() miss into the rejection taxonomy while
// letting real store errors through to the 500 branch.
func lookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.ErrNotFound
	}
	return err
}

// rejectionStatus maps ledger rejections to HTTP statuses. Anything not in
// the taxonomy is a store failure and surfaces as 500.
func rejectionStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrAlreadyClaimed),
		errors.Is(err, services.ErrLimitExceeded),
		errors.Is(err, services.ErrNotPending):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrExpired):
		return fiber.StatusGone
	case errors.Is(err, services.ErrBelowMinimum),
		errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrNotReady):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrBlocked),
		errors.Is(err, services.ErrWithdrawDisabled):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

func rejectOr500(c *fiber.Ctx, err error, what string) error {
	status := rejectionStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("DB error during %s: %v", what, err)
		return c.Status(status).JSON(fiber.Map{"error": "store failure"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func clientIP(c *fiber.Ctx) string {
	return c.Locals("client_ip").(string)
}

// SetupEarnRoutes wires the user-facing earning surface under /s/. Every
// route goes through ClientContextMiddleware, so a profile always exists and
// blocked IPs never get this far.
func SetupEarnRoutes(app *fiber.App, identity *services.IdentityService,
	ledger *services.LedgerService, catalog *services.CatalogService,
	gate *services.ClaimGate) {

	s := app.Group("/s", middleware.ClientContextMiddleware(identity))

	s.Get("/profile", func(c *fiber.Ctx) error {
		profile := c.Locals("profile").(*models.UserProfile)
		ip := clientIP(c)

		completed, err := ledger.CompletedTaskIDs(ip)
		if err != nil {
			return rejectOr500(c, err, "profile task list")
		}
		used, err := ledger.UsedCouponIDs(ip)
		if err != nil {
			return rejectOr500(c, err, "profile coupon list")
		}

		return c.JSON(fiber.Map{
			"profile":         profile,
			"tasks_completed": completed,
			"coupons_used":    used,
			"welcome":         c.Locals("first_visit").(bool),
		})
	})

	s.Get("/tasks", func(c *fiber.Ctx) error {
		tasks, err := catalog.PublishedTasks()
		if err != nil {
			return rejectOr500(c, err, "task listing")
		}
		completed, err := ledger.CompletedTaskIDs(clientIP(c))
		if err != nil {
			return rejectOr500(c, err, "task listing")
		}
		done := make(map[string]bool, len(completed))
		for _, id := range completed {
			done[id] = true
		}

		out := make([]fiber.Map, 0, len(tasks))
		for _, t := range tasks {
			out = append(out, fiber.Map{
				"task":      t,
				"completed": done[t.ID],
			})
		}
		return c.JSON(out)
	})

	// Opening a task arms the claim gate and hands back the link plus the
	// countdown the client must wait out.
	s.Post("/tasks/:id/open", func(c *fiber.Ctx) error {
		ip := clientIP(c)
		taskID := c.Params("id")

		var task models.Task
		if err := catalog.DB.Where("id = ? AND status = ?", taskID, models.TaskStatusPublished).
			First(&task).Error; err != nil {
			return rejectOr500(c, lookupErr(err), "task open")
		}

		completed, err := ledger.CompletedTaskIDs(ip)
		if err != nil {
			return rejectOr500(c, err, "task open")
		}
		for _, id := range completed {
			if id == taskID {
				return rejectOr500(c, services.ErrAlreadyClaimed, "task open")
			}
		}

		seconds := gate.Arm(ip, taskID)
		return c.JSON(fiber.Map{
			"link":    task.Link,
			"seconds": seconds,
		})
	})

	s.Post("/tasks/:id/claim", func(c *fiber.Ctx) error {
		ip := clientIP(c)
		taskID := c.Params("id")

		if err := gate.Verify(ip, taskID); err != nil {
			return rejectOr500(c, err, "task claim")
		}

		task, err := ledger.ClaimTask(ip, taskID)
		if err != nil {
			return rejectOr500(c, err, "task claim")
		}
		gate.Clear(ip)
		metrics.TaskClaims.Inc()

		return c.JSON(fiber.Map{
			"message": "task reward claimed",
			"reward":  task.Reward,
		})
	})

	s.Post("/bonus/daily", func(c *fiber.Ctx) error {
		bonus, err := ledger.ClaimDailyBonus(clientIP(c))
		if err != nil {
			return rejectOr500(c, err, "daily bonus")
		}
		metrics.DailyBonuses.Inc()
		return c.JSON(fiber.Map{
			"message": "daily bonus claimed",
			"reward":  bonus,
		})
	})

	s.Post("/coupons/redeem", func(c *fiber.Ctx) error {
		var req struct {
			Code string `json:"code"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		coupon, err := ledger.RedeemCoupon(clientIP(c), req.Code)
		if err != nil {
			return rejectOr500(c, err, "coupon redemption")
		}
		metrics.CouponRedemptions.Inc()
		return c.JSON(fiber.Map{
			"message": "coupon redeemed",
			"reward":  coupon.Reward,
		})
	})

	s.Get("/games", func(c *fiber.Ctx) error {
		games, err := catalog.EnabledGames()
		if err != nil {
			return rejectOr500(c, err, "game listing")
		}
		return c.JSON(games)
	})

	// The amount is whatever the mini-game reports. The only gate here is
	// that the game exists and is enabled; bounds are the game's problem.
	s.Post("/games/:id/score", func(c *fiber.Ctx) error {
		game, err := catalog.GetGame(c.Params("id"))
		if err != nil {
			return rejectOr500(c, err, "game credit")
		}
		if !game.Enabled {
			return rejectOr500(c, services.ErrNotFound, "game credit")
		}

		var req struct {
			Amount int64 `json:"amount"`
		}
		if err := c.BodyParser(&req); err != nil || req.Amount < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid reward amount"})
		}

		balance, err := ledger.CreditGameReward(clientIP(c), req.Amount)
		if err != nil {
			return rejectOr500(c, err, "game credit")
		}
		metrics.GameCredits.Inc()
		return c.JSON(fiber.Map{
			"message": "game reward credited",
			"coins":   balance,
		})
	})

	s.Post("/withdrawals", func(c *fiber.Ctx) error {
		var req struct {
			Address string `json:"address"`
			Amount  int64  `json:"amount"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.Address == "" || req.Amount <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "address and positive amount required"})
		}

		request, err := ledger.RequestWithdrawal(clientIP(c), req.Address, req.Amount)
		if err != nil {
			return rejectOr500(c, err, "withdrawal request")
		}
		metrics.Withdrawals.WithLabelValues("requested").Inc()
		return c.Status(fiber.StatusCreated).JSON(request)
	})

	s.Get("/withdrawals", func(c *fiber.Ctx) error {
		requests, err := ledger.UserWithdrawals(clientIP(c))
		if err != nil {
			return rejectOr500(c, err, "withdrawal listing")
		}
		return c.JSON(requests)
	})

	s.Get("/ads", func(c *fiber.Ctx) error {
		location := c.Query("location", models.AdLocationMain)
		ads, err := catalog.AdsForLocation(location)
		if err != nil {
			return rejectOr500(c, err, "ad listing")
		}
		return c.JSON(ads)
	})
}
