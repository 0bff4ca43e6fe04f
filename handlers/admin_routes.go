// handlers/admin_routes.go
package handlers

import (
	"log"
	"os"
	"time"

	"coinrush/metrics"
	"coinrush/middleware"
	"coinrush/models"
	"coinrush/services"
	"coinrush/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// SetupAdminRoutes wires the operator panel under /s/admin. Login checks the
// env-configured credentials and sets the persisted operator session flag;
// every other route requires that flag.
func SetupAdminRoutes(app *fiber.App, admin *services.AdminService,
	catalog *services.CatalogService) {

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD environment variables not set")
	}

	app.Post("/s/admin/login", func(c *fiber.Ctx) error {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.Email != adminEmail || req.Password != adminPassword {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}
		if err := admin.SetOperatorSession(true); err != nil {
			return rejectOr500(c, err, "operator login")
		}
		return c.JSON(fiber.Map{"message": "operator session opened"})
	})

	g := app.Group("/s/admin", middleware.OperatorSessionMiddleware(admin))

	g.Post("/logout", func(c *fiber.Ctx) error {
		if err := admin.SetOperatorSession(false); err != nil {
			return rejectOr500(c, err, "operator logout")
		}
		return c.JSON(fiber.Map{"message": "operator session closed"})
	})

	g.Get("/stats", func(c *fiber.Ctx) error {
		stats, err := admin.Stats()
		if err != nil {
			return rejectOr500(c, err, "stats")
		}
		return c.JSON(stats)
	})

	// --- Users ---

	g.Get("/users", func(c *fiber.Ctx) error {
		var users []models.UserProfile
		if err := admin.DB.Order("created_at").Find(&users).Error; err != nil {
			return rejectOr500(c, err, "user listing")
		}
		return c.JSON(users)
	})

	g.Post("/users/:ip/block", func(c *fiber.Ctx) error {
		profile, err := admin.SetBlocked(c.Params("ip"), true)
		if err != nil {
			return rejectOr500(c, err, "user block")
		}
		return c.JSON(profile)
	})

	g.Post("/users/:ip/unblock", func(c *fiber.Ctx) error {
		profile, err := admin.SetBlocked(c.Params("ip"), false)
		if err != nil {
			return rejectOr500(c, err, "user unblock")
		}
		return c.JSON(profile)
	})

	g.Delete("/users/:ip", func(c *fiber.Ctx) error {
		if err := admin.DeleteUser(c.Params("ip")); err != nil {
			return rejectOr500(c, err, "user deletion")
		}
		return c.JSON(fiber.Map{"message": "user deleted"})
	})

	// --- Tasks ---

	g.Get("/tasks", func(c *fiber.Ctx) error {
		var tasks []models.Task
		if err := catalog.DB.Order("created_at").Find(&tasks).Error; err != nil {
			return rejectOr500(c, err, "task listing")
		}
		return c.JSON(tasks)
	})

	g.Post("/tasks", func(c *fiber.Ctx) error {
		var req struct {
			Name        string     `json:"name"`
			Description string     `json:"description"`
			Category    string     `json:"category"`
			Reward      int64      `json:"reward"`
			Link        string     `json:"link"`
			Status      string     `json:"status"`
			PublishAt   *time.Time `json:"publish_at"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.Name == "" || req.Reward < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name and non-negative reward required"})
		}
		if req.Status == "" {
			req.Status = models.TaskStatusDraft
		}

		task := models.Task{
			ID:          uuid.NewString(),
			Slug:        slug.Make(req.Name),
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Reward:      req.Reward,
			Link:        req.Link,
			Status:      req.Status,
			PublishAt:   req.PublishAt,
		}
		if err := catalog.DB.Create(&task).Error; err != nil {
			return rejectOr500(c, err, "task creation")
		}
		return c.Status(fiber.StatusCreated).JSON(task)
	})

	g.Put("/tasks/:id", func(c *fiber.Ctx) error {
		var task models.Task
		if err := catalog.DB.First(&task, "id = ?", c.Params("id")).Error; err != nil {
			return rejectOr500(c, lookupErr(err), "task update")
		}

		var req struct {
			Name        *string    `json:"name"`
			Description *string    `json:"description"`
			Category    *string    `json:"category"`
			Reward      *int64     `json:"reward"`
			Link        *string    `json:"link"`
			Status      *string    `json:"status"`
			PublishAt   *time.Time `json:"publish_at"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		if req.Name != nil {
			task.Name = *req.Name
			task.Slug = slug.Make(*req.Name)
		}
		if req.Description != nil {
			task.Description = *req.Description
		}
		if req.Category != nil {
			task.Category = *req.Category
		}
		if req.Reward != nil {
			task.Reward = *req.Reward
		}
		if req.Link != nil {
			task.Link = *req.Link
		}
		if req.Status != nil {
			task.Status = *req.Status
		}
		if req.PublishAt != nil {
			task.PublishAt = req.PublishAt
		}

		if err := catalog.DB.Save(&task).Error; err != nil {
			return rejectOr500(c, err, "task update")
		}
		return c.JSON(task)
	})

	g.Delete("/tasks/:id", func(c *fiber.Ctx) error {
		var task models.Task
		if err := catalog.DB.First(&task, "id = ?", c.Params("id")).Error; err != nil {
			return rejectOr500(c, lookupErr(err), "task deletion")
		}
		if err := catalog.DB.Delete(&task).Error; err != nil {
			return rejectOr500(c, err, "task deletion")
		}
		return c.JSON(fiber.Map{"message": "task deleted"})
	})

	// --- Coupons ---

	g.Get("/coupons", func(c *fiber.Ctx) error {
		var coupons []models.Coupon
		if err := catalog.DB.Order("created_at").Find(&coupons).Error; err != nil {
			return rejectOr500(c, err, "coupon listing")
		}
		return c.JSON(coupons)
	})

	g.Post("/coupons", func(c *fiber.Ctx) error {
		var req struct {
			Code      string    `json:"code"`
			Reward    int64     `json:"reward"`
			Limit     int       `json:"limit"`
			ExpiresAt time.Time `json:"expires_at"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.Code == "" {
			req.Code = utils.GenerateCouponCode()
		}
		if req.Reward < 0 || req.Limit <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "non-negative reward and positive limit required"})
		}
		if req.ExpiresAt.IsZero() {
			req.ExpiresAt = time.Now().Add(7 * 24 * time.Hour)
		}

		coupon := models.Coupon{
			ID:         uuid.NewString(),
			Code:       services.NormalizeCouponCode(req.Code),
			Reward:     req.Reward,
			UsageLimit: req.Limit,
			ExpiresAt:  req.ExpiresAt,
		}
		if err := catalog.DB.Create(&coupon).Error; err != nil {
			return rejectOr500(c, err, "coupon creation")
		}
		return c.Status(fiber.StatusCreated).JSON(coupon)
	})

	g.Post("/coupons/generate", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"code": utils.GenerateCouponCode()})
	})

	g.Put("/coupons/:id", func(c *fiber.Ctx) error {
		var coupon models.Coupon
		if err := catalog.DB.First(&coupon, "id = ?", c.Params("id")).Error; err != nil {
			return rejectOr500(c, lookupErr(err), "coupon update")
		}

		var req struct {
			Code      *string    `json:"code"`
			Reward    *int64     `json:"reward"`
			Limit     *int       `json:"limit"`
			ExpiresAt *time.Time `json:"expires_at"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		if req.Code != nil {
			coupon.Code = services.NormalizeCouponCode(*req.Code)
		}
		if req.Reward != nil {
			coupon.Reward = *req.Reward
		}
		if req.Limit != nil {
			coupon.UsageLimit = *req.Limit
		}
		if req.ExpiresAt != nil {
			coupon.ExpiresAt = *req.ExpiresAt
		}

		if err := catalog.DB.Save(&coupon).Error; err != nil {
			return rejectOr500(c, err, "coupon update")
		}
		return c.JSON(coupon)
	})

	g.Delete("/coupons/:id", func(c *fiber.Ctx) error {
		var coupon models.Coupon
		if err := catalog.DB.First(&coupon, "id = ?", c.Params("id")).Error; err != nil {
			return rejectOr500(c, lookupErr(err), "coupon deletion")
		}
		if err := catalog.DB.Delete(&coupon).Error; err != nil {
			return rejectOr500(c, err, "coupon deletion")
		}
		return c.JSON(fiber.Map{"message": "coupon deleted"})
	})

	// --- Games ---

	g.Get("/games", func(c *fiber.Ctx) error {
		var games []models.MiniGame
		if err := catalog.DB.Order("id").Find(&games).Error; err != nil {
			return rejectOr500(c, err, "game listing")
		}
		return c.JSON(games)
	})

	g.Post("/games", func(c *fiber.Ctx) error {
		var req struct {
			Name       string `json:"name"`
			Type       string `json:"type"`
			BaseReward int64  `json:"base_reward"`
			Enabled    *bool  `json:"enabled"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.Name == "" || req.Type == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name and type required"})
		}

		game := models.MiniGame{
			ID:         uuid.NewString(),
			Name:       req.Name,
			Type:       req.Type,
			BaseReward: req.BaseReward,
			Enabled:    true,
		}
		if req.Enabled != nil {
			game.Enabled = *req.Enabled
		}
		if err := catalog.DB.Create(&game).Error; err != nil {
			return rejectOr500(c, err, "game creation")
		}
		return c.Status(fiber.StatusCreated).JSON(game)
	})

	g.Put("/games/:id", func(c *fiber.Ctx) error {
		var game models.MiniGame
		if err := catalog.DB.First(&game, "id = ?", c.Params("id")).Error; err != nil {
			return rejectOr500(c, lookupErr(err), "game update")
		}

		var req struct {
			Name       *string `json:"name"`
			Type       *string `json:"type"`
			BaseReward *int64  `json:"base_reward"`
			Enabled    *bool   `json:"enabled"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		if req.Name != nil {
			game.Name = *req.Name
		}
		if req.Type != nil {
			game.Type = *req.Type
		}
		if req.BaseReward != nil {
			game.BaseReward = *req.BaseReward
		}
		if req.Enabled != nil {
			game.Enabled = *req.Enabled
		}

		if err := catalog.DB.Save(&game).Error; err != nil {
			return rejectOr500(c, err, "game update")
		}
		return c.JSON(game)
	})

	g.Delete("/games/:id", func(c *fiber.Ctx) error {
		var game models.MiniGame
		if err := catalog.DB.First(&game, "id = ?", c.Params("id")).Error; err != nil {
			return rejectOr500(c, lookupErr(err), "game deletion")
		}
		if err := catalog.DB.Delete(&game).Error; err != nil {
			return rejectOr500(c, err, "game deletion")
		}
		return c.JSON(fiber.Map{"message": "game deleted"})
	})

	// --- Ad placements ---

	g.Get("/ads", func(c *fiber.Ctx) error {
		var ads []models.AdPlacement
		if err := catalog.DB.Order("created_at").Find(&ads).Error; err != nil {
			return rejectOr500(c, err, "ad listing")
		}
		return c.JSON(ads)
	})

	g.Post("/ads", func(c *fiber.Ctx) error {
		var req struct {
			Code     string `json:"code"`
			Location string `json:"location"`
			Enabled  *bool  `json:"enabled"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.Location == "" {
			req.Location = models.AdLocationMain
		}
		if req.Code == "" {
			req.Code = "<!-- Paste Ad Script Here -->"
		}

		ad := models.AdPlacement{
			ID:       uuid.NewString(),
			Code:     req.Code,
			Location: req.Location,
			Enabled:  true,
		}
		if req.Enabled != nil {
			ad.Enabled = *req.Enabled
		}
		if err := catalog.DB.Create(&ad).Error; err != nil {
			return rejectOr500(c, err, "ad creation")
		}
		return c.Status(fiber.StatusCreated).JSON(ad)
	})

	g.Put("/ads/:id", func(c *fiber.Ctx) error {
		var ad models.AdPlacement
		if err := catalog.DB.First(&ad, "id = ?", c.Params("id")).Error; err != nil {
			return rejectOr500(c, lookupErr(err), "ad update")
		}

		var req struct {
			Code     *string `json:"code"`
			Location *string `json:"location"`
			Enabled  *bool   `json:"enabled"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		if req.Code != nil {
			ad.Code = *req.Code
		}
		if req.Location != nil {
			ad.Location = *req.Location
		}
		if req.Enabled != nil {
			ad.Enabled = *req.Enabled
		}

		if err := catalog.DB.Save(&ad).Error; err != nil {
			return rejectOr500(c, err, "ad update")
		}
		return c.JSON(ad)
	})

	g.Post("/ads/:id/creative", func(c *fiber.Ctx) error {
		var ad models.AdPlacement
		if err := catalog.DB.First(&ad, "id = ?", c.Params("id")).Error; err != nil {
			return rejectOr500(c, lookupErr(err), "creative upload")
		}

		fileHeader, err := c.FormFile("creative")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "creative file required"})
		}

		url, err := utils.UploadCreative(fileHeader, ad.ID)
		if err != nil {
			log.Printf("R2 upload failed for ad %s: %v", ad.ID, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to store creative"})
		}

		ad.CreativeURL = url
		if err := catalog.DB.Save(&ad).Error; err != nil {
			return rejectOr500(c, err, "creative upload")
		}
		return c.JSON(ad)
	})

	g.Delete("/ads/:id", func(c *fiber.Ctx) error {
		res := catalog.DB.Delete(&models.AdPlacement{}, "id = ?", c.Params("id"))
		if res.Error != nil {
			return rejectOr500(c, res.Error, "ad deletion")
		}
		if res.RowsAffected == 0 {
			return rejectOr500(c, services.ErrNotFound, "ad deletion")
		}
		return c.JSON(fiber.Map{"message": "ad placement deleted"})
	})

	// --- Settings ---

	g.Get("/settings", func(c *fiber.Ctx) error {
		settings, err := catalog.Settings()
		if err != nil {
			return rejectOr500(c, err, "settings read")
		}
		return c.JSON(settings)
	})

	g.Put("/settings", func(c *fiber.Ctx) error {
		settings, err := catalog.Settings()
		if err != nil {
			return rejectOr500(c, err, "settings update")
		}

		var req struct {
			WithdrawEnabled *bool  `json:"withdraw_enabled"`
			MinWithdraw     *int64 `json:"min_withdraw"`
			DailyBonus      *int64 `json:"daily_bonus"`
			ReferralBonus   *int64 `json:"referral_bonus"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		if req.WithdrawEnabled != nil {
			settings.WithdrawEnabled = *req.WithdrawEnabled
		}
		if req.MinWithdraw != nil {
			if *req.MinWithdraw < 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "min_withdraw must be non-negative"})
			}
			settings.MinWithdraw = *req.MinWithdraw
		}
		if req.DailyBonus != nil {
			if *req.DailyBonus < 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "daily_bonus must be non-negative"})
			}
			settings.DailyBonus = *req.DailyBonus
		}
		if req.ReferralBonus != nil {
			if *req.ReferralBonus < 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "referral_bonus must be non-negative"})
			}
			settings.ReferralBonus = *req.ReferralBonus
		}

		if err := catalog.DB.Save(settings).Error; err != nil {
			return rejectOr500(c, err, "settings update")
		}
		return c.JSON(settings)
	})

	// --- Withdrawals ---

	g.Get("/withdrawals", func(c *fiber.Ctx) error {
		query := admin.DB.Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		var requests []models.WithdrawalRequest
		if err := query.Find(&requests).Error; err != nil {
			return rejectOr500(c, err, "withdrawal listing")
		}
		return c.JSON(requests)
	})

	g.Post("/withdrawals/:id/approve", func(c *fiber.Ctx) error {
		request, err := admin.ApproveWithdrawal(c.Params("id"))
		if err != nil {
			return rejectOr500(c, err, "withdrawal approval")
		}
		metrics.Withdrawals.WithLabelValues("approved").Inc()
		return c.JSON(request)
	})

	g.Post("/withdrawals/:id/reject", func(c *fiber.Ctx) error {
		request, err := admin.RejectWithdrawal(c.Params("id"))
		if err != nil {
			return rejectOr500(c, err, "withdrawal rejection")
		}
		metrics.Withdrawals.WithLabelValues("rejected").Inc()
		return c.JSON(request)
	})
}
