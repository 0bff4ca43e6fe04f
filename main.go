package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coinrush/handlers"
	"coinrush/metrics"
	"coinrush/models"
	"coinrush/services"
	"coinrush/utils"
	"coinrush/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // creatives only, keep it small
	})

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.UserProfile{},
		&models.Task{},
		&models.TaskClaim{},
		&models.Coupon{},
		&models.CouponRedemption{},
		&models.MiniGame{},
		&models.WithdrawalRequest{},
		&models.AppSettings{},
		&models.AdPlacement{},
		&models.OperatorSession{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	identityService := services.NewIdentityService(db)
	ledgerService := services.NewLedgerService(db)
	catalogService := services.NewCatalogService(db)
	adminService := services.NewAdminService(db)
	claimGate := services.NewClaimGate()

	if err := catalogService.Seed(); err != nil {
		log.Fatal("failed to seed catalog:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go workers.PollGates(ctx, claimGate, time.Minute)

	catalogService.StartCatalogScheduler()

	metricsAddr := os.Getenv("METRICS_ADDR")
	if metricsAddr == "" {
		metricsAddr = ":9210"
	}
	metrics.Serve(metricsAddr)

	handlers.SetupEarnRoutes(app, identityService, ledgerService, catalogService, claimGate)
	handlers.SetupAdminRoutes(app, adminService, catalogService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Metrics on %s/metrics", metricsAddr)
	log.Println("✅ Gate janitor running (every 1m)")
	log.Println("✅ Catalog scheduler running")

	<-ctx.Done()
	log.Println("Shutting down server...")
}
