package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"meal-battle-system/handlers"
	"meal-battle-system/models"
	"meal-battle-system/services"
	"meal-battle-system/utils"
	"meal-battle-system/workers"

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

	app := fiber.New()

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	snapshotEnabled, err := utils.InitSnapshotStore()
	if err != nil {
		log.Fatal("failed to initialize snapshot store:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Meal{},
		&models.MealStats{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	mealService := services.NewMealService(db)
	statsService := services.NewStatsService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Battle randomness: a seeded local source by default, random.org with a
	// prefetch pool when RANDOM_SOURCE=remote.
	var draws utils.DrawSource
	randomSource := os.Getenv("RANDOM_SOURCE")
	if randomSource == "remote" {
		pool := utils.NewDrawPool(utils.NewRandomOrgClient(), 16)
		go workers.PollDraws(ctx, pool, 15*time.Second)
		draws = pool
	} else {
		seed, _ := strconv.ParseInt(os.Getenv("RANDOM_SEED"), 10, 64)
		draws = utils.NewLocalDrawSource(seed)
	}

	engine := services.NewBattleEngine(draws)
	battleService := services.NewBattleService(mealService, statsService, engine)

	mealService.StartMaintenanceScheduler(statsService)

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"healthy": true}})
	})

	app.Get("/api/db-check", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "database unreachable"})
		}
		return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{
			"database":    "ok",
			"meals_table": db.Migrator().HasTable(&models.Meal{}),
		}})
	})

	handlers.SetupMealRoutes(app, mealService)
	handlers.SetupBattleRoutes(app, battleService)
	handlers.SetupLeaderboardRoutes(app, statsService)

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
	if randomSource == "remote" {
		log.Println("✅ Draw prefetch worker running (random.org)")
	} else {
		log.Println("✅ Using seeded local draw source")
	}
	if snapshotEnabled {
		log.Println("✅ Leaderboard snapshot export enabled")
	}
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
