// handlers/leaderboard.go
package handlers

import (
	"errors"
	"log"

	"meal-battle-system/middleware"
	"meal-battle-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, statsService *services.StatsService) {
	app.Get("/api/leaderboard", func(c *fiber.Ctx) error {
		entries, err := statsService.Leaderboard(c.Query("sort"))
		if err != nil {
			if errors.Is(err, services.ErrInvalidSortKey) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"status":  "error",
					"message": "sort must be one of wins, win_pct, battles_fought",
				})
			}
			log.Printf("ERROR building leaderboard: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "failed to build leaderboard"})
		}
		return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"leaderboard": entries}})
	})

	app.Get("/api/stats/:meal_id", func(c *fiber.Ctx) error {
		row, err := statsService.Get(c.Params("meal_id"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "failed to fetch stats"})
		}
		return c.JSON(fiber.Map{"status": "success", "data": row})
	})

	tokenGate := middleware.ServiceTokenMiddleware()

	app.Post("/api/stats/reset", tokenGate, func(c *fiber.Ctx) error {
		if err := statsService.ResetAll(); err != nil {
			log.Printf("ERROR resetting stats: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "failed to reset stats"})
		}
		return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"reset": true}})
	})

	app.Post("/api/leaderboard/export", tokenGate, func(c *fiber.Ctx) error {
		key, err := statsService.ExportSnapshot(c.Context())
		if err != nil {
			if errors.Is(err, services.ErrSnapshotDisabled) {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "error", "message": "snapshot store is not configured"})
			}
			log.Printf("ERROR exporting leaderboard snapshot: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "failed to export leaderboard"})
		}
		return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"key": key}})
	})
}
