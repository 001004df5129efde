// handlers/battle.go
package handlers

import (
	"errors"
	"strings"

	"meal-battle-system/middleware"
	"meal-battle-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupBattleRoutes(app *fiber.App, battleService *services.BattleService) {
	app.Get("/api/battle/combatants", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{
			"combatants": battleService.Combatants(),
		}})
	})

	tokenGate := middleware.ServiceTokenMiddleware()

	app.Post("/api/battle/combatants", tokenGate, func(c *fiber.Ctx) error {
		type Req struct {
			Meal string `json:"meal"` // meal id, exact name or slug
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "invalid request body"})
		}
		if strings.TrimSpace(req.Meal) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "meal is required"})
		}

		meal, err := battleService.PrepCombatant(req.Meal)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrRosterFull):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "combatant roster is full"})
			case errors.Is(err, services.ErrMealNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "meal not found"})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "failed to prep combatant"})
			}
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": fiber.Map{
			"combatant":  meal,
			"combatants": battleService.Combatants(),
		}})
	})

	app.Delete("/api/battle/combatants", tokenGate, func(c *fiber.Ctx) error {
		battleService.ClearCombatants()
		return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"cleared": true}})
	})

	app.Post("/api/battle", tokenGate, func(c *fiber.Ctx) error {
		outcome, err := battleService.RunBattle(c.Context())
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInsufficientCombatants):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "two distinct combatants must be prepped before battle"})
			case errors.Is(err, services.ErrDrawFailed):
				return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"status": "error", "message": "randomness source unavailable"})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "battle failed"})
			}
		}

		return c.JSON(fiber.Map{"status": "success", "data": outcome})
	})
}
