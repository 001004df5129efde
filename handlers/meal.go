// handlers/meal.go
package handlers

import (
	"meal-battle-system/middleware"
	"meal-battle-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMealRoutes(app *fiber.App, mealService *services.MealService) {
	// Reads are open; by-name must register before :id so it wins the match.
	app.Get("/api/meals", mealService.GetAllMeals)
	app.Get("/api/meals/by-name/:name", mealService.GetMealByName)
	app.Get("/api/meals/:id", mealService.GetMealByID)

	// Mutations sit behind the optional service token.
	tokenGate := middleware.ServiceTokenMiddleware()

	app.Post("/api/meals", tokenGate, mealService.CreateMeal)
	app.Delete("/api/meals/:id", tokenGate, mealService.DeleteMeal)
	app.Delete("/api/meals", tokenGate, mealService.ClearMeals)
}
