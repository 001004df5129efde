package services

import (
	"errors"
	"log"
	"net/url"
	"strings"

	"meal-battle-system/models"
	"meal-battle-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MealService struct {
	DB *gorm.DB
}

func NewMealService(db *gorm.DB) *MealService {
	return &MealService{DB: db}
}

// FindMealByIdentifier resolves an id, exact name, or slug against the live
// catalog. Soft-deleted meals are invisible here.
func (s *MealService) FindMealByIdentifier(identifier string) (models.Meal, error) {
	identifier = strings.TrimSpace(identifier)

	var meal models.Meal
	if err := s.DB.First(&meal, "id = ?", identifier).Error; err == nil {
		return meal, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Meal{}, err
	}

	name := utils.NormalizeName(identifier)
	if err := s.DB.First(&meal, "name = ?", name).Error; err == nil {
		return meal, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Meal{}, err
	}

	if err := s.DB.First(&meal, "slug = ?", utils.Slugify(identifier)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Meal{}, ErrMealNotFound
		}
		return models.Meal{}, err
	}
	return meal, nil
}

// CreateMeal adds a meal to the catalog.
func (s *MealService) CreateMeal(c *fiber.Ctx) error {
	type Req struct {
		Name       string  `json:"name"`
		Cuisine    string  `json:"cuisine"`
		Price      float64 `json:"price"`
		Difficulty string  `json:"difficulty"`
	}

	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "invalid request body"})
	}

	req.Name = utils.NormalizeName(req.Name)
	req.Cuisine = utils.NormalizeName(req.Cuisine)

	if req.Name == "" || req.Cuisine == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "name and cuisine are required"})
	}
	if req.Price <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "price must be positive"})
	}
	if !models.ValidDifficulty(req.Difficulty) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "difficulty must be LOW, MED or HIGH"})
	}

	// Uniqueness is checked against live meals only, so a deleted meal's
	// name can be reused by a new meal with a fresh id.
	var existing models.Meal
	err := s.DB.First(&existing, "name = ?", req.Name).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":  "error",
			"message": "meal with name '" + req.Name + "' already exists",
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("ERROR checking meal name %q: %v", req.Name, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "DB error"})
	}

	meal := models.Meal{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Slug:       utils.Slugify(req.Name),
		Cuisine:    req.Cuisine,
		Price:      req.Price,
		Difficulty: req.Difficulty,
	}
	if err := s.DB.Create(&meal).Error; err != nil {
		log.Printf("ERROR creating meal %q: %v", req.Name, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "failed to create meal"})
	}

	log.Printf("✅ Meal created: %s (%s)", meal.Name, meal.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": meal})
}

// GetAllMeals lists live meals, optionally filtered by ?q= against name and
// cuisine with accent folding, so "crepe" finds "Crêpe".
func (s *MealService) GetAllMeals(c *fiber.Ctx) error {
	var meals []models.Meal
	if err := s.DB.Order("created_at DESC").Find(&meals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "failed to fetch meals"})
	}

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		needle := utils.Fold(q)
		filtered := make([]models.Meal, 0, len(meals))
		for _, m := range meals {
			if strings.Contains(utils.Fold(m.Name), needle) || strings.Contains(utils.Fold(m.Cuisine), needle) {
				filtered = append(filtered, m)
			}
		}
		meals = filtered
	}

	return c.JSON(fiber.Map{"status": "success", "data": meals})
}

// GetMealByID returns a single live meal.
func (s *MealService) GetMealByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var meal models.Meal
	if err := s.DB.First(&meal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "meal not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "DB error"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": meal})
}

// GetMealByName returns a live meal by exact name, falling back to slug.
func (s *MealService) GetMealByName(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "invalid meal name"})
	}

	meal, err := s.FindMealByIdentifier(name)
	if err != nil {
		if errors.Is(err, ErrMealNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "meal not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "DB error"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": meal})
}

// DeleteMeal soft-deletes a meal. Its stats row stays behind for the purge
// job; the meal disappears from lookups and the leaderboard immediately.
func (s *MealService) DeleteMeal(c *fiber.Ctx) error {
	id := c.Params("id")

	var meal models.Meal
	if err := s.DB.First(&meal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "meal not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "DB error"})
	}

	if err := s.DB.Delete(&meal).Error; err != nil {
		log.Printf("ERROR deleting meal %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "failed to delete meal"})
	}

	log.Printf("🗑️ Meal deleted: %s (%s)", meal.Name, meal.ID)
	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"id": meal.ID, "deleted": true}})
}

// ClearMeals soft-deletes the whole catalog and zeroes the stats ledger in
// one transaction.
func (s *MealService) ClearMeals(c *fiber.Ctx) error {
	var cleared int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("1 = 1").Delete(&models.Meal{})
		if res.Error != nil {
			return res.Error
		}
		cleared = res.RowsAffected

		return tx.Model(&models.MealStats{}).Where("1 = 1").
			Updates(map[string]interface{}{"battles_fought": 0, "wins": 0}).Error
	})
	if err != nil {
		log.Printf("ERROR clearing meals: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "failed to clear meals"})
	}

	log.Printf("🗑️ Catalog cleared: %d meal(s) removed", cleared)
	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"cleared": cleared}})
}
