// models/meal.go
package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	DifficultyLow  = "LOW"
	DifficultyMed  = "MED"
	DifficultyHigh = "HIGH"
)

// ValidDifficulty reports whether d is one of the accepted difficulty levels.
func ValidDifficulty(d string) bool {
	return d == DifficultyLow || d == DifficultyMed || d == DifficultyHigh
}

type Meal struct {
	ID   string `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
	Slug string `json:"slug" gorm:"index"`

	// 🍽️ Culinary profile
	Cuisine    string  `json:"cuisine" gorm:"not null"`
	Price      float64 `json:"price" gorm:"check:price > 0"`
	Difficulty string  `json:"difficulty" gorm:"type:varchar(8);check:difficulty IN ('LOW','MED','HIGH')"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
