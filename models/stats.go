package models

import "time"

// MealStats is the persistent win/loss ledger for one meal. Rows are created
// lazily the first time a meal fights; a missing row reads as all zeroes.
type MealStats struct {
	MealID        string `gorm:"primaryKey" json:"meal_id"`
	BattlesFought int64  `json:"battles_fought" gorm:"default:0;check:battles_fought >= 0"`
	Wins          int64  `json:"wins" gorm:"default:0;check:wins >= 0 and wins <= battles_fought"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
