package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"meal-battle-system/models"
	"meal-battle-system/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const recordResultAttempts = 3

// StatsService owns the persistent win/loss ledger.
type StatsService struct {
	DB *gorm.DB

	// IncludeIdle keeps meals with zero battles on the leaderboard.
	IncludeIdle bool
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{
		DB:          db,
		IncludeIdle: os.Getenv("LEADERBOARD_INCLUDE_IDLE") == "true",
	}
}

// RecordResult applies one battle outcome to the ledger: +1 battle for both
// meals, +1 win for the winner, in a single transaction so the two rows can
// never drift apart. Rows are created lazily and locked in a fixed order so
// concurrent battles over the same meal cannot deadlock. Serialization
// failures are retried here and never surface to the caller.
func (s *StatsService) RecordResult(winnerID, loserID string) error {
	ids := []string{winnerID, loserID}
	sort.Strings(ids)
	if ids[0] == ids[1] {
		// Equal ids share one row: ensure and lock it once, both
		// increments below still land on it.
		ids = ids[:1]
	}

	var lastErr error
	for attempt := 1; attempt <= recordResultAttempts; attempt++ {
		lastErr = s.DB.Transaction(func(tx *gorm.DB) error {
			for _, id := range ids {
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
					Create(&models.MealStats{MealID: id}).Error; err != nil {
					return fmt.Errorf("failed to ensure stats row for %s: %w", id, err)
				}
				var row models.MealStats
				if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					Where("meal_id = ?", id).
					First(&row).Error; err != nil {
					return fmt.Errorf("failed to lock stats row for %s: %w", id, err)
				}
			}

			if err := tx.Model(&models.MealStats{}).
				Where("meal_id = ?", winnerID).
				Updates(map[string]interface{}{
					"battles_fought": gorm.Expr("battles_fought + 1"),
					"wins":           gorm.Expr("wins + 1"),
				}).Error; err != nil {
				return fmt.Errorf("failed to update winner stats: %w", err)
			}

			if err := tx.Model(&models.MealStats{}).
				Where("meal_id = ?", loserID).
				Update("battles_fought", gorm.Expr("battles_fought + 1")).Error; err != nil {
				return fmt.Errorf("failed to update loser stats: %w", err)
			}
			return nil
		})

		if lastErr == nil {
			return nil
		}
		if !retryableTxError(lastErr) {
			return lastErr
		}
		log.Printf("⚠️ Stats update conflict (attempt %d/%d): %v", attempt, recordResultAttempts, lastErr)
		time.Sleep(time.Duration(attempt) * 10 * time.Millisecond)
	}
	return fmt.Errorf("stats update kept conflicting: %w", lastErr)
}

// Get returns the ledger row for a meal; a meal that never fought reads as
// all zeroes.
func (s *StatsService) Get(mealID string) (models.MealStats, error) {
	var row models.MealStats
	if err := s.DB.First(&row, "meal_id = ?", mealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.MealStats{MealID: mealID}, nil
		}
		return models.MealStats{}, err
	}
	return row, nil
}

// ResetAll zeroes every ledger row.
func (s *StatsService) ResetAll() error {
	return s.DB.Model(&models.MealStats{}).Where("1 = 1").
		Updates(map[string]interface{}{"battles_fought": 0, "wins": 0}).Error
}

// LeaderboardEntry is one row of the ranked leaderboard: a live meal joined
// with its ledger counters.
type LeaderboardEntry struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Cuisine       string  `json:"cuisine"`
	Price         float64 `json:"price"`
	Difficulty    string  `json:"difficulty"`
	BattlesFought int64   `json:"battles_fought"`
	Wins          int64   `json:"wins"`
	WinPct        float64 `json:"win_pct"` // wins / battles_fought, 0 when idle
}

var leaderboardSortColumns = map[string]string{
	"wins":           "wins",
	"win_pct":        "win_pct",
	"battles_fought": "battles_fought",
}

// Leaderboard returns live meals ranked by the given key (descending, meal
// id as the tie-break). An empty key defaults to wins; an unknown key is
// ErrInvalidSortKey. Zero-battle meals are filtered out unless IncludeIdle.
func (s *StatsService) Leaderboard(sortKey string) ([]LeaderboardEntry, error) {
	if sortKey == "" {
		sortKey = "wins"
	}
	column, ok := leaderboardSortColumns[sortKey]
	if !ok {
		return nil, ErrInvalidSortKey
	}

	idleFilter := ""
	if !s.IncludeIdle {
		idleFilter = " AND COALESCE(s.battles_fought, 0) > 0"
	}

	query := fmt.Sprintf(`
        SELECT
            m.id, m.name, m.cuisine, m.price, m.difficulty,
            COALESCE(s.battles_fought, 0) AS battles_fought,
            COALESCE(s.wins, 0) AS wins,
            COALESCE(ROUND(s.wins::numeric / NULLIF(s.battles_fought, 0), 3), 0) AS win_pct
        FROM meals m
        LEFT JOIN meal_stats s ON s.meal_id = m.id
        WHERE m.deleted_at IS NULL%s
        ORDER BY %s DESC, m.id ASC
    `, idleFilter, column)

	entries := []LeaderboardEntry{}
	if err := s.DB.Raw(query).Scan(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to build leaderboard: %w", err)
	}
	return entries, nil
}

// ExportSnapshot marshals the current leaderboard and uploads it to the
// snapshot bucket. Returns the object key.
func (s *StatsService) ExportSnapshot(ctx context.Context) (string, error) {
	if !utils.SnapshotEnabled() {
		return "", ErrSnapshotDisabled
	}

	entries, err := s.Leaderboard("wins")
	if err != nil {
		return "", err
	}

	doc := struct {
		GeneratedAt time.Time          `json:"generated_at"`
		Entries     []LeaderboardEntry `json:"entries"`
	}{time.Now().UTC(), entries}

	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal leaderboard snapshot: %w", err)
	}

	key := "leaderboards/" + doc.GeneratedAt.Format(time.RFC3339) + ".json"
	if err := utils.UploadSnapshot(ctx, key, body); err != nil {
		return "", err
	}

	log.Printf("📤 Leaderboard snapshot uploaded: %s (%d entries)", key, len(entries))
	return key, nil
}

func retryableTxError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 40001") ||
		strings.Contains(msg, "SQLSTATE 40P01") ||
		strings.Contains(msg, "deadlock detected")
}
