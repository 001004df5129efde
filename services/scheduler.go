// services/scheduler.go
package services

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"meal-battle-system/models"
	"meal-battle-system/utils"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

func (s *MealService) StartMaintenanceScheduler(stats *StatsService) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	retention := purgeRetention()

	// Every hour: hard-delete meals soft-deleted longer than the retention
	// window, dropping their ledger rows with them.
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-retention)

			var stale []models.Meal
			err := s.DB.Unscoped().
				Where("deleted_at IS NOT NULL AND deleted_at <= ?", cutoff).
				Find(&stale).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, m := range stale {
				err := s.DB.Transaction(func(tx *gorm.DB) error {
					if err := tx.Where("meal_id = ?", m.ID).Delete(&models.MealStats{}).Error; err != nil {
						return err
					}
					return tx.Unscoped().Delete(&models.Meal{}, "id = ?", m.ID).Error
				})
				if err != nil {
					log.Printf("[Scheduler] Failed to purge meal %s: %v", m.ID, err)
				} else {
					log.Printf("🗑️ Purged deleted meal: %s", m.Name)
				}
			}
		}),
	)

	// Daily: archive the leaderboard to the snapshot bucket.
	if utils.SnapshotEnabled() {
		_, _ = sched.NewJob(
			gocron.DurationJob(24*time.Hour),
			gocron.NewTask(func() {
				if _, err := stats.ExportSnapshot(context.Background()); err != nil {
					log.Printf("[Scheduler] Leaderboard snapshot failed: %v", err)
				}
			}),
		)
	}
}

func purgeRetention() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("MEAL_PURGE_RETENTION_HOURS"))
	if err != nil || hours <= 0 {
		hours = 720
	}
	return time.Duration(hours) * time.Hour
}
