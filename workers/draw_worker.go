package workers

import (
	"context"
	"log"
	"time"

	"meal-battle-system/utils"
)

// PollDraws keeps the draw pool topped up so battles settle without waiting
// on random.org. Runs until ctx is cancelled.
func PollDraws(ctx context.Context, pool *utils.DrawPool, pollInterval time.Duration) {
	log.Println("Starting draw prefetch worker...")

	// Fill once up front so the first battles are already covered.
	if added, err := pool.TopUp(ctx); err != nil {
		log.Printf("❌ Initial draw prefetch failed after %d draw(s): %v", added, err)
	} else if added > 0 {
		log.Printf("📥 Prefetched %d draw(s).", added)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Draw prefetch worker stopped.")
			return
		case <-ticker.C:
			added, err := pool.TopUp(ctx)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("❌ Error prefetching draws: %v", err)
				continue
			}
			if added > 0 {
				log.Printf("📥 Prefetched %d draw(s) (%d buffered).", added, pool.Buffered())
			}
		}
	}
}
