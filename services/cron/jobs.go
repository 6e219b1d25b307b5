package cron

import (
	"context"
	"log"
	"time"

	"github.com/sportscamp/sportscamp-api/utils/auth"
)

// CleanupExpiredBlacklist removes blacklist rows whose tokens are past
// their expiry. A token outside its expiry window is rejected by
// verification regardless, so the rows are pure bookkeeping.
func (m *CronManager) CleanupExpiredBlacklist() {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	blacklist := auth.NewBlacklistService(m.db)
	if err := blacklist.CleanupExpiredTokens(ctx); err != nil {
		log.Printf("[CRON] cleanup_expired_blacklist failed: %v", err)
		return
	}
	log.Println("[CRON] cleanup_expired_blacklist completed")
}
