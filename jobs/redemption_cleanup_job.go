package jobs

import (
	"log"
	"time"

	"github.com/quizsecure/quizsecure/database"
	"github.com/quizsecure/quizsecure/models"
)

// PurgeStaleRedemptions drops redemption records for quizzes whose
// delivery window closed more than a day ago. Redeemed codes only gate
// delivery, so they carry no value once the window is long gone.
func PurgeStaleRedemptions() {
	log.Println("Running job: PurgeStaleRedemptions...")

	cutoff := time.Now().Add(-24 * time.Hour)

	result := database.DB.
		Where("quiz_id IN (?)", database.DB.Model(&models.Quiz{}).Select("id").Where("end_time < ?", cutoff)).
		Delete(&models.RedeemedCode{})
	if result.Error != nil {
		log.Printf("Error purging stale redemptions: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Purged %d stale redemption(s).", result.RowsAffected)
	}
}
