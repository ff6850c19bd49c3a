package services

import (
	"math"

	"github.com/google/uuid"
	"github.com/skillswaphq/skillswap/models"
	"gorm.io/gorm"
)

// UserSkillStats are the derived numbers shown next to a teaching offer.
// They are computed on demand from the exchange and feedback tables, never
// cached or denormalized.
type UserSkillStats struct {
	StudentCount  int64   `json:"student_count"`
	FeedbackCount int64   `json:"feedback_count"`
	AverageRating float64 `json:"rating"`
	SuccessRate   float64 `json:"success_rate"`
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// UserSkillStatsBatch computes stats for a set of offers in two grouped
// queries. The single-offer path delegates here, so list and detail views
// always agree on the same underlying data.
func UserSkillStatsBatch(db *gorm.DB, offerIDs []uuid.UUID) (map[uuid.UUID]UserSkillStats, error) {
	stats := make(map[uuid.UUID]UserSkillStats, len(offerIDs))
	for _, id := range offerIDs {
		stats[id] = UserSkillStats{}
	}
	if len(offerIDs) == 0 {
		return stats, nil
	}

	var exchangeRows []struct {
		UserSkillID    uuid.UUID
		TotalCount     int64
		CompletedCount int64
	}
	err := db.Model(&models.SkillExchange{}).
		Select("user_skill_id, count(*) as total_count, sum(case when status = ? then 1 else 0 end) as completed_count", models.ExchangeCompleted).
		Where("user_skill_id IN ?", offerIDs).
		Group("user_skill_id").
		Scan(&exchangeRows).Error
	if err != nil {
		return nil, err
	}

	var feedbackRows []struct {
		UserSkillID   uuid.UUID
		FeedbackCount int64
		AvgRating     *float64
	}
	err = db.Model(&models.SkillFeedback{}).
		Select("skill_exchanges.user_skill_id, count(skill_feedbacks.id) as feedback_count, avg(skill_feedbacks.rating) as avg_rating").
		Joins("JOIN skill_exchanges ON skill_exchanges.id = skill_feedbacks.exchange_id").
		Where("skill_exchanges.user_skill_id IN ?", offerIDs).
		Group("skill_exchanges.user_skill_id").
		Scan(&feedbackRows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range exchangeRows {
		s := stats[row.UserSkillID]
		s.StudentCount = row.TotalCount
		if row.TotalCount > 0 {
			s.SuccessRate = Round2(100 * float64(row.CompletedCount) / float64(row.TotalCount))
		}
		stats[row.UserSkillID] = s
	}
	for _, row := range feedbackRows {
		s := stats[row.UserSkillID]
		s.FeedbackCount = row.FeedbackCount
		if row.AvgRating != nil {
			s.AverageRating = Round2(*row.AvgRating)
		}
		stats[row.UserSkillID] = s
	}
	return stats, nil
}

// UserSkillStatsFor computes the stats of one offer.
func UserSkillStatsFor(db *gorm.DB, offerID uuid.UUID) (UserSkillStats, error) {
	batch, err := UserSkillStatsBatch(db, []uuid.UUID{offerID})
	if err != nil {
		return UserSkillStats{}, err
	}
	return batch[offerID], nil
}
