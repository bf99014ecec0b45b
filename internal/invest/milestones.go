package invest

import (
	"microvest/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// AwardMilestones marks every milestone whose threshold the user's cumulative
// round-up savings have crossed. Each milestone is awarded once per user and
// never removed; repeat crossings are no-ops.
func AwardMilestones(db *gorm.DB, userID uint) ([]domain.Milestone, error) {
	totalSaved, err := TotalRoundups(db, userID)
	if err != nil {
		return nil, err
	}
	var crossed []domain.Milestone
	// Fetch every milestone at or below the savings total
	if err := db.Where("threshold <= ?", totalSaved).Find(&crossed).Error; err != nil {
		return nil, err
	}
	awarded := make([]domain.Milestone, 0)
	for _, milestone := range crossed {
		var existing domain.UserMilestone
		err := db.Where("user_id = ? AND milestone_id = ?", userID, milestone.ID).First(&existing).Error
		if err == nil {
			continue // Already achieved, never duplicated
		}
		if err != gorm.ErrRecordNotFound {
			return awarded, err
		}
		record := domain.UserMilestone{
			UserID:      userID,       // Achieving user
			MilestoneID: milestone.ID, // Crossed milestone
		}
		if err := db.Create(&record).Error; err != nil {
			return awarded, err
		}
		awarded = append(awarded, milestone)
	}
	return awarded, nil
}
