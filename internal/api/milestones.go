package api

import (
	"microvest/internal/domain" // Importing domain models
	"net/http"                  // HTTP status codes
	"time"                      // Achievement timestamps

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// MilestoneResponse pairs a milestone with the user's achievement state
type MilestoneResponse struct {
	ID          uint       `json:"id"`          // Milestone identifier
	Name        string     `json:"name"`        // Badge name
	Description string     `json:"description"` // What the badge rewards
	Threshold   float64    `json:"threshold"`   // Savings needed
	BadgeIcon   string     `json:"badge_icon"`  // Emoji badge
	Achieved    bool       `json:"achieved"`    // Whether this user earned it
	AchievedAt  *time.Time `json:"achieved_at"` // When it was earned, if ever
}

// GetMilestonesHandler returns every milestone with the user's progress
func GetMilestonesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var milestones []domain.Milestone // All milestones
		if err := db.Find(&milestones).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch milestones"})
			return
		}
		var achieved []domain.UserMilestone // This user's achievements
		if err := db.Where("user_id = ?", user.ID).Find(&achieved).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch milestones"})
			return
		}
		// Index achievements by milestone id
		achievedAt := make(map[uint]time.Time, len(achieved))
		for _, um := range achieved {
			achievedAt[um.MilestoneID] = um.AchievedAt
		}
		result := make([]MilestoneResponse, 0, len(milestones))
		for _, milestone := range milestones {
			resp := MilestoneResponse{
				ID:          milestone.ID,          // Milestone identifier
				Name:        milestone.Name,        // Badge name
				Description: milestone.Description, // Badge description
				Threshold:   milestone.Threshold,   // Savings needed
				BadgeIcon:   milestone.BadgeIcon,   // Emoji badge
			}
			// Mark achievement when present
			if at, ok := achievedAt[milestone.ID]; ok {
				resp.Achieved = true
				t := at
				resp.AchievedAt = &t
			}
			result = append(result, resp)
		}
		c.JSON(http.StatusOK, result) // Return milestones with progress
	}
}
