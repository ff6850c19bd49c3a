package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/skillswaphq/skillswap/database"
	"github.com/skillswaphq/skillswap/models"
	"github.com/skillswaphq/skillswap/services"
	"github.com/skillswaphq/skillswap/utils"
	"gorm.io/gorm"
)

func GetAllUsers(c *fiber.Ctx) error {
	params := utils.ParsePageParams(c, utils.StandardPageSize, utils.StandardMaxPageSize)

	query := database.DB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		term := "%" + search + "%"
		query = query.Where("(LOWER(full_name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?))", term, term)
	}
	if c.Query("is_active") != "" {
		query = query.Where("is_active = ?", c.QueryBool("is_active"))
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list users"})
	}

	var users []models.User
	if err := query.Order("created_at desc").
		Offset(params.Offset()).Limit(params.PageSize).Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list users"})
	}

	return c.JSON(utils.PaginatedResponse(c, params, count, users))
}

func ToggleUserStatus(c *fiber.Ctx) error {
	type Request struct {
		IsActive bool `json:"is_active"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	result := database.DB.Model(&models.User{}).
		Where("id = ?", c.Params("userId")).Update("is_active", req.IsActive)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{"message": "User status updated successfully."})
}

// AdminDeleteUser removes a user and everything hanging off their account:
// feedback they wrote, exchanges they participate in on either side, their
// teaching offers and milestones.
func AdminDeleteUser(c *fiber.Ctx) error {
	userID := c.Params("userId")

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		if err := tx.Where("student_id = ?", user.ID).Delete(&models.SkillFeedback{}).Error; err != nil {
			return err
		}

		var offerIDs []string
		if err := tx.Model(&models.UserSkill{}).Where("user_id = ?", user.ID).
			Pluck("id", &offerIDs).Error; err != nil {
			return err
		}
		if len(offerIDs) > 0 {
			if err := tx.Where("exchange_id IN (?)",
				tx.Model(&models.SkillExchange{}).Select("id").Where("user_skill_id IN ?", offerIDs),
			).Delete(&models.SkillFeedback{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_skill_id IN ?", offerIDs).Delete(&models.SkillExchange{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_skill_id IN ?", offerIDs).Delete(&models.SkillMilestone{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserSkill{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("exchange_id IN (?)",
			tx.Model(&models.SkillExchange{}).Select("id").Where("learner_id = ?", user.ID),
		).Delete(&models.SkillFeedback{}).Error; err != nil {
			return err
		}
		if err := tx.Where("learner_id = ?", user.ID).Delete(&models.SkillExchange{}).Error; err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user"})
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully."})
}

type DashboardAnalyticsResponse struct {
	TotalUsers            int64                  `json:"total_users"`
	TotalActiveOffers     int64                  `json:"total_active_offers"`
	TotalSkills           int64                  `json:"total_skills"`
	ExchangesLast30Days   int64                  `json:"exchanges_last_30_days"`
	CompletedExchanges    int64                  `json:"completed_exchanges"`
	AveragePlatformRating *float64               `json:"average_platform_rating"`
	RecentExchanges       []models.SkillExchange `json:"recent_exchanges"`
}

func GetDashboardAnalytics(c *fiber.Ctx) error {
	var response DashboardAnalyticsResponse

	database.DB.Model(&models.User{}).Where("is_active = ?", true).Count(&response.TotalUsers)
	database.DB.Model(&models.UserSkill{}).Where("is_active = ?", true).Count(&response.TotalActiveOffers)
	database.DB.Model(&models.Skill{}).Where("is_active = ?", true).Count(&response.TotalSkills)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	database.DB.Model(&models.SkillExchange{}).Where("created_at > ?", thirtyDaysAgo).Count(&response.ExchangesLast30Days)
	database.DB.Model(&models.SkillExchange{}).Where("status = ?", models.ExchangeCompleted).Count(&response.CompletedExchanges)

	var avg *float64
	database.DB.Model(&models.SkillFeedback{}).Where("rating IS NOT NULL").
		Select("avg(rating)").Row().Scan(&avg)
	if avg != nil {
		rounded := services.Round2(*avg)
		response.AveragePlatformRating = &rounded
	}

	database.DB.Order("created_at desc").Limit(5).
		Preload("UserSkill.Skill").Preload("Learner").Find(&response.RecentExchanges)

	return c.JSON(response)
}
