package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/skillswaphq/skillswap/database"
	"github.com/skillswaphq/skillswap/models"
	"github.com/skillswaphq/skillswap/services"
	"github.com/skillswaphq/skillswap/utils"
	"gorm.io/gorm"
)

type CreateUserSkillRequest struct {
	SkillID           string `json:"skill_id" validate:"required,uuid"`
	ProficiencyLevel  string `json:"proficiency_level" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED EXPERT"`
	YearsOfExperience int    `json:"years_of_experience" validate:"min=0,max=50"`
	Certifications    string `json:"certifications"`
	PortfolioLinks    string `json:"portfolio_links"`

	Prerequisites     string `json:"prerequisites"`
	LearningOutcomes  string `json:"learning_outcomes" validate:"required"`
	TeachingMethods   string `json:"teaching_methods" validate:"required"`
	EstimatedDuration int    `json:"estimated_duration" validate:"required,min=1"`
	DurationType      string `json:"duration_type" validate:"required,oneof=HOURS DAYS WEEKS MONTHS"`

	MaxStudents        int    `json:"max_students" validate:"required,min=1,max=10"`
	AvailableTimeSlots string `json:"available_time_slots"`
}

type UpdateUserSkillRequest struct {
	ProficiencyLevel  *string `json:"proficiency_level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED EXPERT"`
	YearsOfExperience *int    `json:"years_of_experience" validate:"omitempty,min=0,max=50"`
	Certifications    *string `json:"certifications"`
	PortfolioLinks    *string `json:"portfolio_links"`

	Prerequisites     *string `json:"prerequisites"`
	LearningOutcomes  *string `json:"learning_outcomes"`
	TeachingMethods   *string `json:"teaching_methods"`
	EstimatedDuration *int    `json:"estimated_duration" validate:"omitempty,min=1"`
	DurationType      *string `json:"duration_type" validate:"omitempty,oneof=HOURS DAYS WEEKS MONTHS"`

	MaxStudents        *int    `json:"max_students" validate:"omitempty,min=1,max=10"`
	AvailableTimeSlots *string `json:"available_time_slots"`
}

type UserSkillListItem struct {
	models.UserSkill
	StudentCount  int64   `json:"student_count"`
	Rating        float64 `json:"rating"`
	FeedbackCount int64   `json:"feedback_count"`
}

type UserSkillDetail struct {
	models.UserSkill
	services.UserSkillStats
}

func validateEstimatedDuration(duration int, durationType string) error {
	max := models.MaxEstimatedDuration[durationType]
	if duration > max {
		return &services.ValidationError{
			Message: fmt.Sprintf("Duration cannot exceed %d %s.", max, strings.ToLower(durationType)),
		}
	}
	return nil
}

func ListUserSkills(c *fiber.Ctx) error {
	params := utils.ParsePageParams(c, utils.StandardPageSize, utils.StandardMaxPageSize)
	userID := currentUserID(c)

	query := database.DB.Model(&models.UserSkill{})
	// Non-admins see active offers plus their own, whatever the state.
	if !isAdmin(c) {
		query = query.Where("(is_active = ? OR user_id = ?)", true, userID)
	}
	if skillID := c.Query("skill_id"); skillID != "" {
		query = query.Where("skill_id = ?", skillID)
	}
	if teacherID := c.Query("user_id"); teacherID != "" {
		query = query.Where("user_id = ?", teacherID)
	}
	if level := c.Query("proficiency_level"); level != "" {
		query = query.Where("proficiency_level = ?", level)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list teaching skills"})
	}

	var offers []models.UserSkill
	if err := query.Preload("Skill.Category").Preload("User").
		Order("created_at desc").Offset(params.Offset()).Limit(params.PageSize).
		Find(&offers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list teaching skills"})
	}

	ids := make([]uuid.UUID, len(offers))
	for i, offer := range offers {
		ids[i] = offer.ID
	}
	stats, err := services.UserSkillStatsBatch(database.DB, ids)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list teaching skills"})
	}

	results := make([]UserSkillListItem, len(offers))
	for i, offer := range offers {
		s := stats[offer.ID]
		results[i] = UserSkillListItem{
			UserSkill:     offer,
			StudentCount:  s.StudentCount,
			Rating:        s.AverageRating,
			FeedbackCount: s.FeedbackCount,
		}
	}
	return c.JSON(utils.PaginatedResponse(c, params, count, results))
}

func CreateUserSkill(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req CreateUserSkillRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validateEstimatedDuration(req.EstimatedDuration, req.DurationType); err != nil {
		return serviceError(c, err)
	}

	var skill models.Skill
	if err := database.DB.Preload("Category").First(&skill, "id = ?", req.SkillID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Skill not found"})
	}
	if !skill.IsActive {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "This skill is not currently active."})
	}
	if !skill.Category.IsActive {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "This skill's category is not currently active."})
	}

	offer := models.UserSkill{
		UserID:             userID,
		SkillID:            skill.ID,
		ProficiencyLevel:   req.ProficiencyLevel,
		YearsOfExperience:  req.YearsOfExperience,
		Certifications:     req.Certifications,
		PortfolioLinks:     req.PortfolioLinks,
		Prerequisites:      req.Prerequisites,
		LearningOutcomes:   req.LearningOutcomes,
		TeachingMethods:    req.TeachingMethods,
		EstimatedDuration:  req.EstimatedDuration,
		DurationType:       req.DurationType,
		IsActive:           true,
		MaxStudents:        req.MaxStudents,
		AvailableTimeSlots: req.AvailableTimeSlots,
	}
	if err := database.DB.Create(&offer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You are already registered to teach this skill."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create teaching skill"})
	}

	offer.Skill = skill
	return c.Status(fiber.StatusCreated).JSON(offer)
}

func loadUserSkill(c *fiber.Ctx) (*models.UserSkill, error) {
	var offer models.UserSkill
	err := database.DB.Preload("Skill.Category").Preload("User").
		Preload("Milestones", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order asc") }).
		First(&offer, "id = ?", c.Params("userSkillId")).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func GetUserSkill(c *fiber.Ctx) error {
	offer, err := loadUserSkill(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teaching skill not found"})
	}

	if !offer.IsActive && offer.UserID != currentUserID(c) && !isAdmin(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teaching skill not found"})
	}

	stats, err := services.UserSkillStatsFor(database.DB, offer.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load teaching skill"})
	}
	return c.JSON(UserSkillDetail{UserSkill: *offer, UserSkillStats: stats})
}

func UpdateUserSkill(c *fiber.Ctx) error {
	offer, err := loadUserSkill(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teaching skill not found"})
	}
	if offer.UserID != currentUserID(c) && !isAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only edit your own teaching skills"})
	}

	var req UpdateUserSkillRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.ProficiencyLevel != nil {
		offer.ProficiencyLevel = *req.ProficiencyLevel
	}
	if req.YearsOfExperience != nil {
		offer.YearsOfExperience = *req.YearsOfExperience
	}
	if req.Certifications != nil {
		offer.Certifications = *req.Certifications
	}
	if req.PortfolioLinks != nil {
		offer.PortfolioLinks = *req.PortfolioLinks
	}
	if req.Prerequisites != nil {
		offer.Prerequisites = *req.Prerequisites
	}
	if req.LearningOutcomes != nil {
		offer.LearningOutcomes = *req.LearningOutcomes
	}
	if req.TeachingMethods != nil {
		offer.TeachingMethods = *req.TeachingMethods
	}
	if req.EstimatedDuration != nil {
		offer.EstimatedDuration = *req.EstimatedDuration
	}
	if req.DurationType != nil {
		offer.DurationType = *req.DurationType
	}
	if req.MaxStudents != nil {
		offer.MaxStudents = *req.MaxStudents
	}
	if req.AvailableTimeSlots != nil {
		offer.AvailableTimeSlots = *req.AvailableTimeSlots
	}

	if err := validateEstimatedDuration(offer.EstimatedDuration, offer.DurationType); err != nil {
		return serviceError(c, err)
	}

	if err := database.DB.Save(offer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update teaching skill"})
	}
	return c.JSON(offer)
}

// ToggleUserSkillAvailability flips the offer's active flag. Reactivation is
// blocked while the underlying skill or its category is inactive.
func ToggleUserSkillAvailability(c *fiber.Ctx) error {
	offer, err := loadUserSkill(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teaching skill not found"})
	}
	if offer.UserID != currentUserID(c) && !isAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only edit your own teaching skills"})
	}

	if !offer.IsActive && (!offer.Skill.IsActive || !offer.Skill.Category.IsActive) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot activate teaching skill because the skill or its category is inactive."})
	}

	offer.IsActive = !offer.IsActive
	if err := database.DB.Save(offer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to toggle teaching skill"})
	}
	return c.JSON(offer)
}

func DeleteUserSkill(c *fiber.Ctx) error {
	offer, err := loadUserSkill(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teaching skill not found"})
	}
	if offer.UserID != currentUserID(c) && !isAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only delete your own teaching skills"})
	}

	if err := services.DeleteUserSkill(database.DB, offer); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete teaching skill"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
