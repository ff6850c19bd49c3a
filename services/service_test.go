package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/skillswaphq/skillswap/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBSeq atomic.Int64

// setupTestDB opens a fresh in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.SkillCategory{},
		&models.Skill{},
		&models.UserSkill{},
		&models.SkillMilestone{},
		&models.SkillExchange{},
		&models.SkillFeedback{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := models.User{
		FullName: name,
		Email:    fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Password: "hashed",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createCatalogSkill(t *testing.T, db *gorm.DB) *models.Skill {
	t.Helper()
	category := models.SkillCategory{Name: "Category " + uuid.NewString()[:8], IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	skill := models.Skill{
		Name:        "Skill " + uuid.NewString()[:8],
		CategoryID:  category.ID,
		Description: "A description long enough to satisfy the catalog validators.",
		IsActive:    true,
	}
	require.NoError(t, db.Create(&skill).Error)
	return &skill
}

func createOffer(t *testing.T, db *gorm.DB, teacher *models.User, maxStudents int) *models.UserSkill {
	t.Helper()
	skill := createCatalogSkill(t, db)
	offer := models.UserSkill{
		UserID:            teacher.ID,
		SkillID:           skill.ID,
		ProficiencyLevel:  models.ProficiencyAdvanced,
		YearsOfExperience: 5,
		LearningOutcomes:  "Build real projects",
		TeachingMethods:   "Pair sessions",
		EstimatedDuration: 6,
		DurationType:      models.DurationWeeks,
		IsActive:          true,
		MaxStudents:       maxStudents,
	}
	require.NoError(t, db.Create(&offer).Error)
	return &offer
}

func validExchangeInput(offerID uuid.UUID) CreateExchangeInput {
	return CreateExchangeInput{
		UserSkillID:      offerID,
		LearningGoals:    "Learn the fundamentals and ship something",
		Availability:     "Weekday evenings after 6pm, weekends flexible",
		ProposedDuration: 20,
	}
}
