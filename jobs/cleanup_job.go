package jobs

import (
	"log"
	"time"

	"github.com/skillswaphq/skillswap/database"
	"github.com/skillswaphq/skillswap/models"
	"gorm.io/gorm"
)

// CleanupInactiveCatalog removes deactivated catalog rows that nothing
// references anymore: inactive skills with no teaching offers, then inactive
// categories left with no skills at all. Retries a couple of times since the
// hourly run can collide with a busy database.
func CleanupInactiveCatalog() {
	log.Println("Running job: CleanupInactiveCatalog...")

	var skillsRemoved, categoriesRemoved int64
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		skillsRemoved, categoriesRemoved, err = cleanupPass()
		if err == nil {
			break
		}
		log.Printf("Cleanup attempt %d failed: %v", attempt, err)
		if attempt < 3 {
			time.Sleep(60 * time.Second)
		}
	}
	if err != nil {
		log.Printf("🔥 Catalog cleanup gave up after 3 attempts: %v", err)
		return
	}

	if skillsRemoved == 0 && categoriesRemoved == 0 {
		log.Println("No inactive catalog entries to clean up.")
		return
	}
	log.Printf("Removed %d inactive skill(s) and %d inactive categorie(s).", skillsRemoved, categoriesRemoved)
}

func cleanupPass() (skillsRemoved, categoriesRemoved int64, err error) {
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where(
			"is_active = ? AND id NOT IN (?)",
			false,
			tx.Model(&models.UserSkill{}).Select("skill_id"),
		).Delete(&models.Skill{})
		if result.Error != nil {
			return result.Error
		}
		skillsRemoved = result.RowsAffected

		result = tx.Where(
			"is_active = ? AND id NOT IN (?)",
			false,
			tx.Model(&models.Skill{}).Select("category_id"),
		).Delete(&models.SkillCategory{})
		if result.Error != nil {
			return result.Error
		}
		categoriesRemoved = result.RowsAffected
		return nil
	})
	return skillsRemoved, categoriesRemoved, err
}
