package services

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/skillswaphq/skillswap/models"
	"gorm.io/gorm"
)

func isAllowedRune(r rune, extra string) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(extra, r)
}

// ValidateCategoryName enforces the category naming rules: 3-100 chars,
// letters/digits/spaces/hyphens, unique case-insensitively. excludeID skips
// the row being updated.
func ValidateCategoryName(db *gorm.DB, name string, excludeID uuid.UUID) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 3 {
		return "", &ValidationError{Message: "Category name must be at least 3 characters long."}
	}
	if utf8.RuneCountInString(name) > 100 {
		return "", &ValidationError{Message: "Category name cannot exceed 100 characters."}
	}
	for _, r := range name {
		if !isAllowedRune(r, " -") {
			return "", &ValidationError{Message: "Category name can only contain letters, numbers, spaces, and hyphens."}
		}
	}

	var count int64
	query := db.Model(&models.SkillCategory{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", &ValidationError{Message: "A category with this name already exists."}
	}
	return name, nil
}

// ValidateCategoryIcon allows CSS-class style icons like "fa-code".
func ValidateCategoryIcon(icon string) (string, error) {
	icon = strings.TrimSpace(icon)
	for _, r := range icon {
		if !isAllowedRune(r, "-_") {
			return "", &ValidationError{Message: "Icon class can only contain letters, numbers, hyphens, and underscores."}
		}
	}
	return icon, nil
}

// ValidateSkillName enforces skill naming: 3-200 chars, letters/digits plus
// basic punctuation, unique case-insensitively.
func ValidateSkillName(db *gorm.DB, name string, excludeID uuid.UUID) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 3 {
		return "", &ValidationError{Message: "Skill name must be at least 3 characters long."}
	}
	if utf8.RuneCountInString(name) > 200 {
		return "", &ValidationError{Message: "Skill name cannot exceed 200 characters."}
	}
	for _, r := range name {
		if !isAllowedRune(r, " -+#.()") {
			return "", &ValidationError{Message: "Skill name can only contain letters, numbers, spaces, and basic punctuation (-.+#())."}
		}
	}

	var count int64
	query := db.Model(&models.Skill{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", &ValidationError{Message: "A skill with this name already exists."}
	}
	return name, nil
}

// ValidateSkillDescription requires a meaningful description and applies the
// same crude URL heuristic the catalog has always had.
func ValidateSkillDescription(description string) (string, error) {
	trimmed := strings.TrimSpace(description)
	// Character counts, not byte counts.
	if utf8.RuneCountInString(trimmed) < 50 {
		return "", &ValidationError{Message: "Description must be at least 50 characters long."}
	}
	if utf8.RuneCountInString(description) > 5000 {
		return "", &ValidationError{Message: "Description cannot exceed 5000 characters."}
	}
	if strings.Count(strings.ToLower(description), "http") > 5 {
		return "", &ValidationError{Message: "Description contains too many URLs. Please keep it concise and relevant."}
	}
	return trimmed, nil
}

// DeactivateCategoryCascade deactivates a category and all of its skills.
func DeactivateCategoryCascade(db *gorm.DB, categoryID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.SkillCategory{}).Where("id = ?", categoryID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Skill{}).Where("category_id = ?", categoryID).
			Update("is_active", false).Error
	})
}

// DeleteCategory soft-deletes (deactivates, cascading to skills) when the
// category still has skills, and hard-deletes otherwise.
func DeleteCategory(db *gorm.DB, category *models.SkillCategory) error {
	var skillCount int64
	if err := db.Model(&models.Skill{}).Where("category_id = ?", category.ID).Count(&skillCount).Error; err != nil {
		return err
	}
	if skillCount > 0 {
		return DeactivateCategoryCascade(db, category.ID)
	}
	return db.Delete(category).Error
}

// DeleteSkill soft-deletes when teachers offer the skill, hard-deletes when
// untouched.
func DeleteSkill(db *gorm.DB, skill *models.Skill) error {
	var offerCount int64
	if err := db.Model(&models.UserSkill{}).Where("skill_id = ?", skill.ID).Count(&offerCount).Error; err != nil {
		return err
	}
	if offerCount > 0 {
		return db.Model(skill).Update("is_active", false).Error
	}
	return db.Delete(skill).Error
}

// DeleteUserSkill soft-deletes an offer once it has exchange or feedback
// history, hard-deletes otherwise (milestones go with it).
func DeleteUserSkill(db *gorm.DB, offer *models.UserSkill) error {
	var exchangeCount int64
	if err := db.Model(&models.SkillExchange{}).Where("user_skill_id = ?", offer.ID).Count(&exchangeCount).Error; err != nil {
		return err
	}
	if exchangeCount > 0 {
		return db.Model(offer).Update("is_active", false).Error
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_skill_id = ?", offer.ID).Delete(&models.SkillMilestone{}).Error; err != nil {
			return err
		}
		return tx.Delete(offer).Error
	})
}
