package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/skillswaphq/skillswap/database"
	"github.com/skillswaphq/skillswap/models"
)

type UpdateProfileRequest struct {
	FullName           *string `json:"full_name" validate:"omitempty,min=2,max=255"`
	Bio                *string `json:"bio" validate:"omitempty,max=500"`
	PhoneNumber        *string `json:"phone_number" validate:"omitempty,max=15"`
	Location           *string `json:"location" validate:"omitempty,max=100"`
	TimeZone           *string `json:"time_zone" validate:"omitempty,max=50"`
	LanguagePreference *string `json:"language_preference" validate:"omitempty,max=10"`
	IsAvailable        *bool   `json:"is_available"`
	ProfilePictureURL  *string `json:"profile_picture_url" validate:"omitempty,max=255,url"`
}

func GetProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(user)
}

func UpdateProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Location != nil {
		user.Location = req.Location
	}
	if req.TimeZone != nil {
		user.TimeZone = *req.TimeZone
	}
	if req.LanguagePreference != nil {
		user.LanguagePreference = *req.LanguagePreference
	}
	if req.IsAvailable != nil {
		user.IsAvailable = *req.IsAvailable
	}
	if req.ProfilePictureURL != nil {
		user.ProfilePictureURL = req.ProfilePictureURL
	}

	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(user)
}
