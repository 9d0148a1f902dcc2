package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/coursebridge/coursebridge/app/models"
	"github.com/coursebridge/coursebridge/app/repository"
	"github.com/coursebridge/coursebridge/internal/pkg/usercontext"
)

// HandleGetUserAccount returns account information for the authenticated user.
func HandleGetUserAccount(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid authentication")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	account, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	return c.JSON(fiber.Map{
		"id":            account.ID,
		"username":      account.Name,
		"email":         account.Email,
		"status":        account.Status,
		"is_admin":      account.IsAdmin(),
		"last_login_at": formatTimePtr(account.LastLoginAt),
	})
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// HandleResetUserPassword sets a new password for a user. When the caller
// supplies none a random one is generated and returned once in the
// response.
// Security: admin role required via router middleware
func HandleResetUserPassword(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON payload")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	generated := false
	password := req.Password
	if password == "" {
		password, err = models.GenerateRandomPassword()
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Password generation failed")
		}
		generated = true
	}
	// Validate the raw password against the model rules before hashing;
	// the stored hash would trivially satisfy the length constraint.
	user.Password = password
	if err := user.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Validation failed: "+err.Error())
	}

	if err := user.SetPassword(password); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Password hashing failed")
	}
	if err := repo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to store password")
	}

	response := fiber.Map{"success": true}
	if generated {
		response["password"] = password
	}
	return c.JSON(response)
}
