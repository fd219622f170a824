package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kantorku_backend/internals/features/users/auth/service"
	userModel "kantorku_backend/internals/features/users/user/model"
	helper "kantorku_backend/internals/helpers"
)

type AuthController struct {
	DB       *gorm.DB
	Registry *service.RevocationRegistry
}

func NewAuthController(db *gorm.DB, registry *service.RevocationRegistry) *AuthController {
	return &AuthController{DB: db, Registry: registry}
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	return service.Login(ac.DB, c)
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	return service.Logout(ac.DB, ac.Registry, c)
}

func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	return service.RefreshToken(ac.DB, c)
}

func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	return service.ChangePassword(ac.DB, c)
}

// Me mengembalikan profil user login + baris employee kalau ada. Admin
// murni tidak punya employee, field-nya null.
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, ok := helper.GetUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in context")
	}

	var user userModel.UserModel
	if err := ac.DB.First(&user, "id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}

	payload := fiber.Map{
		"id":        user.ID,
		"user_name": user.UserName,
		"email":     user.Email,
		"role":      user.Role,
	}

	var emp userModel.EmployeeModel
	if err := ac.DB.First(&emp, "employee_user_id = ?", user.ID).Error; err == nil {
		payload["employee"] = fiber.Map{
			"id":        emp.EmployeeID,
			"full_name": emp.EmployeeFullName,
			"position":  emp.EmployeePosition,
			"is_active": emp.EmployeeIsActive,
		}
	}

	return helper.JsonOK(c, "ok", fiber.Map{"user": payload})
}
