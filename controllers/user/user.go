package user

import (
	"freight-admin/middleware"
	"freight-admin/types"

	"github.com/gofiber/fiber/v2"
)

// GetUserInfo returns the principal resolved from the bearer token.
func GetUserInfo(c *fiber.Ctx) error {
	principal, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Invalid token data",
			Status:  fiber.StatusUnauthorized,
		})
	}
	return c.JSON(types.ApiResponse{
		Message: "User fetched successfully",
		Status:  fiber.StatusOK,
		Data:    principal,
	})
}
