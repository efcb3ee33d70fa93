package server

import (
	"context"
	"time"

	"freight-admin/database"
	"freight-admin/logger"
	"freight-admin/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ServerController struct {
	DB *gorm.DB
}

func NewServerController(db *gorm.DB) *ServerController {
	return &ServerController{DB: db}
}

// Health reports liveness and whether the database answers.
func (sc *ServerController) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, sc.DB); err != nil {
		logger.Error("Health check failed", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(types.ApiResponse{
			Message: "Database unavailable",
			Status:  fiber.StatusServiceUnavailable,
			Data:    fiber.Map{"database": "down"},
		})
	}
	return c.JSON(types.ApiResponse{
		Message: "OK",
		Status:  fiber.StatusOK,
		Data:    fiber.Map{"database": "up"},
	})
}
