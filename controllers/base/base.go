package base

import (
	"fmt"
	"net/http"
	"strconv"

	"freight-admin/apperrors"
	"freight-admin/logger"
	"freight-admin/middleware"
	"freight-admin/types"
	"freight-admin/utils"

	"github.com/gofiber/fiber/v2"
)

// Controller carries what every handler needs to answer and audit a request.
type Controller struct {
	Logger *logger.AsyncLogger
}

// Helper function to log API requests and responses
func (bc *Controller) logAPIRequest(c *fiber.Ctx) {
	if bc.Logger == nil {
		return
	}
	bc.Logger.Log(utils.CreateSanitizedLogEntry(c, middleware.PrincipalID(c)))
}

// SendResponseWithLog sends response and logs it in one call.
func (bc *Controller) SendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	response.Status = status
	result := c.Status(status).JSON(response)
	bc.logAPIRequest(c)
	return result
}

// SendError maps err to its status code. Server side failures are logged
// and answered with fallback instead of the raw error.
func (bc *Controller) SendError(c *fiber.Ctx, err error, fallback string) error {
	status := apperrors.HTTPStatus(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Error(fmt.Sprintf("%s %s: %s", c.Method(), c.Path(), fallback), err)
		message = fallback
	}
	return bc.SendResponseWithLog(c, status, types.ApiResponse{
		Message: message,
		Field:   apperrors.Field(err),
	})
}

// ParamID reads a positive numeric route parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidation(name, "must be a positive integer")
	}
	return uint(id), nil
}
