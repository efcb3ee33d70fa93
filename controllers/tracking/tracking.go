package tracking

import (
	"freight-admin/controllers/base"
	"freight-admin/logger"
	shipmentService "freight-admin/services/shipment"
	"freight-admin/types"

	"github.com/gofiber/fiber/v2"
)

// TrackingController serves the public tracking page.
type TrackingController struct {
	base.Controller
	Service *shipmentService.Service
}

func NewTrackingController(svc *shipmentService.Service, asyncLogger *logger.AsyncLogger) *TrackingController {
	return &TrackingController{
		Controller: base.Controller{Logger: asyncLogger},
		Service:    svc,
	}
}

func (tc *TrackingController) Track(c *fiber.Ctx) error {
	resp, err := tc.Service.Track(c.UserContext(), c.Params("code"))
	if err != nil {
		return tc.SendError(c, err, "Failed to fetch tracking information")
	}
	return tc.SendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Tracking information fetched successfully",
		Data:    resp,
	})
}
