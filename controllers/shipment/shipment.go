package shipment

import (
	"path/filepath"
	"strings"

	"freight-admin/apperrors"
	"freight-admin/controllers/base"
	"freight-admin/logger"
	"freight-admin/middleware"
	shipmentModel "freight-admin/models/shipment"
	shipmentService "freight-admin/services/shipment"
	"freight-admin/services/status"
	"freight-admin/types"
	shipmentTypes "freight-admin/types/shipment"

	"github.com/gofiber/fiber/v2"
)

const maxProofSize = 10 * 1024 * 1024

var proofContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

type ShipmentController struct {
	base.Controller
	Service *shipmentService.Service
}

// NewShipmentController creates a new shipment controller
func NewShipmentController(svc *shipmentService.Service, asyncLogger *logger.AsyncLogger) *ShipmentController {
	return &ShipmentController{
		Controller: base.Controller{Logger: asyncLogger},
		Service:    svc,
	}
}

// Store registers a new shipment in the created status.
func (sc *ShipmentController) Store(c *fiber.Ctx) error {
	var req shipmentTypes.CreateShipmentRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return sc.SendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{Message: "Invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return sc.SendError(c, err, "Invalid shipment")
	}

	sh, err := sc.Service.Create(c.UserContext(), req, middleware.PrincipalID(c))
	if err != nil {
		return sc.SendError(c, err, "Failed to create shipment")
	}

	logger.Success("Shipment created: " + sh.TrackingCode)
	return sc.SendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Shipment created successfully",
		Data:    sh,
	})
}

func (sc *ShipmentController) Index(c *fiber.Ctx) error {
	var q shipmentTypes.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return sc.SendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{Message: "Invalid query parameters"})
	}
	filter, err := q.Filter()
	if err != nil {
		return sc.SendError(c, err, "Invalid query parameters")
	}

	list, err := sc.Service.List(c.UserContext(), filter)
	if err != nil {
		return sc.SendError(c, err, "Failed to list shipments")
	}
	return sc.SendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Shipments fetched successfully",
		Data:    list,
	})
}

func (sc *ShipmentController) Show(c *fiber.Ctx) error {
	id, err := base.ParamID(c, "id")
	if err != nil {
		return sc.SendError(c, err, "")
	}
	sh, err := sc.Service.Get(c.UserContext(), id)
	if err != nil {
		return sc.SendError(c, err, "Failed to fetch shipment")
	}

	next := status.NextStatuses(sh.Status)
	if next == nil {
		next = []shipmentModel.ShipmentStatus{}
	}
	return sc.SendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Shipment fetched successfully",
		Data:    shipmentTypes.ShipmentDetail{Shipment: sh, AllowedNext: next},
	})
}

// History lists the tracking events of a shipment, oldest first.
func (sc *ShipmentController) History(c *fiber.Ctx) error {
	id, err := base.ParamID(c, "id")
	if err != nil {
		return sc.SendError(c, err, "")
	}
	events, err := sc.Service.History(c.UserContext(), id)
	if err != nil {
		return sc.SendError(c, err, "Failed to fetch tracking history")
	}
	return sc.SendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Tracking history fetched successfully",
		Data:    events,
	})
}

// UpdateStatus applies a status change through the status engine.
func (sc *ShipmentController) UpdateStatus(c *fiber.Ctx) error {
	id, err := base.ParamID(c, "id")
	if err != nil {
		return sc.SendError(c, err, "")
	}

	var req shipmentTypes.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return sc.SendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{Message: "Invalid request body"})
	}
	target, err := req.Target()
	if err != nil {
		return sc.SendError(c, err, "")
	}

	sh, err := sc.Service.ChangeStatus(c.UserContext(), id, target, shipmentService.ChangeOptions{
		ProofURL:    strings.TrimSpace(req.ProofOfDeliveryURL),
		DeliveredAt: req.DeliveredAt,
		Note:        strings.TrimSpace(req.Note),
		Actor:       middleware.PrincipalID(c),
	})
	if err != nil {
		return sc.SendError(c, err, "Failed to update shipment status")
	}

	return sc.SendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Shipment status updated successfully",
		Data:    sh,
	})
}

// UploadProof stores the "file" form field and returns its public URL.
func (sc *ShipmentController) UploadProof(c *fiber.Ctx) error {
	id, err := base.ParamID(c, "id")
	if err != nil {
		return sc.SendError(c, err, "")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return sc.SendError(c, apperrors.NewValidation("file", "is required"), "")
	}
	if fileHeader.Size > maxProofSize {
		return sc.SendError(c, apperrors.NewValidation("file", "must not exceed 10MB"), "")
	}
	contentType := fileHeader.Header.Get(fiber.HeaderContentType)
	if !proofContentTypes[contentType] {
		return sc.SendError(c, apperrors.NewValidation("file", "must be a JPEG, PNG, WEBP or PDF file"), "")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return sc.SendError(c, err, "Failed to read uploaded file")
	}
	defer file.Close()

	url, err := sc.Service.UploadProof(c.UserContext(), id, filepath.Base(fileHeader.Filename), contentType, file)
	if err != nil {
		return sc.SendError(c, err, "Failed to upload proof of delivery")
	}

	return sc.SendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Proof of delivery uploaded successfully",
		Data:    fiber.Map{"url": url},
	})
}
