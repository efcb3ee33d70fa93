package routes

import (
	"freight-admin/constants"
	ledgerController "freight-admin/controllers/ledger"
	"freight-admin/controllers/server"
	shipmentController "freight-admin/controllers/shipment"
	"freight-admin/controllers/tracking"
	"freight-admin/controllers/user"
	"freight-admin/logger"
	"freight-admin/middleware"
	ledgerService "freight-admin/services/ledger"
	shipmentService "freight-admin/services/shipment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Dependencies are the services the HTTP surface is built from.
type Dependencies struct {
	DB        *gorm.DB
	Logger    *logger.AsyncLogger
	Guard     *middleware.Guard
	Shipments *shipmentService.Service
	Ledger    *ledgerService.Service
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	serverController := server.NewServerController(deps.DB)
	trackingController := tracking.NewTrackingController(deps.Shipments, deps.Logger)
	shipmentsController := shipmentController.NewShipmentController(deps.Shipments, deps.Logger)
	ledgerEntriesController := ledgerController.NewLedgerController(deps.Ledger, deps.Logger)

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Get("/health", serverController.Health)
	api.Get("/tracking/:code", trackingController.Track)

	/*=============================================================================
	| Protected Routes
	===============================================================================*/
	auth := api.Group("/auth").Use(deps.Guard.RequireAuthentication())
	auth.Get("/profile", user.GetUserInfo)

	/*=============================================================================
	| Shipment Routes
	===============================================================================*/
	shipments := api.Group("/shipments")

	shipments.Post("/", deps.Guard.RequirePermissions(
		constants.ShipmentWritePermissions...,
	), shipmentsController.Store)

	shipments.Get("/", deps.Guard.RequirePermissions(
		constants.ShipmentReadPermissions...,
	), shipmentsController.Index)

	shipments.Get("/:id", deps.Guard.RequirePermissions(
		constants.ShipmentReadPermissions...,
	), shipmentsController.Show)

	shipments.Get("/:id/history", deps.Guard.RequirePermissions(
		constants.ShipmentReadPermissions...,
	), shipmentsController.History)

	shipments.Patch("/:id/status", deps.Guard.RequirePermissions(
		constants.StatusUpdatePermissions...,
	), shipmentsController.UpdateStatus)

	shipments.Post("/:id/proof", deps.Guard.RequirePermissions(
		constants.StatusUpdatePermissions...,
	), shipmentsController.UploadProof)

	/*=============================================================================
	| Ledger Routes
	===============================================================================*/
	ledger := api.Group("/ledger").Use(deps.Guard.RequirePermissions(constants.LedgerPermissions...))
	ledger.Get("/", ledgerEntriesController.Index)
	ledger.Get("/report", ledgerEntriesController.Report)
	ledger.Post("/", ledgerEntriesController.Store)
	ledger.Get("/:id", ledgerEntriesController.Show)
	ledger.Put("/:id", ledgerEntriesController.Update)
	ledger.Delete("/:id", ledgerEntriesController.Destroy)
}
