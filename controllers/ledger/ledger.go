package ledger

import (
	"freight-admin/apperrors"
	"freight-admin/constants"
	"freight-admin/controllers/base"
	"freight-admin/logger"
	"freight-admin/middleware"
	ledgerService "freight-admin/services/ledger"
	"freight-admin/types"
	ledgerTypes "freight-admin/types/ledger"

	"github.com/gofiber/fiber/v2"
)

type LedgerController struct {
	base.Controller
	Service *ledgerService.Service
}

// NewLedgerController creates a new ledger controller
func NewLedgerController(svc *ledgerService.Service, asyncLogger *logger.AsyncLogger) *LedgerController {
	return &LedgerController{
		Controller: base.Controller{Logger: asyncLogger},
		Service:    svc,
	}
}

// Index lists the entries posted within start_date..end_date.
func (lc *LedgerController) Index(c *fiber.Ctx) error {
	w, err := lc.window(c)
	if err != nil {
		return lc.SendError(c, err, "")
	}
	list, err := lc.Service.List(c.UserContext(), w)
	if err != nil {
		return lc.SendError(c, err, "Failed to list ledger entries")
	}
	return lc.SendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Ledger entries fetched successfully",
		Data:    list,
	})
}

func (lc *LedgerController) Show(c *fiber.Ctx) error {
	id, err := base.ParamID(c, "id")
	if err != nil {
		return lc.SendError(c, err, "")
	}
	entry, err := lc.Service.Get(c.UserContext(), id)
	if err != nil {
		return lc.SendError(c, err, "Failed to fetch ledger entry")
	}
	return lc.SendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Ledger entry fetched successfully",
		Data:    entry,
	})
}

func (lc *LedgerController) Store(c *fiber.Ctx) error {
	var req ledgerTypes.LedgerEntryRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return lc.SendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{Message: "Invalid request body"})
	}

	entry, err := lc.Service.Create(c.UserContext(), req, middleware.PrincipalID(c))
	if err != nil {
		return lc.SendError(c, err, "Failed to create ledger entry")
	}
	return lc.SendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Ledger entry created successfully",
		Data:    entry,
	})
}

func (lc *LedgerController) Update(c *fiber.Ctx) error {
	id, err := base.ParamID(c, "id")
	if err != nil {
		return lc.SendError(c, err, "")
	}

	var req ledgerTypes.LedgerEntryRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return lc.SendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{Message: "Invalid request body"})
	}

	entry, err := lc.Service.Update(c.UserContext(), id, req)
	if err != nil {
		return lc.SendError(c, err, "Failed to update ledger entry")
	}
	return lc.SendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Ledger entry updated successfully",
		Data:    entry,
	})
}

// Destroy is restricted to admins; finance users may only edit entries.
func (lc *LedgerController) Destroy(c *fiber.Ctx) error {
	if !middleware.CheckPermissionInController(c, constants.PermAdminFull) {
		return lc.SendError(c, apperrors.ErrForbidden, "")
	}
	id, err := base.ParamID(c, "id")
	if err != nil {
		return lc.SendError(c, err, "")
	}
	if err := lc.Service.Delete(c.UserContext(), id); err != nil {
		return lc.SendError(c, err, "Failed to delete ledger entry")
	}
	return lc.SendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Ledger entry deleted successfully",
	})
}

// Report returns the profitability summary of the window.
func (lc *LedgerController) Report(c *fiber.Ctx) error {
	w, err := lc.window(c)
	if err != nil {
		return lc.SendError(c, err, "")
	}
	report, err := lc.Service.Aggregate(c.UserContext(), w)
	if err != nil {
		return lc.SendError(c, err, "Failed to compute ledger report")
	}
	return lc.SendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Ledger report computed successfully",
		Data:    report,
	})
}

func (lc *LedgerController) window(c *fiber.Ctx) (ledgerTypes.Window, error) {
	var q ledgerTypes.ReportQuery
	if err := c.QueryParser(&q); err != nil {
		return ledgerTypes.Window{}, apperrors.NewValidation("query", "invalid query parameters")
	}
	return q.Window()
}
