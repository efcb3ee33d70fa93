package ledger

import (
	"strings"
	"time"

	"freight-admin/apperrors"
	ledgerModel "freight-admin/models/ledger"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// LedgerEntryRequest is the body of create and update calls. On update,
// absent fields keep their stored value.
type LedgerEntryRequest struct {
	IsAdhoc *bool `json:"is_adhoc"`

	ShipmentID    *uint            `json:"shipment_id"`
	ClientID      *uint            `json:"client_id"`
	DriverID      *uint            `json:"driver_id"`
	VehicleID     *uint            `json:"vehicle_id"`
	Revenue       *decimal.Decimal `json:"revenue"`
	DriverCost    *decimal.Decimal `json:"driver_cost"`
	VehicleCost   *decimal.Decimal `json:"vehicle_cost"`
	Tax           *decimal.Decimal `json:"tax"`
	OperationCost *decimal.Decimal `json:"operation_cost"`
	UnloadingCost *decimal.Decimal `json:"unloading_cost"`
	InsuranceCost *decimal.Decimal `json:"insurance_cost"`

	AdhocKind        *string          `json:"adhoc_kind"`
	AdhocAmount      *decimal.Decimal `json:"adhoc_amount"`
	AdhocDescription *string          `json:"adhoc_description"`

	PostedDate *string `json:"posted_date"`
	Notes      *string `json:"notes"`
}

// Validate checks field formats. Cross-field rules run on the merged entry
// through ValidateEntry.
func (r LedgerEntryRequest) Validate() error {
	if r.PostedDate != nil {
		if _, err := ParseDate(*r.PostedDate); err != nil {
			return apperrors.NewValidation("posted_date", "must be a date in YYYY-MM-DD format")
		}
	}
	if r.AdhocKind != nil && !ledgerModel.AdhocKind(strings.ToLower(strings.TrimSpace(*r.AdhocKind))).IsValid() {
		return apperrors.NewValidation("adhoc_kind", "must be revenue or cost")
	}
	amounts := map[string]*decimal.Decimal{
		"revenue":        r.Revenue,
		"driver_cost":    r.DriverCost,
		"vehicle_cost":   r.VehicleCost,
		"tax":            r.Tax,
		"operation_cost": r.OperationCost,
		"unloading_cost": r.UnloadingCost,
		"insurance_cost": r.InsuranceCost,
		"adhoc_amount":   r.AdhocAmount,
	}
	for field, v := range amounts {
		if v != nil && v.IsNegative() {
			return apperrors.NewValidation(field, "must not be negative")
		}
	}
	return nil
}

// ApplyTo copies the present fields onto e and normalizes the inactive group.
func (r LedgerEntryRequest) ApplyTo(e *ledgerModel.LedgerEntry) {
	if r.IsAdhoc != nil {
		e.IsAdhoc = *r.IsAdhoc
	}

	setID(&e.ShipmentID, r.ShipmentID)
	setID(&e.ClientID, r.ClientID)
	setID(&e.DriverID, r.DriverID)
	setID(&e.VehicleID, r.VehicleID)
	setAmount(&e.Revenue, r.Revenue)
	setAmount(&e.DriverCost, r.DriverCost)
	setAmount(&e.VehicleCost, r.VehicleCost)
	setAmount(&e.Tax, r.Tax)
	setAmount(&e.OperationCost, r.OperationCost)
	setAmount(&e.UnloadingCost, r.UnloadingCost)
	setAmount(&e.InsuranceCost, r.InsuranceCost)

	if r.AdhocKind != nil {
		kind := ledgerModel.AdhocKind(strings.ToLower(strings.TrimSpace(*r.AdhocKind)))
		e.AdhocKind = &kind
	}
	setAmount(&e.AdhocAmount, r.AdhocAmount)
	if r.AdhocDescription != nil {
		e.AdhocDescription = trimmedOrNil(*r.AdhocDescription)
	}

	if r.PostedDate != nil {
		if d, err := ParseDate(*r.PostedDate); err == nil {
			e.PostedDate = d
		}
	}
	if r.Notes != nil {
		e.Notes = trimmedOrNil(*r.Notes)
	}

	e.ClearInactiveGroup()
}

// ValidateEntry enforces the invariants of a stored entry.
func ValidateEntry(e *ledgerModel.LedgerEntry) error {
	if e.PostedDate.IsZero() {
		return apperrors.NewValidation("posted_date", "is required")
	}
	if e.IsAdhoc {
		if e.AdhocKind == nil || !e.AdhocKind.IsValid() {
			return apperrors.NewValidation("adhoc_kind", "is required for ad-hoc entries")
		}
		if !e.AdhocAmount.Valid || e.AdhocAmount.Decimal.IsZero() {
			return apperrors.NewValidation("adhoc_amount", "must be greater than zero")
		}
		return nil
	}
	for _, v := range e.MonetaryFields() {
		if v.Valid && !v.Decimal.IsZero() {
			return nil
		}
	}
	return apperrors.NewValidation("revenue", "at least one amount must be non-zero")
}

// ParseDate reads a YYYY-MM-DD date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

func setID(dst **uint, v *uint) {
	if v == nil {
		return
	}
	id := *v
	*dst = &id
}

func setAmount(dst *decimal.NullDecimal, v *decimal.Decimal) {
	if v == nil {
		return
	}
	*dst = decimal.NewNullDecimal(v.Round(2))
}

func trimmedOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
