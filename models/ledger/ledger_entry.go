package ledger

import (
	"time"

	"freight-admin/models/shipment"

	"github.com/shopspring/decimal"
)

type AdhocKind string

const (
	AdhocRevenue AdhocKind = "revenue"
	AdhocCost    AdhocKind = "cost"
)

func (k AdhocKind) IsValid() bool {
	return k == AdhocRevenue || k == AdhocCost
}

// LedgerEntry is a financial movement, either linked to a shipment or ad-hoc.
// Only one of the two field groups is populated; the other is stored as NULL.
type LedgerEntry struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	IsAdhoc bool `gorm:"not null;default:false;index" json:"is_adhoc"`

	// linked group
	ShipmentID    *uint               `gorm:"index" json:"shipment_id,omitempty"`
	ClientID      *uint               `json:"client_id,omitempty"`
	DriverID      *uint               `json:"driver_id,omitempty"`
	VehicleID     *uint               `json:"vehicle_id,omitempty"`
	Revenue       decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"revenue"`
	DriverCost    decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"driver_cost"`
	VehicleCost   decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"vehicle_cost"`
	Tax           decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"tax"`
	OperationCost decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"operation_cost"`
	UnloadingCost decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"unloading_cost"`
	InsuranceCost decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"insurance_cost"`

	// ad-hoc group
	AdhocKind        *AdhocKind          `gorm:"type:varchar(10)" json:"adhoc_kind,omitempty"`
	AdhocAmount      decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"adhoc_amount"`
	AdhocDescription *string             `gorm:"type:text" json:"adhoc_description,omitempty"`

	PostedDate time.Time `gorm:"type:date;not null;index" json:"posted_date"`
	Notes      *string   `gorm:"type:text" json:"notes,omitempty"`

	// populated by list/get for display only
	TrackingCode *string `gorm:"->;-:migration" json:"tracking_code,omitempty"`

	CreatedBy string    `gorm:"type:varchar(255)" json:"created_by,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Shipment *shipment.Shipment `gorm:"foreignKey:ShipmentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// MonetaryFields lists the values of the active group.
func (e *LedgerEntry) MonetaryFields() []decimal.NullDecimal {
	if e.IsAdhoc {
		return []decimal.NullDecimal{e.AdhocAmount}
	}
	return []decimal.NullDecimal{
		e.Revenue, e.DriverCost, e.VehicleCost, e.Tax,
		e.OperationCost, e.UnloadingCost, e.InsuranceCost,
	}
}

// ClearInactiveGroup nulls the fields of the group the entry does not use.
func (e *LedgerEntry) ClearInactiveGroup() {
	if e.IsAdhoc {
		e.ShipmentID, e.ClientID, e.DriverID, e.VehicleID = nil, nil, nil, nil
		e.Revenue = decimal.NullDecimal{}
		e.DriverCost = decimal.NullDecimal{}
		e.VehicleCost = decimal.NullDecimal{}
		e.Tax = decimal.NullDecimal{}
		e.OperationCost = decimal.NullDecimal{}
		e.UnloadingCost = decimal.NullDecimal{}
		e.InsuranceCost = decimal.NullDecimal{}
		return
	}
	e.AdhocKind = nil
	e.AdhocAmount = decimal.NullDecimal{}
	e.AdhocDescription = nil
}
