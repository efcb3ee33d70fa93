package ledger

import (
	"context"

	ledgerModel "freight-admin/models/ledger"
	ledgerTypes "freight-admin/types/ledger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Report is the profitability summary of a window.
type Report struct {
	TotalEntries  int64           `json:"total_entries"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	DriverCost    decimal.Decimal `json:"driver_cost"`
	VehicleCost   decimal.Decimal `json:"vehicle_cost"`
	Tax           decimal.Decimal `json:"tax"`
	OperationCost decimal.Decimal `json:"operation_cost"`
	UnloadingCost decimal.Decimal `json:"unloading_cost"`
	InsuranceCost decimal.Decimal `json:"insurance_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	NetProfit     decimal.Decimal `json:"net_profit"`

	// Strategy names the tier that produced the report.
	Strategy string `json:"-"`
}

// Strategy computes raw totals for a window.
type Strategy interface {
	Name() string
	Aggregate(ctx context.Context, w ledgerTypes.Window) (Totals, error)
}

// Totals are the per-bucket sums before derived metrics are computed.
type Totals struct {
	Entries       int64
	Revenue       decimal.Decimal
	DriverCost    decimal.Decimal
	VehicleCost   decimal.Decimal
	Tax           decimal.Decimal
	OperationCost decimal.Decimal
	UnloadingCost decimal.Decimal
	InsuranceCost decimal.Decimal
}

// Report rounds the buckets to cents and derives total cost and net profit.
func (t Totals) Report(strategy string) Report {
	r := Report{
		TotalEntries:  t.Entries,
		TotalRevenue:  t.Revenue.Round(2),
		DriverCost:    t.DriverCost.Round(2),
		VehicleCost:   t.VehicleCost.Round(2),
		Tax:           t.Tax.Round(2),
		OperationCost: t.OperationCost.Round(2),
		UnloadingCost: t.UnloadingCost.Round(2),
		InsuranceCost: t.InsuranceCost.Round(2),
		Strategy:      strategy,
	}
	r.TotalCost = decimal.Sum(r.DriverCost, r.VehicleCost, r.Tax, r.OperationCost, r.UnloadingCost, r.InsuranceCost)
	r.NetProfit = r.TotalRevenue.Sub(r.TotalCost)
	return r
}

// windowed restricts q to entries posted inside w. Bounds are passed as
// calendar dates so the comparison does not depend on the session time zone.
func windowed(q *gorm.DB, w ledgerTypes.Window) *gorm.DB {
	if lower := w.Lower(); lower != nil {
		q = q.Where("posted_date >= ?", lower.Format(ledgerTypes.DateLayout))
	}
	if upper := w.UpperExclusive(); upper != nil {
		q = q.Where("posted_date < ?", upper.Format(ledgerTypes.DateLayout))
	}
	return q
}

func entries(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).Model(&ledgerModel.LedgerEntry{})
}
