package ledger

import (
	"context"
	"fmt"

	ledgerTypes "freight-admin/types/ledger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const sumSelect = `COUNT(*) AS total_entries,
	COALESCE(SUM(CASE WHEN is_adhoc THEN (CASE WHEN adhoc_kind = 'revenue' THEN adhoc_amount ELSE 0 END) ELSE revenue END), 0) AS total_revenue,
	COALESCE(SUM(CASE WHEN is_adhoc THEN 0 ELSE driver_cost END), 0) AS driver_cost,
	COALESCE(SUM(CASE WHEN is_adhoc THEN 0 ELSE vehicle_cost END), 0) AS vehicle_cost,
	COALESCE(SUM(CASE WHEN is_adhoc THEN 0 ELSE tax END), 0) AS tax,
	COALESCE(SUM(CASE WHEN is_adhoc THEN (CASE WHEN adhoc_kind = 'cost' THEN adhoc_amount ELSE 0 END) ELSE operation_cost END), 0) AS operation_cost,
	COALESCE(SUM(CASE WHEN is_adhoc THEN 0 ELSE unloading_cost END), 0) AS unloading_cost,
	COALESCE(SUM(CASE WHEN is_adhoc THEN 0 ELSE insurance_cost END), 0) AS insurance_cost`

// SQLStrategy sums in the database with a single aggregate query.
type SQLStrategy struct {
	DB *gorm.DB
}

type sqlTotals struct {
	TotalEntries  int64
	TotalRevenue  decimal.NullDecimal
	DriverCost    decimal.NullDecimal
	VehicleCost   decimal.NullDecimal
	Tax           decimal.NullDecimal
	OperationCost decimal.NullDecimal
	UnloadingCost decimal.NullDecimal
	InsuranceCost decimal.NullDecimal
}

func (s *SQLStrategy) Name() string { return "sql" }

func (s *SQLStrategy) Aggregate(ctx context.Context, w ledgerTypes.Window) (Totals, error) {
	var row sqlTotals
	err := windowed(entries(ctx, s.DB), w).Select(sumSelect).Scan(&row).Error
	if err != nil {
		return Totals{}, fmt.Errorf("aggregate query: %w", err)
	}

	return Totals{
		Entries:       row.TotalEntries,
		Revenue:       row.TotalRevenue.Decimal,
		DriverCost:    row.DriverCost.Decimal,
		VehicleCost:   row.VehicleCost.Decimal,
		Tax:           row.Tax.Decimal,
		OperationCost: row.OperationCost.Decimal,
		UnloadingCost: row.UnloadingCost.Decimal,
		InsuranceCost: row.InsuranceCost.Decimal,
	}, nil
}
