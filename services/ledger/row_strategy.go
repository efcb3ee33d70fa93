package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"freight-admin/models/ledger"
	ledgerTypes "freight-admin/types/ledger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const rowSelect = "is_adhoc, adhoc_kind, adhoc_amount, revenue, driver_cost, vehicle_cost, tax, operation_cost, unloading_cost, insurance_cost"

// RowStrategy streams raw rows and sums them in process. Amounts are read as
// text so a malformed value costs only itself.
type RowStrategy struct {
	DB *gorm.DB
}

type rawRow struct {
	isAdhoc       sql.NullBool
	adhocKind     sql.NullString
	adhocAmount   sql.NullString
	revenue       sql.NullString
	driverCost    sql.NullString
	vehicleCost   sql.NullString
	tax           sql.NullString
	operationCost sql.NullString
	unloadingCost sql.NullString
	insuranceCost sql.NullString
}

func (s *RowStrategy) Name() string { return "rows" }

func (s *RowStrategy) Aggregate(ctx context.Context, w ledgerTypes.Window) (Totals, error) {
	rows, err := windowed(entries(ctx, s.DB), w).Select(rowSelect).Rows()
	if err != nil {
		return Totals{}, fmt.Errorf("read ledger rows: %w", err)
	}
	defer rows.Close()

	var t Totals
	for rows.Next() {
		var r rawRow
		if err := rows.Scan(&r.isAdhoc, &r.adhocKind, &r.adhocAmount, &r.revenue, &r.driverCost,
			&r.vehicleCost, &r.tax, &r.operationCost, &r.unloadingCost, &r.insuranceCost); err != nil {
			return Totals{}, fmt.Errorf("scan ledger row: %w", err)
		}
		t.add(r)
	}
	if err := rows.Err(); err != nil {
		return Totals{}, fmt.Errorf("iterate ledger rows: %w", err)
	}
	return t, nil
}

func (t *Totals) add(r rawRow) {
	t.Entries++

	if r.isAdhoc.Valid && r.isAdhoc.Bool {
		amount := toAmount(r.adhocAmount)
		switch ledger.AdhocKind(r.adhocKind.String) {
		case ledger.AdhocRevenue:
			t.Revenue = t.Revenue.Add(amount)
		case ledger.AdhocCost:
			t.OperationCost = t.OperationCost.Add(amount)
		}
		return
	}

	t.Revenue = t.Revenue.Add(toAmount(r.revenue))
	t.DriverCost = t.DriverCost.Add(toAmount(r.driverCost))
	t.VehicleCost = t.VehicleCost.Add(toAmount(r.vehicleCost))
	t.Tax = t.Tax.Add(toAmount(r.tax))
	t.OperationCost = t.OperationCost.Add(toAmount(r.operationCost))
	t.UnloadingCost = t.UnloadingCost.Add(toAmount(r.unloadingCost))
	t.InsuranceCost = t.InsuranceCost.Add(toAmount(r.insuranceCost))
}

// toAmount treats NULL, non-numeric and non-finite values as zero.
func toAmount(v sql.NullString) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v.String))
	if err != nil {
		return decimal.Zero
	}
	return d
}
