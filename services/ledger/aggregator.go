package ledger

import (
	"context"
	"fmt"

	"freight-admin/apperrors"
	"freight-admin/logger"
	ledgerTypes "freight-admin/types/ledger"
)

// Aggregator runs the primary strategy and, when it fails, the fallback.
// The tiers run one after the other, never concurrently.
type Aggregator struct {
	Primary  Strategy
	Fallback Strategy
	Sink     apperrors.ErrorSink
}

func NewAggregator(primary, fallback Strategy, sink apperrors.ErrorSink) *Aggregator {
	if sink == nil {
		sink = apperrors.LogSink{}
	}
	return &Aggregator{Primary: primary, Fallback: fallback, Sink: sink}
}

func (a *Aggregator) Aggregate(ctx context.Context, w ledgerTypes.Window) (Report, error) {
	totals, err := a.Primary.Aggregate(ctx, w)
	if err == nil {
		return totals.Report(a.Primary.Name()), nil
	}

	degraded := fmt.Errorf("%w: %s tier: %v", apperrors.ErrAggregationDegraded, a.Primary.Name(), err)
	logger.Warning(fmt.Sprintf("Ledger aggregation falling back to %s: %v", a.Fallback.Name(), err))
	a.Sink.Report(ctx, "ledger.aggregate", degraded)

	totals, err = a.Fallback.Aggregate(ctx, w)
	if err != nil {
		return Report{}, apperrors.Upstream("ledger store", err)
	}
	return totals.Report(a.Fallback.Name()), nil
}
