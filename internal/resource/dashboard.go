package resource

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Veraticus/gastos/internal/model"
	"github.com/Veraticus/gastos/internal/service"
)

// SummaryPath is the dashboard endpoint.
const SummaryPath = "/dashboard/summary"

// Dashboard reads the current month's summary. It keeps no cache.
type Dashboard struct {
	gw      service.Requester
	expirer service.SessionExpirer
}

var _ service.SummaryReader = (*Dashboard)(nil)

// NewDashboard creates a dashboard reader.
func NewDashboard(gw service.Requester, expirer service.SessionExpirer) *Dashboard {
	return &Dashboard{gw: gw, expirer: expirer}
}

// Summary fetches totals and the expense breakdown for the current month.
func (d *Dashboard) Summary(ctx context.Context) (model.Summary, error) {
	const op = "load summary"

	resp, err := d.gw.Request(ctx, http.MethodGet, SummaryPath, nil)
	if err != nil {
		return model.Summary{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := checkStatus(ctx, d.expirer, resp, op); err != nil {
		return model.Summary{}, err
	}

	var summary model.Summary
	if err := resp.Decode(&summary); err != nil {
		return model.Summary{}, fmt.Errorf("%s: %w", op, err)
	}
	return summary, nil
}
