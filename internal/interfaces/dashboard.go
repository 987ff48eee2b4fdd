package interfaces

import (
	"context"

	"github.com/bobmcallan/agripulse/internal/dashboard"
	"github.com/bobmcallan/agripulse/internal/market"
	"github.com/bobmcallan/agripulse/internal/models"
)

// DashboardService is the read and interaction surface the HTTP API and MCP
// tools serve. *dashboard.Dashboard implements it; tests substitute fakes.
type DashboardService interface {
	Satellites() []models.FeedRecord
	Satellite(feed models.FeedType) (models.FeedRecord, error)
	Regions() []models.Region
	Pulses() []dashboard.PulseView
	Stream() []models.StatusUpdate
	Market() market.Snapshot
	Trends() market.TrendReport
	Prediction(ctx context.Context) market.Prediction
	ForceRefresh(ctx context.Context) error
	Click(ctx context.Context, ev models.ClickEvent) (models.ClickEvent, error)
}

var _ DashboardService = (*dashboard.Dashboard)(nil)
