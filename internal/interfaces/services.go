package interfaces

import (
	"context"
	"time"

	"github.com/tkoehler/comunio-server/internal/models"
)

// TimelineService reconstructs member portfolio timelines.
type TimelineService interface {
	// GetTimeline returns one snapshot per calendar day from season start to
	// min(today, season end) for the member, served from cache where possible.
	// "today" is passed explicitly so callers and tests control the clock.
	GetTimeline(ctx context.Context, member, spielzeit string, today time.Time) ([]models.DailySnapshot, error)

	// RenderTimelineChart renders the member's timeline as a PNG line chart.
	RenderTimelineChart(ctx context.Context, member, spielzeit string, today time.Time) ([]byte, error)
}

// TransferListOptions filters the transfer grid.
type TransferListOptions struct {
	Spielzeit string
	Member    string // empty for all members
	DateFrom  string // optional YYYY-MM-DD, narrows within the season
	DateTo    string
	Search    string // free-text match over all row fields
}

// TransferGroupBy selects the grouping key for transfer summaries.
type TransferGroupBy string

const (
	GroupByMember TransferGroupBy = "member"
	GroupBySeller TransferGroupBy = "from"
	GroupByBuyer  TransferGroupBy = "to"
)

// TransferService projects stored transfers into tabular views.
type TransferService interface {
	ListTransfers(ctx context.Context, opts TransferListOptions) ([]models.TransferRow, error)

	// SummarizeTransfers returns per-key aggregations (counts and sums) for
	// the season, grouped by member, seller, or buyer.
	SummarizeTransfers(ctx context.Context, spielzeit string, groupBy TransferGroupBy) ([]models.GroupTotals, error)

	// CountBuys returns per-member buy counts for the season.
	CountBuys(ctx context.Context, spielzeit string) ([]models.MemberBuyCount, error)

	// GetCurrentTeam returns the member's unsold players valued at the latest
	// market price.
	GetCurrentTeam(ctx context.Context, member, spielzeit string) (*models.TeamSummary, error)
}

// PlayerService exposes player histories for detail views.
type PlayerService interface {
	GetPriceHistory(ctx context.Context, playerID int64) ([]models.PricePoint, error)
	GetPointsHistory(ctx context.Context, playerID int64) ([]models.PointsEntry, error)
}
