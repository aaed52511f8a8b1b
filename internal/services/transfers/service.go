// Package transfers projects the stored transfer collection into the tabular
// summaries rendered by the UI. Pure read-side: no temporal reconstruction.
package transfers

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tkoehler/comunio-server/internal/common"
	"github.com/tkoehler/comunio-server/internal/interfaces"
	"github.com/tkoehler/comunio-server/internal/models"
)

const dateLayout = "2006-01-02"

// Service implements interfaces.TransferService.
type Service struct {
	storage interfaces.StorageManager
	config  *common.Config
	logger  *common.Logger
}

// NewService creates a transfer query service.
func NewService(storage interfaces.StorageManager, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		config:  config,
		logger:  logger,
	}
}

// ListTransfers returns transfer rows for the season, optionally narrowed by
// member, date range, and a free-text search over all fields.
func (s *Service) ListTransfers(ctx context.Context, opts interfaces.TransferListOptions) ([]models.TransferRow, error) {
	season := s.config.ResolveSeason(opts.Spielzeit)
	from, to := season.From, season.To
	if opts.DateFrom != "" && opts.DateFrom > from {
		from = opts.DateFrom
	}
	if opts.DateTo != "" && opts.DateTo < to {
		to = opts.DateTo
	}

	var (
		records []*models.Transfer
		err     error
	)
	if opts.Member != "" {
		records, err = s.storage.TransferStore().FindTransfers(ctx, opts.Member, from, to)
	} else {
		records, err = s.storage.TransferStore().ListTransfers(ctx, from, to)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load transfers: %w", err)
	}

	rows := make([]models.TransferRow, 0, len(records))
	for _, t := range records {
		row := buildRow(t)
		if opts.Search != "" && !rowMatches(row, opts.Search) {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// buildRow derives the profit figures for one transfer. Profit is absent
// while the player is unsold; the percentage and per-day figures are rounded
// to the nearest integer and absent when their denominator is zero.
func buildRow(t *models.Transfer) models.TransferRow {
	row := models.TransferRow{
		PlayerID:   t.PlayerID,
		PlayerName: t.PlayerName,
		MemberName: t.MemberName,
		BuyDate:    t.Buy.Date,
		BuyPrice:   t.Buy.Price,
		FromName:   t.Buy.FromName,
	}

	if t.Sell == nil {
		return row
	}

	sellPrice := t.Sell.Price
	profit := sellPrice - t.Buy.Price

	row.SellDate = t.Sell.Date
	row.SellPrice = &sellPrice
	row.ToName = t.Sell.ToName
	row.Profit = &profit

	if t.Buy.Price != 0 {
		pct := roundDiv(profit*100, t.Buy.Price)
		row.ProfitPct = &pct
	}
	if days := holdingDays(t.Buy.Date, t.Sell.Date); days != 0 {
		perDay := roundDiv(profit, days)
		row.ProfitPerDay = &perDay
	}

	return row
}

// roundDiv divides and rounds to the nearest integer.
func roundDiv(n, d int64) int64 {
	return int64(math.Round(float64(n) / float64(d)))
}

// holdingDays returns the whole days between buy and sell date, or 0 when
// either date fails to parse.
func holdingDays(buyDate, sellDate string) int64 {
	buy, err := time.Parse(dateLayout, buyDate)
	if err != nil {
		return 0
	}
	sell, err := time.Parse(dateLayout, sellDate)
	if err != nil {
		return 0
	}
	return int64(sell.Sub(buy).Hours() / 24)
}

// rowMatches does a case-insensitive substring search across all row fields.
func rowMatches(row models.TransferRow, search string) bool {
	haystack := strings.ToLower(strings.Join([]string{
		fmt.Sprintf("%d", row.PlayerID),
		row.PlayerName,
		row.MemberName,
		row.BuyDate,
		row.SellDate,
		row.FromName,
		row.ToName,
	}, " "))
	return strings.Contains(haystack, strings.ToLower(search))
}

// SummarizeTransfers aggregates the season's transfers by member, seller, or
// buyer, ordered by total profit descending.
func (s *Service) SummarizeTransfers(ctx context.Context, spielzeit string, groupBy interfaces.TransferGroupBy) ([]models.GroupTotals, error) {
	rows, err := s.ListTransfers(ctx, interfaces.TransferListOptions{Spielzeit: spielzeit})
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*models.GroupTotals)
	for _, row := range rows {
		key := groupKey(row, groupBy)
		if key == "" {
			continue
		}
		g, ok := totals[key]
		if !ok {
			g = &models.GroupTotals{Key: key}
			totals[key] = g
		}
		g.Count++
		g.BuyTotal += row.BuyPrice
		if row.SellPrice != nil {
			g.SellTotal += *row.SellPrice
		}
		if row.Profit != nil {
			g.ProfitTotal += *row.Profit
		}
	}

	result := make([]models.GroupTotals, 0, len(totals))
	for _, g := range totals {
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ProfitTotal != result[j].ProfitTotal {
			return result[i].ProfitTotal > result[j].ProfitTotal
		}
		return result[i].Key < result[j].Key
	})

	return result, nil
}

func groupKey(row models.TransferRow, groupBy interfaces.TransferGroupBy) string {
	switch groupBy {
	case interfaces.GroupBySeller:
		return row.FromName
	case interfaces.GroupByBuyer:
		return row.ToName
	default:
		return row.MemberName
	}
}

// CountBuys returns per-member buy counts for the season, most active first.
func (s *Service) CountBuys(ctx context.Context, spielzeit string) ([]models.MemberBuyCount, error) {
	rows, err := s.ListTransfers(ctx, interfaces.TransferListOptions{Spielzeit: spielzeit})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.MemberName]++
	}

	result := make([]models.MemberBuyCount, 0, len(counts))
	for member, n := range counts {
		result = append(result, models.MemberBuyCount{MemberName: member, Buys: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Buys != result[j].Buys {
			return result[i].Buys > result[j].Buys
		}
		return result[i].MemberName < result[j].MemberName
	})

	return result, nil
}

// GetCurrentTeam returns the member's unsold players valued at the latest
// quoted price, with the member-level totals of the team view.
func (s *Service) GetCurrentTeam(ctx context.Context, member, spielzeit string) (*models.TeamSummary, error) {
	season := s.config.ResolveSeason(spielzeit)

	records, err := s.storage.TransferStore().FindTransfers(ctx, member, season.From, season.To)
	if err != nil {
		return nil, fmt.Errorf("failed to load transfers for %s: %w", member, err)
	}

	var held []*models.Transfer
	ids := make([]int64, 0, len(records))
	for _, t := range records {
		if !t.Sold() {
			held = append(held, t)
			ids = append(ids, t.PlayerID)
		}
	}

	summary := &models.TeamSummary{
		MemberName: member,
		Spielzeit:  spielzeit,
		Players:    []models.TeamPlayer{},
	}
	if len(held) == 0 {
		return summary, nil
	}

	history, err := s.storage.PlayerStore().GetPriceHistoryBatch(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Str("member", member).Msg("Price history load failed, valuing team at buy prices")
		history = nil
	}

	for _, t := range held {
		current := latestPrice(history[t.PlayerID])
		if current == 0 {
			current = t.Buy.Price
		}
		diff := current - t.Buy.Price

		player := models.TeamPlayer{
			PlayerID:    t.PlayerID,
			PlayerName:  t.PlayerName,
			BuyDate:     t.Buy.Date,
			BuyPrice:    t.Buy.Price,
			MarketValue: current,
			Difference:  diff,
			FromName:    t.Buy.FromName,
		}
		if t.Buy.Price > 0 {
			player.DiffPct = math.Round(float64(diff)/float64(t.Buy.Price)*1000) / 10
		}

		summary.Players = append(summary.Players, player)
		summary.TotalInvestment += t.Buy.Price
		summary.CurrentValue += current
	}

	// Highest valued players first, like the team grid.
	sort.Slice(summary.Players, func(i, j int) bool {
		return summary.Players[i].MarketValue > summary.Players[j].MarketValue
	})

	summary.Difference = summary.CurrentValue - summary.TotalInvestment
	if summary.TotalInvestment > 0 {
		summary.DiffPct = math.Round(float64(summary.Difference)/float64(summary.TotalInvestment)*1000) / 10
	}

	return summary, nil
}

// latestPrice returns the newest quoted price in a history, or 0 when empty.
func latestPrice(points []models.PricePoint) int64 {
	if len(points) == 0 {
		return 0
	}
	latest := points[0]
	for _, p := range points[1:] {
		if p.Date >= latest.Date {
			latest = p
		}
	}
	return latest.Price
}

// Compile-time check
var _ interfaces.TransferService = (*Service)(nil)
