package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/tkoehler/comunio-server/internal/common"
	"github.com/tkoehler/comunio-server/internal/interfaces"
	"github.com/tkoehler/comunio-server/internal/models"
)

const dateLayout = "2006-01-02"

// handleHealth responds to GET/HEAD /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion responds to GET /api/version with build info.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleConfig exposes the non-sensitive configuration subset the UI needs.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"environment":     s.app.Config.Environment,
		"default_season":  s.app.Config.Game.DefaultSeason,
		"seasons":         s.app.Config.SeasonLabels(),
		"starting_budget": s.app.Config.Game.StartingBudget,
	})
}

// spielzeitParam returns the requested season label, defaulting to the
// configured season.
func (s *Server) spielzeitParam(r *http.Request) string {
	if spielzeit := r.URL.Query().Get("spielzeit"); spielzeit != "" {
		return spielzeit
	}
	return s.app.Config.Game.DefaultSeason
}

// todayParam returns the reconstruction date: an explicit ?date= for
// historical views, otherwise the current day.
func todayParam(r *http.Request) (time.Time, error) {
	if raw := r.URL.Query().Get("date"); raw != "" {
		return time.Parse(dateLayout, raw)
	}
	return time.Now().UTC().Truncate(24 * time.Hour), nil
}

// handleMemberTimeline serves GET /api/members/{member}/timeline.
func (s *Server) handleMemberTimeline(w http.ResponseWriter, r *http.Request, member string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	today, err := todayParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	snapshots, err := s.app.TimelineService.GetTimeline(r.Context(), member, s.spielzeitParam(r), today)
	if err != nil {
		s.logger.Error().Err(err).Str("member", member).Msg("Timeline computation failed")
		WriteError(w, http.StatusInternalServerError, "failed to compute timeline")
		return
	}

	WriteJSON(w, http.StatusOK, snapshots)
}

// handleMemberTimelineChart serves GET /api/members/{member}/timeline/chart as PNG.
func (s *Server) handleMemberTimelineChart(w http.ResponseWriter, r *http.Request, member string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	today, err := todayParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	png, err := s.app.TimelineService.RenderTimelineChart(r.Context(), member, s.spielzeitParam(r), today)
	if err != nil {
		s.logger.Error().Err(err).Str("member", member).Msg("Timeline chart failed")
		WriteError(w, http.StatusInternalServerError, "failed to render timeline chart")
		return
	}

	WritePNG(w, png)
}

// handleMemberTeam serves GET /api/members/{member}/team.
func (s *Server) handleMemberTeam(w http.ResponseWriter, r *http.Request, member string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	team, err := s.app.TransferService.GetCurrentTeam(r.Context(), member, s.spielzeitParam(r))
	if err != nil {
		s.logger.Error().Err(err).Str("member", member).Msg("Team view failed")
		WriteError(w, http.StatusInternalServerError, "failed to load team")
		return
	}

	WriteJSON(w, http.StatusOK, team)
}

// handleTransferList serves GET /api/transfers.
func (s *Server) handleTransferList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	rows, err := s.app.TransferService.ListTransfers(r.Context(), interfaces.TransferListOptions{
		Spielzeit: s.spielzeitParam(r),
		Member:    q.Get("member"),
		DateFrom:  q.Get("from"),
		DateTo:    q.Get("to"),
		Search:    q.Get("q"),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Transfer list failed")
		WriteError(w, http.StatusInternalServerError, "failed to load transfers")
		return
	}

	if rows == nil {
		rows = []models.TransferRow{}
	}
	WriteJSON(w, http.StatusOK, rows)
}

// handleTransferSummary serves GET /api/transfers/summary?group_by=member|from|to.
func (s *Server) handleTransferSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	groupBy := interfaces.TransferGroupBy(r.URL.Query().Get("group_by"))
	switch groupBy {
	case "":
		groupBy = interfaces.GroupByMember
	case interfaces.GroupByMember, interfaces.GroupBySeller, interfaces.GroupByBuyer:
	default:
		WriteError(w, http.StatusBadRequest, "group_by must be member, from, or to")
		return
	}

	totals, err := s.app.TransferService.SummarizeTransfers(r.Context(), s.spielzeitParam(r), groupBy)
	if err != nil {
		s.logger.Error().Err(err).Msg("Transfer summary failed")
		WriteError(w, http.StatusInternalServerError, "failed to summarize transfers")
		return
	}

	WriteJSON(w, http.StatusOK, totals)
}

// handleTransferCounts serves GET /api/transfers/counts.
func (s *Server) handleTransferCounts(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	counts, err := s.app.TransferService.CountBuys(r.Context(), s.spielzeitParam(r))
	if err != nil {
		s.logger.Error().Err(err).Msg("Transfer counts failed")
		WriteError(w, http.StatusInternalServerError, "failed to count transfers")
		return
	}

	WriteJSON(w, http.StatusOK, counts)
}

// handlePlayerPrices serves GET /api/players/{id}/prices.
func (s *Server) handlePlayerPrices(w http.ResponseWriter, r *http.Request, playerID int64) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	points, err := s.app.PlayerService.GetPriceHistory(r.Context(), playerID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "player not found")
			return
		}
		s.logger.Error().Err(err).Int64("player_id", playerID).Msg("Price history failed")
		WriteError(w, http.StatusInternalServerError, "failed to load price history")
		return
	}

	WriteJSON(w, http.StatusOK, points)
}

// handlePlayerPoints serves GET /api/players/{id}/points.
func (s *Server) handlePlayerPoints(w http.ResponseWriter, r *http.Request, playerID int64) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	entries, err := s.app.PlayerService.GetPointsHistory(r.Context(), playerID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "player not found")
			return
		}
		s.logger.Error().Err(err).Int64("player_id", playerID).Msg("Points history failed")
		WriteError(w, http.StatusInternalServerError, "failed to load points history")
		return
	}

	WriteJSON(w, http.StatusOK, entries)
}
