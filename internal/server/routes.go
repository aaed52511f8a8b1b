package server

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Members — timeline and team views
	mux.HandleFunc("/api/members/", s.routeMembers)

	// Transfers
	mux.HandleFunc("/api/transfers/summary", s.handleTransferSummary)
	mux.HandleFunc("/api/transfers/counts", s.handleTransferCounts)
	mux.HandleFunc("/api/transfers", s.handleTransferList)

	// Players
	mux.HandleFunc("/api/players/", s.routePlayers)
}

// routeMembers dispatches /api/members/{member}/* to the appropriate handler.
func (s *Server) routeMembers(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/members/")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" {
		WriteError(w, http.StatusBadRequest, "member name is required in path")
		return
	}

	member, err := url.PathUnescape(parts[0])
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid member name")
		return
	}

	switch strings.Join(parts[1:], "/") {
	case "timeline":
		s.handleMemberTimeline(w, r, member)
	case "timeline/chart":
		s.handleMemberTimelineChart(w, r, member)
	case "team":
		s.handleMemberTeam(w, r, member)
	default:
		WriteError(w, http.StatusNotFound, "unknown member resource")
	}
}

// routePlayers dispatches /api/players/{id}/* to the appropriate handler.
func (s *Server) routePlayers(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/players/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" {
		WriteError(w, http.StatusBadRequest, "player id is required in path")
		return
	}

	playerID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "player id must be numeric")
		return
	}

	switch parts[1] {
	case "prices":
		s.handlePlayerPrices(w, r, playerID)
	case "points":
		s.handlePlayerPoints(w, r, playerID)
	default:
		WriteError(w, http.StatusNotFound, "unknown player resource")
	}
}
