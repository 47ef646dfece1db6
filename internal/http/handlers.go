package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-league/internal/league"
	"github.com/mauv0809/padel-league/internal/notifier"
	"github.com/mauv0809/padel-league/internal/stats"
	"github.com/slack-go/slack"
)

const topPartnershipsLimit = 10

// HealthCheckHandler returns a handler for the health check endpoint.
func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, jsonResponse{"status": "ok"})
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetAllPlayers(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func (s *Server) GetPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := readIDParam(r)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		player, err := s.Store.GetPlayer(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func (s *Server) CreatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPlayerRequest
		if err := readJSON(w, r, &req); err != nil {
			badRequestResponse(w, r, err)
			return
		}
		active := true
		if req.Active != nil {
			active = *req.Active
		}
		player, err := s.Store.CreatePlayer(r.Context(), req.Name, active)
		if err != nil {
			writeError(w, r, err)
			return
		}
		log.Info("Player added", "id", player.ID, "name", player.Name)
		writeJSON(w, http.StatusCreated, player)
	}
}

func (s *Server) UpdatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := readIDParam(r)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		var update league.PlayerUpdate
		if err := readJSON(w, r, &update); err != nil {
			badRequestResponse(w, r, err)
			return
		}
		player, err := s.Store.UpdatePlayer(r.Context(), id, update)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func (s *Server) DeletePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := readIDParam(r)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		outcome, err := s.Store.DeletePlayer(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		log.Info("Player removed", "id", id, "outcome", outcome)
		writeJSON(w, http.StatusOK, deletePlayerResponse{Outcome: outcome})
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Store.GetAllMatches(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := readIDParam(r)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		match, err := s.Store.GetMatch(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in league.MatchInput
		if err := readJSON(w, r, &in); err != nil {
			badRequestResponse(w, r, err)
			return
		}
		match, err := s.Store.CreateMatch(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		log.Info("Match recorded", "id", match.ID, "scoreA", match.ScoreA, "scoreB", match.ScoreB)
		writeJSON(w, http.StatusCreated, match)
	}
}

func (s *Server) UpdateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := readIDParam(r)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		var update league.MatchUpdate
		if err := readJSON(w, r, &update); err != nil {
			badRequestResponse(w, r, err)
			return
		}
		match, err := s.Store.UpdateMatch(r.Context(), id, update)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

func (s *Server) DeleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := readIDParam(r)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		if err := s.Store.DeleteMatch(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		log.Info("Match deleted", "id", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ListPartnershipsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partnerships, err := s.Store.GetPartnerships(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, partnerships)
	}
}

func (s *Server) RecomputeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Store.RecomputeStats(r.Context()); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ExportHandler returns the full league state as a single document.
func (s *Server) ExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := s.Store.Snapshot(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, exportResponse{
			Players:      state.Players,
			Matches:      state.Matches,
			Partnerships: state.Partnerships,
			ExportedAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// ImportHandler pulls recent Playtomic bookings into the league. The window is
// set with ?days=N and honours dry_run.
func (s *Server) ImportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Importer == nil {
			errorResponse(w, r, http.StatusServiceUnavailable, "playtomic import is not configured")
			return
		}
		days := 0
		if raw := r.URL.Query().Get("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				badRequestResponse(w, r, league.Invalid("days", "must be a positive integer"))
				return
			}
			days = n
		}
		report, err := s.Importer.Import(r.Context(), days, notifier.IsDryRun(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// LeaderboardCommandHandler answers the /leaderboard Slack command. The text
// "partners" switches to the partnership table.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			errorResponse(w, r, http.StatusBadRequest, "error parsing form")
			return
		}
		text := strings.ToLower(strings.TrimSpace(r.FormValue("text")))
		log.Info("Received leaderboard command", "text", text, "user", r.FormValue("user_name"))

		var msg any
		var err error
		switch text {
		case "partners", "partnerships":
			var partnerships []league.Partnership
			partnerships, err = s.Store.GetPartnerships(r.Context())
			if err == nil {
				msg, err = s.Notifier.FormatPartnershipsResponse(stats.TopPartnerships(partnerships, topPartnershipsLimit))
			}
		default:
			var players []league.Player
			players, err = s.Store.GetAllPlayers(r.Context())
			if err == nil {
				msg, err = s.Notifier.FormatLeaderboardResponse(stats.Leaderboard(players))
			}
		}
		if err != nil {
			serverErrorResponse(w, r, err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			serverErrorResponse(w, r, errors.New("notifier did not produce a slack message"))
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}
