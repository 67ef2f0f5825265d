package handlers

import (
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bgr/internal/httpserver/respond"
	"github.com/MrSnakeDoc/bgr/internal/logger"
	"github.com/MrSnakeDoc/bgr/internal/stats"
)

// Ranking orders accepted by /games/rankings.
const (
	RankByRating  = "rating"
	RankByReviews = "reviews"
)

type rankingsResponse struct {
	By    string             `json:"by"`
	Games []stats.RankedGame `json:"games"`
}

// GetGame returns one catalog entry.
func GetGame(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}
		g, err := d.Games.FindByID(r.Context(), id)
		if err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, g)
	}
}

// CreateGame registers a site-local game that does not come from the remote catalog.
func CreateGame(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.Game
		if err := respond.Decode(w, r, &in); err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}
		in.ID = 0

		g, err := d.Reconciler.Create(r.Context(), in)
		if err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}
		respond.JSON(w, http.StatusCreated, g)
	}
}

// ReconcileGame reconciles a remote catalog id. With dry_run=true nothing is persisted.
//
// 201 admit (200 when an existing game was refreshed or on dry run), 409 flagged duplicate, 422 reject.
func ReconcileGame(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bggID, err := pathID(r, "bggID")
		if err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}
		dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dry_run"))

		var decision domain.ReconciliationDecision
		if dryRun {
			decision, err = d.Reconciler.Reconcile(r.Context(), bggID)
		} else {
			decision, err = d.Reconciler.Register(r.Context(), bggID)
		}
		if err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}

		status := http.StatusOK
		switch decision.Kind {
		case domain.DecisionAdmit:
			if !dryRun && !decision.Updated {
				status = http.StatusCreated
			}
		case domain.DecisionFlagDuplicate:
			status = http.StatusConflict
		case domain.DecisionReject:
			status = http.StatusUnprocessableEntity
		}

		d.Logger.Debug("reconcile request served",
			logger.Int64("bgg_id", bggID),
			logger.String("decision", string(decision.Kind)),
			logger.Bool("dry_run", dryRun))
		respond.JSON(w, status, decision)
	}
}

// GameStats aggregates the published reviews of a game.
func GameStats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}
		s, err := d.Stats.GameStatistics(r.Context(), id)
		if err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, s)
	}
}

// Rankings lists games by average rating or by review count.
func Rankings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit", 10, 1, 100)
		if err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}

		by := r.URL.Query().Get("by")
		var games []stats.RankedGame
		switch by {
		case "", RankByRating:
			by = RankByRating
			games, err = d.Stats.TopRated(r.Context(), limit)
		case RankByReviews:
			games, err = d.Stats.MostReviewed(r.Context(), limit)
		default:
			err = invalidParam("by", "by must be rating or reviews")
		}
		if err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, rankingsResponse{By: by, Games: games})
	}
}
