package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pable/go-ns2-stats/internal/balance"
	"github.com/pable/go-ns2-stats/internal/history"
	"github.com/pable/go-ns2-stats/internal/model"
)

type statsHandler struct {
	hist *history.History
}

// RegisterHandlers mounts the game, stats and team routes on engine.
func RegisterHandlers(engine *gin.Engine, hist *history.History) {
	handler := statsHandler{hist: hist}

	engine.GET("/games", handler.onAPIGames())
	engine.GET("/games/latest", handler.onAPILatestGame())
	engine.GET("/stats", handler.onAPIStats())
	engine.GET("/stats/continuous", handler.onAPIContinuousStats())
	engine.GET("/teams", handler.onAPITeams())
}

func (h statsHandler) onAPIGames() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		r, ok := bindRange(ctx)
		if !ok {
			return
		}

		ctx.JSON(http.StatusOK, h.hist.Games(r))
	}
}

func (h statsHandler) onAPILatestGame() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		game, found := h.hist.Latest()
		if !found {
			SetError(ctx, NewAPIErrorf(http.StatusNotFound, ErrNotFound, "No games have been recorded yet"))

			return
		}

		ctx.JSON(http.StatusOK, game)
	}
}

func (h statsHandler) onAPIStats() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, h.hist.Stats())
	}
}

func (h statsHandler) onAPIContinuousStats() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		r, ok := bindRange(ctx)
		if !ok {
			return
		}

		ctx.JSON(http.StatusOK, h.hist.Continuous(r))
	}
}

type teamsResponse struct {
	balance.Teams
	PastGames []model.GameSummary `json:"past_games"`
}

func (h statsHandler) onAPITeams() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var query teamsQuery
		if !BindQuery(ctx, &query) {
			return
		}

		pool := query.pool()
		marineCom, alienCom := optional(query.MarineCom), optional(query.AlienCom)

		skill, errSkill := balance.SkillFromStats(h.hist.Stats(), balance.SkillMetric(query.Skill), pool)
		if errSkill != nil {
			SetError(ctx, NewAPIErrorf(http.StatusBadRequest, errors.Join(errSkill, ErrParamInvalid),
				"Unknown skill metric %q", query.Skill))

			return
		}

		teams, errTeams := balance.SuggestTeams(balance.Request{
			Pool:      pool,
			Skill:     skill,
			MarineCom: marineCom,
			AlienCom:  alienCom,
		})
		if errTeams != nil {
			switch {
			case errors.Is(errTeams, balance.ErrInvalidCommander), errors.Is(errTeams, balance.ErrInsufficientPlayers):
				SetError(ctx, NewAPIErrorf(http.StatusBadRequest, errTeams, "%s", errTeams.Error()))
			default:
				SetError(ctx, NewAPIError(http.StatusInternalServerError, errors.Join(errTeams, ErrInternal)))
			}

			return
		}

		past := balance.PastRosters(h.hist.Counted(), pool, marineCom, alienCom)
		if past == nil {
			past = []model.GameSummary{}
		}

		ctx.JSON(http.StatusOK, teamsResponse{Teams: teams, PastGames: past})
	}
}
