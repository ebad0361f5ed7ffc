package api

import (
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/constants"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/engine"
	"github.com/gin-gonic/gin"
)

// BattleHandler groups the mock resolver's HTTP handlers around one
// in-memory arena.
type BattleHandler struct {
	arena *engine.Arena
}

// NewBattleHandler creates a handler backed by the given arena.
func NewBattleHandler(arena *engine.Arena) *BattleHandler {
	return &BattleHandler{arena: arena}
}

// Register mounts the resolver routes on the router.
func (h *BattleHandler) Register(router *gin.Engine) {
	router.GET(constants.RouteHealth, h.Health)
	api := router.Group(constants.RouteAPIPrefix)
	{
		api.GET(constants.RouteVersion, Version)
		api.GET(constants.RouteParticipantSummary, h.GetSummary)
		api.GET(constants.RouteParticipantBattle, h.GetBattle)
		api.POST(constants.RouteBattleMove, h.SubmitMove)
		api.POST(constants.RouteBattleEnd, h.EndBattle)
	}
}
