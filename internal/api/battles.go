package api

import (
	"errors"
	"net/http"

	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/constants"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/engine"
	"github.com/gin-gonic/gin"
)

// Health reports liveness for the healthcheck binary.
func (h *BattleHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "ok"})
}

// GetSummary returns the participant's aggregate battle record.
func (h *BattleHandler) GetSummary(c *gin.Context) {
	remaining, wins, losses := h.arena.Summary(c.Param("participantID"))
	c.JSON(http.StatusOK, gin.H{
		"battles_remaining": remaining,
		"wins":              wins,
		"losses":            losses,
	})
}

// GetBattle returns the participant's active battle, creating one when
// the participant still has battles remaining. 404 signals "no battle".
func (h *BattleHandler) GetBattle(c *gin.Context) {
	s, ok := h.arena.ActiveBattle(c.Param("participantID"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"battle": s})
}

// MoveRequest is the body of a move submission.
type MoveRequest struct {
	Participant string `json:"participant"`
	Move        string `json:"move"`
}

// SubmitMove applies a participant's move. The success envelope carries
// `{battle: ...}` while the battle continues and gains a `result` field
// naming the winning role once it concluded.
func (h *BattleHandler) SubmitMove(c *gin.Context) {
	battleID := c.Param("battleID")
	if battleID == "" {
		failure(c, http.StatusBadRequest, constants.ErrInvalidBattleID)
		return
	}
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Participant == "" || req.Move == "" {
		failure(c, http.StatusBadRequest, constants.ErrInvalidRequest)
		return
	}

	s, winner, err := h.arena.SubmitMove(battleID, req.Participant, req.Move)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrBattleNotFound):
			failure(c, http.StatusNotFound, constants.ErrBattleNotFound)
		case errors.Is(err, engine.ErrNotParticipant):
			failure(c, http.StatusForbidden, constants.ErrNotParticipant)
		case errors.Is(err, engine.ErrUnknownMove):
			failure(c, http.StatusBadRequest, constants.ErrUnknownMove)
		case errors.Is(err, engine.ErrMoveExhausted):
			failure(c, http.StatusBadRequest, constants.ErrMoveExhausted)
		case errors.Is(err, engine.ErrBattleConcluded):
			failure(c, http.StatusConflict, constants.ErrBattleConcluded)
		default:
			failure(c, http.StatusInternalServerError, constants.ErrInvalidRequest)
		}
		return
	}

	data := gin.H{"battle": s}
	if winner != "" {
		data["result"] = string(winner)
	}
	c.JSON(http.StatusOK, gin.H{
		constants.JSONKeyStatus: constants.StatusSuccess,
		constants.JSONKeyData:   data,
	})
}

// EndRequest is the body of an end-battle request.
type EndRequest struct {
	Participant string `json:"participant"`
}

// EndBattle clears a concluded battle.
func (h *BattleHandler) EndBattle(c *gin.Context) {
	battleID := c.Param("battleID")
	var req EndRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Participant == "" {
		failure(c, http.StatusBadRequest, constants.ErrInvalidRequest)
		return
	}
	if err := h.arena.EndBattle(battleID, req.Participant); err != nil {
		switch {
		case errors.Is(err, engine.ErrBattleNotFound):
			failure(c, http.StatusNotFound, constants.ErrBattleNotFound)
		case errors.Is(err, engine.ErrNotParticipant):
			failure(c, http.StatusForbidden, constants.ErrNotParticipant)
		case errors.Is(err, engine.ErrBattleActive):
			failure(c, http.StatusConflict, constants.ErrBattleStillActive)
		default:
			failure(c, http.StatusInternalServerError, constants.ErrInvalidRequest)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: constants.StatusSuccess})
}

// failure writes a failure envelope with the given HTTP status.
func failure(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{
		constants.JSONKeyStatus: constants.StatusFailure,
		constants.JSONKeyError:  msg,
	})
}
