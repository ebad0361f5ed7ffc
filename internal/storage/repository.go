package storage

import (
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/battle"
	"gorm.io/gorm"
)

// BattleRecord is one concluded battle as archived locally. The archive
// is a convenience mirror of resolver history, not an authority.
type BattleRecord struct {
	gorm.Model
	SessionID     string `gorm:"index" json:"session_id"`
	ParticipantID string `gorm:"index" json:"participant_id"`
	Outcome       string `json:"outcome"`
	TurnCount     int    `json:"turn_count"`
	ChallengerHP  int    `json:"challenger_hp"`
	AccepterHP    int    `json:"accepter_hp"`
}

func (BattleRecord) TableName() string { return "battle_archive" }

// ParticipantTally aggregates local win/loss counts per participant.
type ParticipantTally struct {
	gorm.Model
	ParticipantID string `gorm:"uniqueIndex" json:"participant_id"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
}

func (ParticipantTally) TableName() string { return "participant_tallies" }

type Repository interface {
	// RecordOutcome archives a concluded session and bumps the
	// participant's tally.
	RecordOutcome(participantID string, s *battle.Session, outcome battle.Outcome) error
	// GetTally returns the participant's aggregate record (zero-valued
	// when nothing has been archived yet).
	GetTally(participantID string) (*ParticipantTally, error)
	// RecentBattles returns up to limit archived battles, newest first.
	RecentBattles(participantID string, limit int) ([]BattleRecord, error)
}
