package storage

import (
	"errors"

	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/battle"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) RecordOutcome(participantID string, s *battle.Session, outcome battle.Outcome) error {
	rec := BattleRecord{
		SessionID:     s.ID,
		ParticipantID: participantID,
		Outcome:       string(outcome),
		TurnCount:     len(s.Turns),
		ChallengerHP:  s.Challenger.HealthPoints,
		AccepterHP:    s.Accepter.HealthPoints,
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		tally := ParticipantTally{ParticipantID: participantID}
		if outcome == battle.OutcomeWin {
			tally.Wins = 1
		} else {
			tally.Losses = 1
		}
		// Upsert: bump the existing counters when a tally row exists.
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "participant_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"wins":   gorm.Expr("wins + ?", tally.Wins),
				"losses": gorm.Expr("losses + ?", tally.Losses),
			}),
		}).Create(&tally).Error
	})
}

func (r *sqliteRepository) GetTally(participantID string) (*ParticipantTally, error) {
	var t ParticipantTally
	err := r.db.Where("participant_id = ?", participantID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &ParticipantTally{ParticipantID: participantID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *sqliteRepository) RecentBattles(participantID string, limit int) ([]BattleRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	var recs []BattleRecord
	err := r.db.Where("participant_id = ?", participantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
