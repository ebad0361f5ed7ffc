package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/battle"
)

var (
	ErrBattleNotFound  = errors.New("battle not found")
	ErrNotParticipant  = errors.New("participant not in this battle")
	ErrUnknownMove     = errors.New("unknown move")
	ErrMoveExhausted   = errors.New("move has no uses left")
	ErrBattleConcluded = errors.New("battle already concluded")
	ErrBattleActive    = errors.New("battle is still active")
)

const (
	movesPerRound          = 3
	defaultBattlesPerEpoch = 4
)

// arenaBattle is the server-side state for one battle: the session the
// client mirrors plus bookkeeping the wire format never exposes.
type arenaBattle struct {
	session    *battle.Session
	challenger string
	opponent   string
	concluded  bool
	winner     battle.Role
	baseShield int
}

// record tracks a participant's aggregate results within the arena.
type record struct {
	wins, losses     int
	battlesRemaining int
}

// Arena is the in-memory battle registry backing the mock resolver. It
// stands in for the remote authoritative resolver during development:
// slow, coarse request/response, no push.
type Arena struct {
	mu      sync.Mutex
	rng     *rand.Rand
	nextID  int
	battles map[string]*arenaBattle
	active  map[string]string // participant id -> battle id
	records map[string]*record
}

// NewArena builds an arena. The seed fixes the rng so battles replay
// deterministically in tests.
func NewArena(seed int64) *Arena {
	return &Arena{
		rng:     rand.New(rand.NewSource(seed)),
		battles: make(map[string]*arenaBattle),
		active:  make(map[string]string),
		records: make(map[string]*record),
	}
}

func (a *Arena) recordFor(participantID string) *record {
	r, ok := a.records[participantID]
	if !ok {
		r = &record{battlesRemaining: defaultBattlesPerEpoch}
		a.records[participantID] = r
	}
	return r
}

// Summary returns the participant's aggregate battle record.
func (a *Arena) Summary(participantID string) (battlesRemaining, wins, losses int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	r := a.recordFor(participantID)
	return r.battlesRemaining, r.wins, r.losses
}

// ActiveBattle returns the participant's current session, creating a
// fresh one against the house opponent when the participant still has
// battles remaining. Returns (nil, false) once the allowance is spent.
func (a *Arena) ActiveBattle(participantID string) (*battle.Session, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id, ok := a.active[participantID]; ok {
		return a.battles[id].session.Clone(), true
	}
	r := a.recordFor(participantID)
	if r.battlesRemaining <= 0 {
		return nil, false
	}
	r.battlesRemaining--
	b := a.newBattle(participantID)
	return b.session.Clone(), true
}

func (a *Arena) newBattle(participantID string) *arenaBattle {
	a.nextID++
	challenger := stockChallenger()
	b := &arenaBattle{
		session: &battle.Session{
			ID:         fmt.Sprintf("battle-%d", a.nextID),
			Challenger: challenger,
			Accepter:   stockOpponent(),
			MovesLeft:  movesPerRound,
		},
		challenger: participantID,
		opponent:   "house-" + participantID,
		baseShield: challenger.Shield,
	}
	a.battles[b.session.ID] = b
	a.active[participantID] = b.session.ID
	return b
}

// SubmitMove resolves the participant's move plus the house opponent's
// automatic response, appends the resulting turns and returns the
// updated session. The winner role is non-empty once the battle
// concluded with this move.
func (a *Arena) SubmitMove(battleID, participantID, move string) (*battle.Session, battle.Role, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.battles[battleID]
	if !ok {
		return nil, "", ErrBattleNotFound
	}
	if b.challenger != participantID {
		return nil, "", ErrNotParticipant
	}
	if b.concluded {
		return nil, "", ErrBattleConcluded
	}

	s := b.session
	turn, err := a.resolveTurn(s, battle.RoleChallenger, move)
	if err != nil {
		return nil, "", err
	}
	s.Turns = append(s.Turns, turn)

	// Opponent auto-responds unless the player's move already decided it.
	if battle.ClassifyStatus(s) == battle.StatusActive {
		reply, err := a.resolveTurn(s, battle.RoleAccepter, a.pickOpponentMove(s))
		if err == nil {
			s.Turns = append(s.Turns, reply)
		}
	}

	s.MovesLeft--
	if battle.ClassifyStatus(s) == battle.StatusEnded {
		b.concluded = true
		if s.Accepter.HealthPoints <= 0 && s.Challenger.HealthPoints > 0 {
			b.winner = battle.RoleChallenger
		} else {
			b.winner = battle.RoleAccepter
		}
		r := a.recordFor(participantID)
		if b.winner == battle.RoleChallenger {
			r.wins++
		} else {
			r.losses++
		}
		return s.Clone(), b.winner, nil
	}
	if s.MovesLeft <= 0 {
		// Round complete: fresh move allowance and restored shields.
		s.MovesLeft = movesPerRound
		s.Challenger.Shield = b.baseShield
		s.Accepter.Shield = b.baseShield
	}
	return s.Clone(), "", nil
}

// pickOpponentMove rotates through the opponent's moves that still have
// uses left, preferring offensive ones.
func (a *Arena) pickOpponentMove(s *battle.Session) string {
	var fallback string
	names := sortedMoveNames(s.Accepter.Moves)
	for _, name := range names {
		m := s.Accepter.Moves[name]
		if m.Count <= 0 {
			continue
		}
		if m.Damage > 0 {
			return name
		}
		if fallback == "" {
			fallback = name
		}
	}
	return fallback
}

// EndBattle clears a concluded battle so the participant can start the
// next one. Ending an active battle is refused.
func (a *Arena) EndBattle(battleID, participantID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.battles[battleID]
	if !ok {
		return ErrBattleNotFound
	}
	if b.challenger != participantID {
		return ErrNotParticipant
	}
	if !b.concluded {
		return ErrBattleActive
	}
	delete(a.battles, battleID)
	delete(a.active, participantID)
	return nil
}
