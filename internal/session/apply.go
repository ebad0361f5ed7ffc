package session

import "github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/battle"

// ApplyTurn folds one turn's recorded post-turn snapshots into the
// session, replacing the attacker's and defender's combatants wholesale.
// It is pure: the input session is not mutated, and applying the same
// turn twice yields the same result as applying it once.
func ApplyTurn(s *battle.Session, t battle.Turn) *battle.Session {
	out := s.Clone()
	out.SetCombatant(t.Attacker, t.AttackerState.Clone())
	out.SetCombatant(t.Attacker.Opponent(), t.DefenderState.Clone())
	return out
}
