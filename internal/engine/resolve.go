package engine

import (
	"sort"

	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/battle"
)

// resolveTurn applies one move by attacker against the other role and
// returns the recorded turn, including the post-turn snapshots the
// client folds into its mirror. The session is mutated in place; the
// arena lock is held by the caller.
func (a *Arena) resolveTurn(s *battle.Session, attacker battle.Role, move string) (battle.Turn, error) {
	atk := s.Combatant(attacker)
	def := s.Combatant(attacker.Opponent())

	stats, ok := atk.Moves[move]
	if !ok {
		return battle.Turn{}, ErrUnknownMove
	}
	if stats.Count <= 0 {
		return battle.Turn{}, ErrMoveExhausted
	}
	stats.Count--
	atk.Moves[move] = stats

	turn := battle.Turn{Attacker: attacker, Move: move}

	if stats.Damage > 0 {
		a.resolveStrike(&turn, &atk, &def, stats)
	} else {
		resolveSupport(&turn, &atk, stats)
	}

	s.SetCombatant(attacker, atk)
	s.SetCombatant(attacker.Opponent(), def)
	turn.AttackerState = atk.Clone()
	turn.DefenderState = def.Clone()
	return turn, nil
}

// resolveStrike computes damage for an offensive move: the shield
// absorbs first, effectiveness compares raw damage to the defender's
// defense, and slower attackers sometimes whiff entirely.
func (a *Arena) resolveStrike(turn *battle.Turn, atk, def *battle.CombatantSnapshot, stats battle.MoveStats) {
	if def.Speed > atk.Speed+stats.Speed && a.rng.Intn(4) == 0 {
		turn.Missed = true
		return
	}

	dmg := stats.Damage + atk.Attack/2 - def.Defense/2
	switch {
	case stats.Damage >= def.Defense*2:
		turn.SuperEffective = true
		dmg += stats.Damage / 2
	case stats.Damage*2 <= def.Defense:
		turn.NotEffective = true
		dmg /= 2
	}
	if dmg < 1 {
		dmg = 1
	}

	if def.Shield > 0 {
		absorbed := dmg
		if absorbed > def.Shield {
			absorbed = def.Shield
		}
		def.Shield -= absorbed
		turn.ShieldDamage = absorbed
		dmg -= absorbed
	}
	if dmg > 0 {
		def.HealthPoints -= dmg
		turn.HealthDamage = dmg
	}
}

// resolveSupport applies a supportive move's boosts and healing to the
// attacker itself.
func resolveSupport(turn *battle.Turn, atk *battle.CombatantSnapshot, stats battle.MoveStats) {
	change := &battle.StatChange{
		Attack:  stats.Attack,
		Defense: stats.Defense,
		Speed:   stats.Speed,
		Health:  stats.Health,
	}
	atk.Attack += change.Attack
	atk.Defense += change.Defense
	atk.Speed += change.Speed
	atk.HealthPoints += change.Health
	turn.StatsChanged = change
}

func sortedMoveNames(moves map[string]battle.MoveStats) []string {
	names := make([]string, 0, len(moves))
	for name := range moves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stock combatants used for every mock battle. Values are arbitrary but
// balanced enough that battles last a few rounds.
func stockChallenger() battle.CombatantSnapshot {
	return battle.CombatantSnapshot{
		Attack: 8, Defense: 6, Speed: 7, Shield: 6, HealthPoints: 30,
		Moves: map[string]battle.MoveStats{
			"fireball": {Count: 4, Damage: 10},
			"quake":    {Count: 2, Damage: 14, Speed: -2},
			"mend":     {Count: 2, Health: 8},
			"focus":    {Count: 2, Attack: 3, Defense: 2},
		},
	}
}

func stockOpponent() battle.CombatantSnapshot {
	return battle.CombatantSnapshot{
		Attack: 7, Defense: 7, Speed: 6, Shield: 6, HealthPoints: 30,
		Moves: map[string]battle.MoveStats{
			"bite":   {Count: 5, Damage: 9},
			"howl":   {Count: 2, Attack: 4},
			"harden": {Count: 2, Defense: 4},
		},
	}
}
