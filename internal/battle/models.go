package battle

// Role identifies one of the two fixed combatant slots in a session.
// The challenger opened the battle; the accepter answered it.
type Role string

const (
	RoleChallenger Role = "challenger"
	RoleAccepter   Role = "accepter"
)

// Opponent returns the other role.
func (r Role) Opponent() Role {
	if r == RoleChallenger {
		return RoleAccepter
	}
	return RoleChallenger
}

// Status is the lifecycle state of a session as mirrored locally.
// Ended is terminal: once a mirror reaches it, it never goes back.
type Status string

const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

// MoveStats describes one move available to a combatant: how many uses
// remain and the effect magnitudes the resolver assigned to it.
type MoveStats struct {
	Count   int `json:"count"`
	Damage  int `json:"damage"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`
	Health  int `json:"health"`
}

// CombatantSnapshot is the full recorded state of one combatant at a
// point in time. Snapshots are replaced wholesale when a turn is applied;
// nothing outside the applier mutates them field by field.
type CombatantSnapshot struct {
	Attack       int                  `json:"attack"`
	Defense      int                  `json:"defense"`
	Speed        int                  `json:"speed"`
	Shield       int                  `json:"shield"`
	HealthPoints int                  `json:"health_points"`
	Moves        map[string]MoveStats `json:"moves"`
}

// Clone returns a deep copy of the snapshot.
func (c CombatantSnapshot) Clone() CombatantSnapshot {
	out := c
	if c.Moves != nil {
		out.Moves = make(map[string]MoveStats, len(c.Moves))
		for name, m := range c.Moves {
			out.Moves[name] = m
		}
	}
	return out
}

// Equal reports field-by-field equality, including the move table.
func (c CombatantSnapshot) Equal(o CombatantSnapshot) bool {
	if c.Attack != o.Attack || c.Defense != o.Defense || c.Speed != o.Speed ||
		c.Shield != o.Shield || c.HealthPoints != o.HealthPoints {
		return false
	}
	if len(c.Moves) != len(o.Moves) {
		return false
	}
	for name, m := range c.Moves {
		om, ok := o.Moves[name]
		if !ok || m != om {
			return false
		}
	}
	return true
}

// StatChange records the stat deltas a supportive turn applied.
type StatChange struct {
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`
	Health  int `json:"health"`
}

// Turn is one resolved combat action as recorded by the resolver. Turns
// are immutable and append-only: once observed, the client never reorders
// or discards one. AttackerState and DefenderState are the full snapshots
// captured after the turn resolved.
type Turn struct {
	Attacker       Role              `json:"attacker"`
	Move           string            `json:"move"`
	HealthDamage   int               `json:"health_damage"`
	ShieldDamage   int               `json:"shield_damage"`
	Missed         bool              `json:"missed"`
	SuperEffective bool              `json:"super_effective"`
	NotEffective   bool              `json:"not_effective"`
	StatsChanged   *StatChange       `json:"stats_changed,omitempty"`
	AttackerState  CombatantSnapshot `json:"attacker_state"`
	DefenderState  CombatantSnapshot `json:"defender_state"`
}

// Offensive reports whether the turn should play the strike animation.
// A missed strike still lunges; pure stat/heal moves play the supportive
// sequence instead.
func (t Turn) Offensive() bool {
	if t.HealthDamage > 0 || t.ShieldDamage > 0 {
		return true
	}
	return t.Missed && t.StatsChanged == nil
}

// Session is one ongoing or concluded combat instance between two
// participants, mirrored locally from the resolver's authoritative copy.
type Session struct {
	ID         string            `json:"id"`
	Challenger CombatantSnapshot `json:"challenger"`
	Accepter   CombatantSnapshot `json:"accepter"`
	Turns      []Turn            `json:"turns"`
	MovesLeft  int               `json:"moves_left"`
	Status     Status            `json:"status,omitempty"`
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Challenger = s.Challenger.Clone()
	out.Accepter = s.Accepter.Clone()
	if s.Turns != nil {
		out.Turns = make([]Turn, len(s.Turns))
		copy(out.Turns, s.Turns)
	}
	return &out
}

// Combatant returns the snapshot for the given role.
func (s *Session) Combatant(r Role) CombatantSnapshot {
	if r == RoleChallenger {
		return s.Challenger
	}
	return s.Accepter
}

// SetCombatant replaces the snapshot for the given role.
func (s *Session) SetCombatant(r Role, c CombatantSnapshot) {
	if r == RoleChallenger {
		s.Challenger = c
		return
	}
	s.Accepter = c
}
