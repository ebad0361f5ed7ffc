package battle

import "testing"

func sampleSession() *Session {
	return &Session{
		ID: "b-1",
		Challenger: CombatantSnapshot{
			Attack: 8, Defense: 5, Speed: 6, Shield: 4, HealthPoints: 20,
			Moves: map[string]MoveStats{"fireball": {Count: 2, Damage: 10}},
		},
		Accepter: CombatantSnapshot{
			Attack: 6, Defense: 7, Speed: 4, Shield: 3, HealthPoints: 18,
			Moves: map[string]MoveStats{"bite": {Count: 3, Damage: 6}},
		},
		MovesLeft: 3,
		Status:    StatusActive,
	}
}

func TestChanged_IdenticalCopy(t *testing.T) {
	a := sampleSession()
	b := a.Clone()
	if Changed(a, b) {
		t.Fatalf("structurally identical sessions must not report a change")
	}
}

func TestChanged_StatusOnlyDifference(t *testing.T) {
	a := sampleSession()
	b := a.Clone()
	b.Status = StatusEnded
	if Changed(a, b) {
		t.Fatalf("status-only difference must not count as a change")
	}
}

func TestChanged_NilSides(t *testing.T) {
	a := sampleSession()
	if !Changed(nil, a) {
		t.Fatalf("absent old session must count as changed")
	}
	if !Changed(a, nil) {
		t.Fatalf("absent new session must count as changed")
	}
}

func TestChanged_TurnCount(t *testing.T) {
	a := sampleSession()
	b := a.Clone()
	b.Turns = append(b.Turns, Turn{Attacker: RoleChallenger, Move: "fireball"})
	if !Changed(a, b) {
		t.Fatalf("added turn must count as changed")
	}
}

func TestChanged_MovesLeft(t *testing.T) {
	a := sampleSession()
	b := a.Clone()
	b.MovesLeft--
	if !Changed(a, b) {
		t.Fatalf("move-availability difference must count as changed")
	}
}

func TestChanged_SnapshotFields(t *testing.T) {
	a := sampleSession()

	b := a.Clone()
	b.Accepter.HealthPoints -= 4
	if !Changed(a, b) {
		t.Fatalf("health difference must count as changed")
	}

	c := a.Clone()
	m := c.Challenger.Moves["fireball"]
	m.Count--
	c.Challenger.Moves["fireball"] = m
	if !Changed(a, c) {
		t.Fatalf("move count difference must count as changed")
	}
}

func TestClone_IsDeep(t *testing.T) {
	a := sampleSession()
	b := a.Clone()
	m := b.Challenger.Moves["fireball"]
	m.Count = 99
	b.Challenger.Moves["fireball"] = m
	if a.Challenger.Moves["fireball"].Count == 99 {
		t.Fatalf("clone shares the move table with the original")
	}
}
