package battle

// Changed reports whether the remote session differs from the local
// mirror in a way that warrants a re-render. The comparison is structural
// over turn count, the move-availability counter and both combatant
// snapshots.
//
// Status is deliberately excluded: a status flip is a consequence of turn
// content, not an independent signal, and counting it would re-trigger
// animation handling with no new turns to show.
func Changed(old, new *Session) bool {
	if old == nil || new == nil {
		return true
	}
	if len(old.Turns) != len(new.Turns) {
		return true
	}
	if old.MovesLeft != new.MovesLeft {
		return true
	}
	if !old.Challenger.Equal(new.Challenger) {
		return true
	}
	if !old.Accepter.Equal(new.Accepter) {
		return true
	}
	return false
}
