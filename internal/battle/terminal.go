package battle

// Outcome classifies a concluded session from the local participant's
// point of view.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

// ClassifyStatus derives a session's status from combatant health: the
// battle has ended once either side's health reaches zero.
func ClassifyStatus(s *Session) Status {
	if s == nil {
		return StatusEnded
	}
	if s.Challenger.HealthPoints <= 0 || s.Accepter.HealthPoints <= 0 {
		return StatusEnded
	}
	return StatusActive
}

// OutcomeFor reports win or loss for the local role, or OutcomeNone while
// the session is still active. A double knockout counts as a loss.
func OutcomeFor(s *Session, local Role) Outcome {
	if ClassifyStatus(s) != StatusEnded {
		return OutcomeNone
	}
	if s.Combatant(local).HealthPoints <= 0 {
		return OutcomeLoss
	}
	return OutcomeWin
}
