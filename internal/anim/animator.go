package anim

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/battle"
	"github.com/jonboulle/clockwork"
)

// Phase is one timed sub-step of a turn's playback.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseApproach Phase = "approach"
	PhaseStrike   Phase = "strike"
	PhaseRetreat  Phase = "retreat"
	// Supportive turns play a rise/shift/settle sequence at the same
	// cadence instead of the lunge.
	PhaseRise   Phase = "rise"
	PhaseShift  Phase = "shift"
	PhaseSettle Phase = "settle"
)

// Overlay is a full-screen announcement shown between or after turns.
type Overlay string

const (
	OverlayNone          Overlay = ""
	OverlayBattleOver    Overlay = "battle_over"
	OverlayRoundComplete Overlay = "round_complete"
	OverlayShieldRestore Overlay = "shield_restore"
)

// Fixed playback durations. Tests substitute a fake clock rather than
// shrinking these.
const (
	PhaseDuration         = 1000 * time.Millisecond
	TurnSettleDuration    = 500 * time.Millisecond
	BattleOverDuration    = 3000 * time.Millisecond
	RoundCompleteDuration = 3000 * time.Millisecond
	ShieldRestoreDuration = 2000 * time.Millisecond
)

// ErrBusy is returned when playback is requested while a previous
// sequence is still running. The animator is not preemptible mid-turn.
var ErrBusy = errors.New("animation already in progress")

// Observer receives playback events so a presentation layer can draw
// them. All callbacks run on the animator's goroutine, strictly in
// sequence; implementations must not block.
type Observer interface {
	PhaseStarted(turn battle.Turn, phase Phase)
	TurnFinished(turn battle.Turn)
	OverlayShown(o Overlay)
	OverlayCleared(o Overlay)
}

// NopObserver discards all playback events.
type NopObserver struct{}

func (NopObserver) PhaseStarted(battle.Turn, Phase) {}
func (NopObserver) TurnFinished(battle.Turn)        {}
func (NopObserver) OverlayShown(Overlay)            {}
func (NopObserver) OverlayCleared(Overlay)          {}

// Animator plays turn windows one phase at a time. Exactly one sequence
// runs at once; each phase completes only when its timer fires, so
// playback can never outrun or lag the applied state.
type Animator struct {
	clock clockwork.Clock
	obs   Observer

	mu      sync.Mutex
	playing bool
}

// New builds an animator driven by the given clock. A nil observer is
// replaced with NopObserver.
func New(clock clockwork.Clock, obs Observer) *Animator {
	if obs == nil {
		obs = NopObserver{}
	}
	return &Animator{clock: clock, obs: obs}
}

func (a *Animator) begin() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.playing {
		return ErrBusy
	}
	a.playing = true
	return nil
}

func (a *Animator) end() {
	a.mu.Lock()
	a.playing = false
	a.mu.Unlock()
}

// wait blocks until d elapses on the animator's clock or ctx is done.
func (a *Animator) wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-a.clock.After(d):
		return nil
	}
}

// phasesFor returns the phase list for one turn. Offensive turns lunge;
// supportive turns play the rise/shift/settle sequence.
func phasesFor(t battle.Turn) []Phase {
	if t.Offensive() {
		return []Phase{PhaseApproach, PhaseStrike, PhaseRetreat}
	}
	return []Phase{PhaseRise, PhaseShift, PhaseSettle}
}

// PlayWindow plays the selected turns strictly one at a time. After a
// turn's phase sequence completes, apply is invoked with that turn (the
// point at which the mirror folds the turn in), then the post-turn settle
// delay runs before the next turn begins.
func (a *Animator) PlayWindow(ctx context.Context, turns []battle.Turn, apply func(battle.Turn)) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.end()

	for _, turn := range turns {
		for _, phase := range phasesFor(turn) {
			a.obs.PhaseStarted(turn, phase)
			if err := a.wait(ctx, PhaseDuration); err != nil {
				return err
			}
		}
		if apply != nil {
			apply(turn)
		}
		a.obs.TurnFinished(turn)
		if err := a.wait(ctx, TurnSettleDuration); err != nil {
			return err
		}
	}
	return nil
}

// PlayBattleOver shows the terminal announcement overlay for its fixed
// duration, then clears it. The session stays ended and locked; this is
// the last thing the animator ever plays for a session.
func (a *Animator) PlayBattleOver(ctx context.Context) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.end()
	return a.overlay(ctx, OverlayBattleOver, BattleOverDuration)
}

// PlayRoundComplete shows the round-complete overlay, then the
// shield-restoration overlay. Input unlocks only after both clear.
func (a *Animator) PlayRoundComplete(ctx context.Context) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.end()
	if err := a.overlay(ctx, OverlayRoundComplete, RoundCompleteDuration); err != nil {
		return err
	}
	return a.overlay(ctx, OverlayShieldRestore, ShieldRestoreDuration)
}

func (a *Animator) overlay(ctx context.Context, o Overlay, d time.Duration) error {
	a.obs.OverlayShown(o)
	if err := a.wait(ctx, d); err != nil {
		return err
	}
	a.obs.OverlayCleared(o)
	return nil
}
