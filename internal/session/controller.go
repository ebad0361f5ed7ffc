package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/battle"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/constants"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/dedupe"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/logging"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/resolver"
	"github.com/jonboulle/clockwork"
)

var (
	ErrActionLocked  = errors.New("action locked; previous action still playing")
	ErrNoSession     = errors.New("no active session")
	ErrSessionEnded  = errors.New("session has ended")
	ErrSessionActive = errors.New("session is still active")
	ErrClosed        = errors.New("controller closed")
)

// Resolver is the subset of the resolver client the controller drives.
type Resolver interface {
	FetchActiveSession(ctx context.Context, participantID string) (*battle.Session, error)
	SubmitMove(ctx context.Context, participantID, sessionID, move string) (*resolver.MoveResult, error)
	EndSession(ctx context.Context, participantID, sessionID string) error
}

// Animator sequences turn playback. Every call blocks until the sequence
// finishes (or ctx is done); the controller relies on that to keep the
// mirror and the screen in lockstep.
type Animator interface {
	PlayWindow(ctx context.Context, turns []battle.Turn, apply func(battle.Turn)) error
	PlayBattleOver(ctx context.Context) error
	PlayRoundComplete(ctx context.Context) error
}

// Recorder archives concluded battles. Optional; failures are logged and
// never affect session state.
type Recorder interface {
	RecordOutcome(participantID string, s *battle.Session, outcome battle.Outcome) error
}

// State is the controller's externally visible state, exposed as a value
// so tests and the presentation layer can assert on it directly.
type State struct {
	// Loading is true only until the first successful poll.
	Loading bool
	// Locked is true while an action is submitted and its animation
	// window is playing. It is the sole mutual-exclusion mechanism.
	Locked bool
	// Redirect is set once the resolver reports no session: the signal
	// to leave the battle view. No further polls follow.
	Redirect bool
	// Seen counts the turns already folded into the mirror.
	Seen    int
	Session *battle.Session
}

// Options configures a Controller.
type Options struct {
	ParticipantID string
	// LocalRole is the role the local participant plays. Defaults to
	// challenger, which is the role the resolver assigns to whoever
	// opened the battle.
	LocalRole    battle.Role
	Resolver     Resolver
	Animator     Animator
	Recorder     Recorder
	Clock        clockwork.Clock
	PollInterval time.Duration
}

// Controller orchestrates polling, action submission, input gating and
// animation sequencing for one participant's battle session. It is the
// only component with side effects; everything it composes is pure.
type Controller struct {
	participant  string
	role         battle.Role
	rsv          Resolver
	anim         Animator
	rec          Recorder
	clock        clockwork.Clock
	pollInterval time.Duration

	mu     sync.Mutex
	closed bool
	state  State
}

// New builds a controller. Resolver and Animator are required.
func New(opts Options) *Controller {
	if opts.LocalRole == "" {
		opts.LocalRole = battle.RoleChallenger
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = constants.DefaultPollInterval
	}
	return &Controller{
		participant:  opts.ParticipantID,
		role:         opts.LocalRole,
		rsv:          opts.Resolver,
		anim:         opts.Animator,
		rec:          opts.Recorder,
		clock:        opts.Clock,
		pollInterval: opts.PollInterval,
		state:        State{Loading: true},
	}
}

// State returns a snapshot of the controller state. The session is cloned
// so callers can never mutate the mirror.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	st.Session = c.state.Session.Clone()
	return st
}

// Close marks the controller as torn down. Subsequent state writes are
// suppressed, so a playback or poll finishing late cannot touch a
// disposed view.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Run polls for the active session until ctx is done or the resolver
// reports no session. Polls are skipped while an action is in flight.
func (c *Controller) Run(ctx context.Context) {
	ticker := c.clock.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
		}
		st := c.State()
		if st.Redirect {
			return
		}
		if st.Locked {
			continue
		}
		// Poll failures are transient: log, keep the mirror, retry on
		// the next tick.
		_ = c.Refresh(ctx)
		if c.State().Redirect {
			return
		}
	}
}

// Refresh fetches the participant's session and reconciles the mirror.
// Concurrent refreshes for the same participant collapse into one
// resolver call. The mirror is never overwritten while locked, and a
// status of ended never reverts to active.
func (c *Controller) Refresh(ctx context.Context) error {
	if c.isClosed() {
		return ErrClosed
	}
	v, err, _ := dedupe.RefreshGroup.Do(c.participant, func() (interface{}, error) {
		return c.rsv.FetchActiveSession(ctx, c.participant)
	})
	if err != nil {
		logging.Error("session refresh failed", err, logging.Fields{constants.LogFieldParticipant: c.participant})
		return fmt.Errorf("refresh session: %w", err)
	}
	remote, _ := v.(*battle.Session)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.state.Locked {
		return nil
	}
	c.state.Loading = false
	if remote == nil {
		c.state.Session = nil
		c.state.Seen = 0
		c.state.Redirect = true
		logging.Info("no active session", logging.Fields{constants.LogFieldParticipant: c.participant})
		return nil
	}
	if c.state.Session == nil {
		c.adoptLocked(remote)
		return nil
	}
	if !battle.Changed(c.state.Session, remote) {
		return nil
	}
	c.adoptLocked(remote)
	return nil
}

// adoptLocked replaces the mirror with the remote session, classifying
// status from health and keeping ended terminal. Caller holds c.mu.
func (c *Controller) adoptLocked(remote *battle.Session) {
	adopted := remote.Clone()
	adopted.Status = battle.ClassifyStatus(adopted)
	if c.state.Session != nil && c.state.Session.Status == battle.StatusEnded {
		adopted.Status = battle.StatusEnded
	}
	c.state.Session = adopted
	c.state.Seen = len(adopted.Turns)
}

// applyTurn folds one turn into the mirror. Used both for the silent
// fold of pre-window turns and as the animator's per-turn apply hook.
func (c *Controller) applyTurn(t battle.Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.state.Session == nil {
		return
	}
	c.state.Session = ApplyTurn(c.state.Session, t)
	c.state.Seen++
}

// SubmitAction submits one move and plays the resulting turn window. It
// is a no-op returning ErrActionLocked while a previous action is still
// in flight: no network call, no state mutation. On resolver failure the
// lock is released and the mirror is untouched, so the player may retry.
func (c *Controller) SubmitAction(ctx context.Context, move string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state.Locked {
		c.mu.Unlock()
		return ErrActionLocked
	}
	if c.state.Session == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	if c.state.Session.Status == battle.StatusEnded {
		c.mu.Unlock()
		return ErrSessionEnded
	}
	c.state.Locked = true
	sessionID := c.state.Session.ID
	seen := c.state.Seen
	prevMoves := c.state.Session.MovesLeft
	c.mu.Unlock()

	res, err := c.rsv.SubmitMove(ctx, c.participant, sessionID, move)
	if err != nil {
		c.unlock()
		return fmt.Errorf("submit move: %w", err)
	}
	if res == nil || res.Session == nil {
		// Unexpected shape: treated as a submit failure, never
		// partially animated.
		c.unlock()
		return resolver.ErrMalformedResponse
	}
	remote := res.Session

	fold, window := SelectWindow(seen, remote.Turns)
	for _, t := range fold {
		c.applyTurn(t)
	}
	logging.Debug("playing turn window", logging.Fields{
		constants.LogFieldBattleID: sessionID,
		constants.LogFieldMove:     move,
		constants.LogFieldTurns:    len(window),
		constants.LogFieldSeen:     seen,
	})
	if err := c.anim.PlayWindow(ctx, window, c.applyTurn); err != nil {
		c.unlock()
		return fmt.Errorf("play window: %w", err)
	}

	if res.Completed {
		c.finalize(remote, res.Result)
		// Terminal announcement; the lock is never released for this
		// session.
		if err := c.anim.PlayBattleOver(ctx); err != nil {
			return fmt.Errorf("play battle over: %w", err)
		}
		return nil
	}

	// A submit normally consumes one move; a counter that did not shrink
	// means the resolver reset it for a fresh round (shields restored).
	roundComplete := remote.MovesLeft >= prevMoves
	c.adopt(remote)
	if roundComplete {
		if err := c.anim.PlayRoundComplete(ctx); err != nil {
			c.unlock()
			return fmt.Errorf("play round complete: %w", err)
		}
	}
	c.unlock()
	return nil
}

// adopt replaces the mirror with the remote session outside SubmitAction's
// critical section.
func (c *Controller) adopt(remote *battle.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.adoptLocked(remote)
}

// finalize adopts the completed session as ended and records the outcome.
// The lock stays held: a concluded session accepts no further actions.
func (c *Controller) finalize(remote *battle.Session, result string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.adoptLocked(remote)
	c.state.Session.Status = battle.StatusEnded
	ended := c.state.Session.Clone()
	c.mu.Unlock()

	outcome := battle.OutcomeFor(ended, c.role)
	if result != "" {
		if battle.Role(result) == c.role {
			outcome = battle.OutcomeWin
		} else {
			outcome = battle.OutcomeLoss
		}
	}
	logging.Info("battle concluded", logging.Fields{
		constants.LogFieldBattleID: ended.ID,
		constants.LogFieldOutcome:  string(outcome),
	})
	if c.rec != nil {
		if err := c.rec.RecordOutcome(c.participant, ended, outcome); err != nil {
			logging.Error("failed to archive battle outcome", err, logging.Fields{constants.LogFieldBattleID: ended.ID})
		}
	}
}

// ExitEndedSession asks the resolver to clear a concluded battle and, on
// success, drops the local mirror and signals navigation away.
func (c *Controller) ExitEndedSession(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Session == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	if c.state.Session.Status != battle.StatusEnded {
		c.mu.Unlock()
		return ErrSessionActive
	}
	sessionID := c.state.Session.ID
	c.mu.Unlock()

	if err := c.rsv.EndSession(ctx, c.participant, sessionID); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.state.Session = nil
	c.state.Seen = 0
	c.state.Locked = false
	c.state.Redirect = true
	return nil
}

func (c *Controller) unlock() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.state.Locked = false
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
