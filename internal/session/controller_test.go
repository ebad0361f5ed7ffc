package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/anim"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/battle"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/resolver"
	"github.com/jonboulle/clockwork"
)

type fakeResolver struct {
	session     *battle.Session
	fetchErr    error
	submitRes   *resolver.MoveResult
	submitErr   error
	endErr      error
	fetchCalls  int
	submitCalls int
	endCalls    int
}

func (f *fakeResolver) FetchActiveSession(ctx context.Context, participantID string) (*battle.Session, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.session.Clone(), nil
}

func (f *fakeResolver) SubmitMove(ctx context.Context, participantID, sessionID, move string) (*resolver.MoveResult, error) {
	f.submitCalls++
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.submitRes, nil
}

func (f *fakeResolver) EndSession(ctx context.Context, participantID, sessionID string) error {
	f.endCalls++
	return f.endErr
}

// instantAnimator applies the window immediately, recording what played.
type instantAnimator struct {
	windows       [][]battle.Turn
	battleOver    int
	roundComplete int
}

func (a *instantAnimator) PlayWindow(ctx context.Context, turns []battle.Turn, apply func(battle.Turn)) error {
	a.windows = append(a.windows, turns)
	for _, t := range turns {
		if apply != nil {
			apply(t)
		}
	}
	return nil
}

func (a *instantAnimator) PlayBattleOver(ctx context.Context) error {
	a.battleOver++
	return nil
}

func (a *instantAnimator) PlayRoundComplete(ctx context.Context) error {
	a.roundComplete++
	return nil
}

// gateAnimator blocks inside PlayWindow until released, so tests can
// observe the locked state mid-flight.
type gateAnimator struct {
	instantAnimator
	entered chan struct{}
	release chan struct{}
}

func (a *gateAnimator) PlayWindow(ctx context.Context, turns []battle.Turn, apply func(battle.Turn)) error {
	a.entered <- struct{}{}
	<-a.release
	return a.instantAnimator.PlayWindow(ctx, turns, apply)
}

type fakeRecorder struct {
	calls    int
	outcomes []battle.Outcome
}

func (r *fakeRecorder) RecordOutcome(participantID string, s *battle.Session, outcome battle.Outcome) error {
	r.calls++
	r.outcomes = append(r.outcomes, outcome)
	return nil
}

func freshSession() *battle.Session {
	return &battle.Session{
		ID: "b-1",
		Challenger: battle.CombatantSnapshot{
			Attack: 8, Defense: 5, Speed: 6, Shield: 4, HealthPoints: 20,
			Moves: map[string]battle.MoveStats{"fireball": {Count: 2, Damage: 10}},
		},
		Accepter: battle.CombatantSnapshot{
			Attack: 6, Defense: 7, Speed: 4, Shield: 3, HealthPoints: 18,
			Moves: map[string]battle.MoveStats{"bite": {Count: 3, Damage: 6}},
		},
		MovesLeft: 3,
	}
}

// continuationAfterMove builds the resolver's continuation response: one
// new turn where the challenger's fireball dealt 10 health damage.
func continuationAfterMove(base *battle.Session) *resolver.MoveResult {
	remote := base.Clone()
	atk := remote.Challenger.Clone()
	m := atk.Moves["fireball"]
	m.Count--
	atk.Moves["fireball"] = m
	def := remote.Accepter.Clone()
	def.HealthPoints -= 10
	remote.Challenger = atk
	remote.Accepter = def
	remote.MovesLeft = base.MovesLeft - 1
	remote.Turns = append(remote.Turns, battle.Turn{
		Attacker:      battle.RoleChallenger,
		Move:          "fireball",
		HealthDamage:  10,
		AttackerState: atk.Clone(),
		DefenderState: def.Clone(),
	})
	return &resolver.MoveResult{Session: remote}
}

func newTestController(participant string, rsv Resolver, an Animator, rec Recorder) *Controller {
	return New(Options{
		ParticipantID: participant,
		Resolver:      rsv,
		Animator:      an,
		Recorder:      rec,
		Clock:         clockwork.NewFakeClock(),
		PollInterval:  time.Second,
	})
}

func mustRefresh(t *testing.T, c *Controller) {
	t.Helper()
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
}

// Scenario A: one new turn, continuation shape, simulated playback time.
func TestSubmitAction_SingleTurnContinuation(t *testing.T) {
	base := freshSession()
	rsv := &fakeResolver{session: base, submitRes: continuationAfterMove(base)}
	fc := clockwork.NewFakeClock()
	an := anim.New(fc, nil)
	c := New(Options{
		ParticipantID: "scenario-a",
		Resolver:      rsv,
		Animator:      an,
		Clock:         fc,
		PollInterval:  time.Second,
	})
	mustRefresh(t, c)

	errc := make(chan error, 1)
	go func() { errc <- c.SubmitAction(context.Background(), "fireball") }()

	// approach, strike, retreat, then the post-turn settle delay
	steps := []time.Duration{
		anim.PhaseDuration, anim.PhaseDuration, anim.PhaseDuration, anim.TurnSettleDuration,
	}
	for i, d := range steps {
		fc.BlockUntil(1)
		if !c.State().Locked {
			t.Fatalf("step %d: lock released before playback finished", i)
		}
		fc.Advance(d)
	}
	if err := <-errc; err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	st := c.State()
	if st.Locked {
		t.Fatalf("lock must release after a continuation response")
	}
	if st.Session.Status != battle.StatusActive {
		t.Fatalf("status must stay active, got %s", st.Session.Status)
	}
	if st.Session.Accepter.HealthPoints != 8 {
		t.Fatalf("accepter snapshot not updated, hp=%d", st.Session.Accepter.HealthPoints)
	}
	if st.Session.Challenger.Moves["fireball"].Count != 1 {
		t.Fatalf("challenger snapshot not updated from the turn's attacker state")
	}
	if st.Seen != 1 {
		t.Fatalf("expected 1 seen turn, got %d", st.Seen)
	}
}

// Scenario B: completion shape with the defender at zero health.
func TestSubmitAction_Completion(t *testing.T) {
	base := freshSession()
	res := continuationAfterMove(base)
	res.Session.Accepter.HealthPoints = 0
	res.Session.Turns[0].DefenderState.HealthPoints = 0
	res.Session.Turns[0].HealthDamage = 18
	res.Completed = true
	res.Result = string(battle.RoleChallenger)

	rsv := &fakeResolver{session: base, submitRes: res}
	an := &instantAnimator{}
	rec := &fakeRecorder{}
	c := newTestController("scenario-b", rsv, an, rec)
	mustRefresh(t, c)

	if err := c.SubmitAction(context.Background(), "fireball"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	st := c.State()
	if !st.Locked {
		t.Fatalf("lock must never release after battle completion")
	}
	if st.Session.Status != battle.StatusEnded {
		t.Fatalf("expected ended status, got %s", st.Session.Status)
	}
	if len(an.windows) != 1 || len(an.windows[0]) != 1 {
		t.Fatalf("expected exactly the last turn to animate")
	}
	if an.battleOver != 1 {
		t.Fatalf("expected the battle-over overlay to play once, got %d", an.battleOver)
	}
	if rec.calls != 1 || rec.outcomes[0] != battle.OutcomeWin {
		t.Fatalf("expected a recorded win, got %+v", rec.outcomes)
	}

	// A second action against the ended session never reaches the resolver.
	submits := rsv.submitCalls
	if err := c.SubmitAction(context.Background(), "fireball"); !errors.Is(err, ErrActionLocked) {
		t.Fatalf("expected ErrActionLocked, got %v", err)
	}
	if rsv.submitCalls != submits {
		t.Fatalf("locked submit must not call the resolver")
	}
}

// Scenario C: no session for the participant; the poll loop stops.
func TestRun_NoSessionRedirects(t *testing.T) {
	rsv := &fakeResolver{session: nil}
	fc := clockwork.NewFakeClock()
	c := New(Options{
		ParticipantID: "scenario-c",
		Resolver:      rsv,
		Animator:      &instantAnimator{},
		Clock:         fc,
		PollInterval:  time.Second,
	})

	done := make(chan struct{})
	go func() {
		c.Run(context.Background())
		close(done)
	}()
	fc.BlockUntil(1)
	fc.Advance(time.Second)
	<-done

	st := c.State()
	if !st.Redirect {
		t.Fatalf("missing session must signal redirect")
	}
	if st.Session != nil {
		t.Fatalf("mirror must be cleared when no session exists")
	}
	if rsv.fetchCalls != 1 {
		t.Fatalf("expected exactly one poll, got %d", rsv.fetchCalls)
	}
}

// Scenario D: the resolver rejects the submission.
func TestSubmitAction_FailureUnlocksWithoutMutation(t *testing.T) {
	base := freshSession()
	rsv := &fakeResolver{session: base, submitErr: errors.New("network down")}
	an := &instantAnimator{}
	c := newTestController("scenario-d", rsv, an, nil)
	mustRefresh(t, c)
	before := c.State()

	err := c.SubmitAction(context.Background(), "fireball")
	if err == nil {
		t.Fatalf("expected submit error")
	}

	st := c.State()
	if st.Locked {
		t.Fatalf("lock must release on submit failure")
	}
	if battle.Changed(before.Session, st.Session) {
		t.Fatalf("mirror must be untouched on submit failure")
	}
	if len(an.windows) != 0 {
		t.Fatalf("no animation may play on submit failure")
	}
}

func TestSubmitAction_MalformedResponse(t *testing.T) {
	base := freshSession()
	rsv := &fakeResolver{session: base, submitRes: &resolver.MoveResult{}}
	an := &instantAnimator{}
	c := newTestController("malformed", rsv, an, nil)
	mustRefresh(t, c)

	if err := c.SubmitAction(context.Background(), "fireball"); !errors.Is(err, resolver.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if st := c.State(); st.Locked || len(an.windows) != 0 {
		t.Fatalf("malformed response must unlock without animating")
	}
}

func TestSubmitAction_MutualExclusion(t *testing.T) {
	base := freshSession()
	rsv := &fakeResolver{session: base, submitRes: continuationAfterMove(base)}
	an := &gateAnimator{entered: make(chan struct{}), release: make(chan struct{})}
	c := newTestController("mutex", rsv, an, nil)
	mustRefresh(t, c)

	errc := make(chan error, 1)
	go func() { errc <- c.SubmitAction(context.Background(), "fireball") }()
	<-an.entered

	if err := c.SubmitAction(context.Background(), "fireball"); !errors.Is(err, ErrActionLocked) {
		t.Fatalf("expected ErrActionLocked, got %v", err)
	}
	if rsv.submitCalls != 1 {
		t.Fatalf("second submit must not reach the resolver, calls=%d", rsv.submitCalls)
	}

	// Refresh while locked must not overwrite the mirror either.
	rsv.session = freshSession()
	rsv.session.MovesLeft = 99
	mustRefresh(t, c)
	if c.State().Session.MovesLeft == 99 {
		t.Fatalf("refresh must not replace the mirror while locked")
	}

	close(an.release)
	if err := <-errc; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if c.State().Locked {
		t.Fatalf("lock must release once playback completes")
	}
}

func TestSubmitAction_RoundCompleteOverlays(t *testing.T) {
	base := freshSession()
	base.MovesLeft = 1
	res := continuationAfterMove(base)
	// The resolver reset the counter for a fresh round.
	res.Session.MovesLeft = 3
	rsv := &fakeResolver{session: base, submitRes: res}
	an := &instantAnimator{}
	c := newTestController("round-complete", rsv, an, nil)
	mustRefresh(t, c)

	if err := c.SubmitAction(context.Background(), "fireball"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if an.roundComplete != 1 {
		t.Fatalf("expected the round-complete sequence to play once, got %d", an.roundComplete)
	}
	if c.State().Locked {
		t.Fatalf("lock must release after the round-complete sequence")
	}
}

func TestRefresh_EndedIsTerminal(t *testing.T) {
	dead := freshSession()
	dead.Accepter.HealthPoints = 0
	rsv := &fakeResolver{session: dead}
	c := newTestController("terminal", rsv, &instantAnimator{}, nil)
	mustRefresh(t, c)
	if c.State().Session.Status != battle.StatusEnded {
		t.Fatalf("adoption must classify zero health as ended")
	}

	// A later poll showing an active-looking session must not revive it.
	alive := freshSession()
	alive.Turns = append(alive.Turns, battle.Turn{Attacker: battle.RoleChallenger, Move: "fireball"})
	rsv.session = alive
	mustRefresh(t, c)
	if c.State().Session.Status != battle.StatusEnded {
		t.Fatalf("ended status must never revert to active")
	}
}

func TestRefresh_UnchangedSessionKeepsMirror(t *testing.T) {
	base := freshSession()
	rsv := &fakeResolver{session: base}
	c := newTestController("unchanged", rsv, &instantAnimator{}, nil)
	mustRefresh(t, c)
	seen := c.State().Seen

	// Same structural content, different status field only.
	again := base.Clone()
	again.Status = battle.StatusEnded
	rsv.session = again
	mustRefresh(t, c)

	st := c.State()
	if st.Session.Status != battle.StatusActive {
		t.Fatalf("status-only difference must not replace the mirror")
	}
	if st.Seen != seen {
		t.Fatalf("seen count must be stable across no-op refreshes")
	}
}

func TestRefresh_PollFailureKeepsMirror(t *testing.T) {
	base := freshSession()
	rsv := &fakeResolver{session: base}
	c := newTestController("poll-failure", rsv, &instantAnimator{}, nil)
	mustRefresh(t, c)

	rsv.fetchErr = errors.New("resolver unreachable")
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}
	if c.State().Session == nil {
		t.Fatalf("poll failure must retain the previous mirror")
	}
}

func TestExitEndedSession(t *testing.T) {
	base := freshSession()
	res := continuationAfterMove(base)
	res.Session.Accepter.HealthPoints = 0
	res.Completed = true
	res.Result = string(battle.RoleChallenger)
	rsv := &fakeResolver{session: base, submitRes: res}
	c := newTestController("exit", rsv, &instantAnimator{}, nil)
	mustRefresh(t, c)

	if err := c.ExitEndedSession(context.Background()); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("exiting an active session must fail, got %v", err)
	}

	if err := c.SubmitAction(context.Background(), "fireball"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if err := c.ExitEndedSession(context.Background()); err != nil {
		t.Fatalf("exit failed: %v", err)
	}
	st := c.State()
	if st.Session != nil || !st.Redirect {
		t.Fatalf("exit must clear the mirror and signal redirect")
	}
	if rsv.endCalls != 1 {
		t.Fatalf("expected one end-session call, got %d", rsv.endCalls)
	}
}

func TestClose_SuppressesLateWrites(t *testing.T) {
	base := freshSession()
	rsv := &fakeResolver{session: base, submitRes: continuationAfterMove(base)}
	an := &gateAnimator{entered: make(chan struct{}), release: make(chan struct{})}
	c := newTestController("closed", rsv, an, nil)
	mustRefresh(t, c)

	errc := make(chan error, 1)
	go func() { errc <- c.SubmitAction(context.Background(), "fireball") }()
	<-an.entered
	c.Close()
	close(an.release)
	<-errc

	// The late apply must not have touched the disposed state.
	if st := c.State(); st.Seen != 0 {
		t.Fatalf("writes after Close must be suppressed, seen=%d", st.Seen)
	}
}
