package session

import "github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/battle"

// animationWindowCap bounds how many new turns are animated per action.
// The usual pairing is "player acts, opponent auto-responds", so two
// covers the common case while keeping playback latency bounded.
const animationWindowCap = 2

// SelectWindow splits the turns beyond seen into two ordered groups: fold
// holds turns applied to the mirror silently, window holds the suffix
// (at most two turns) that gets animated. Both preserve history order;
// window is always a suffix of turns.
func SelectWindow(seen int, turns []battle.Turn) (fold, window []battle.Turn) {
	if seen < 0 {
		seen = 0
	}
	if seen >= len(turns) {
		return nil, nil
	}
	fresh := turns[seen:]
	if len(fresh) <= animationWindowCap {
		return nil, fresh
	}
	cut := len(fresh) - animationWindowCap
	return fresh[:cut], fresh[cut:]
}
