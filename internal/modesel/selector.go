// Package modesel implements the mode selector (§4.E): circular cycling
// within a cluster and cluster toggling with per-cluster memory.
package modesel

import (
	"vapecore-go/bus"
	"vapecore-go/types"
)

// ModeSlideTopic is where the UI-animation collaborator listens for the
// mode-title slide trigger (§9: decoupled from the control loop via the
// bus rather than a direct call, since the animation is cosmetic and
// out of scope here).
func ModeSlideTopic() bus.Topic { return bus.T("ui", "mode_slide") }

// Selector publishes mode-change notifications on conn; conn may be nil, in
// which case advancing and toggling still mutate state but nothing is
// published (useful in tests that don't care about the UI side-channel).
type Selector struct {
	conn *bus.Connection
}

func New(conn *bus.Connection) *Selector {
	return &Selector{conn: conn}
}

// Advance moves mode to the next member of its own cluster (circular) and
// updates that cluster's remembered mode, so persistence and cluster-toggle
// restoration both see the new selection immediately.
func (sel *Selector) Advance(s *types.SampledState, sp *types.SetPoints) {
	next := types.NextInCluster(s.Mode)
	s.Mode = next
	sel.remember(s, sp, next)
	sel.notify(next)
}

// ToggleCluster swaps the active cluster, restoring the mode last selected
// in the cluster being entered.
func (sel *Selector) ToggleCluster(s *types.SampledState, sp *types.SetPoints) {
	sel.remember(s, sp, s.Mode)
	if s.SettingsView {
		s.Mode = sp.FireMode
		s.SettingsView = false
	} else {
		s.Mode = sp.SettingsMode
		s.SettingsView = true
	}
	sel.notify(s.Mode)
}

func (sel *Selector) remember(s *types.SampledState, sp *types.SetPoints, m types.Mode) {
	if s.SettingsView {
		sp.SettingsMode = m
	} else {
		sp.FireMode = m
	}
}

func (sel *Selector) notify(m types.Mode) {
	if sel.conn == nil {
		return
	}
	sel.conn.Publish(sel.conn.NewMessage(ModeSlideTopic(), m, false))
}
