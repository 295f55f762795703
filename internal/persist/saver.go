package persist

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/clock"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/screen"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/tracker"
)

// Saver batches state changes into debounced writes. Call Request after
// every tracker mutation; bursts collapse into one write when the timer
// fires. Runs on the same single task as the tracker.
type Saver struct {
	store    *Store
	screens  screen.Provider
	snapshot func() tracker.Snapshot
	clk      clock.Clock
	debounce time.Duration
	timer    clock.Timer
}

// NewSaver wires a debounced writer around a store.
func NewSaver(store *Store, screens screen.Provider, snapshot func() tracker.Snapshot, clk clock.Clock, debounce time.Duration) *Saver {
	return &Saver{
		store:    store,
		screens:  screens,
		snapshot: snapshot,
		clk:      clk,
		debounce: debounce,
	}
}

// Request schedules a save. A pending save has its deadline pushed back.
func (s *Saver) Request() {
	if s.timer != nil {
		s.timer.Reset(s.debounce)
		return
	}
	s.timer = s.clk.AfterFunc(s.debounce, s.Flush)
}

// Flush writes immediately and cancels any pending debounce.
func (s *Saver) Flush() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	doc := Encode(s.snapshot(), s.screens)
	if err := s.store.Write(doc); err != nil {
		log.Warn().Err(err).Str("path", s.store.Path).Msg("session save failed")
		return
	}
	log.Debug().Str("path", s.store.Path).Msg("session state saved")
}

// RestoreGate tracks the two startup preconditions for emitting pending
// restores: the active layout must be known and the panel geometry must
// have arrived so available areas are accurate. OnReady fires exactly once.
type RestoreGate struct {
	layoutReady bool
	panelsReady bool
	fired       bool

	OnReady func()
}

// LayoutReady marks the layout precondition satisfied.
func (g *RestoreGate) LayoutReady() { g.layoutReady = true; g.check() }

// PanelsReady marks the panel-geometry precondition satisfied.
func (g *RestoreGate) PanelsReady() { g.panelsReady = true; g.check() }

func (g *RestoreGate) check() {
	if g.fired || !g.layoutReady || !g.panelsReady {
		return
	}
	g.fired = true
	if g.OnReady != nil {
		g.OnReady()
	}
}
