package facade

import (
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/autotile"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
)

// EventKind tags outbound notifications.
type EventKind string

const (
	EventZoneChanged              EventKind = "zoneChanged"
	EventFloatingChanged          EventKind = "floatingChanged"
	EventPendingRestoresAvailable EventKind = "pendingRestoresAvailable"
	EventAutoTileGeometries       EventKind = "autoTileGeometriesChanged"
	EventNavigationFeedback       EventKind = "navigationFeedback"
	EventMoveWindowToZone         EventKind = "moveWindowToZoneRequested"
)

// Event is the single notification type every consumer pattern-matches on.
// Only the fields relevant to the Kind are populated.
type Event struct {
	Kind        EventKind             `json:"kind"`
	WindowId    string                `json:"windowId,omitempty"`
	ZoneId      string                `json:"zoneId,omitempty"`
	ZoneIds     []string              `json:"zoneIds,omitempty"`
	Screen      string                `json:"screen,omitempty"`
	Floating    bool                  `json:"floating,omitempty"`
	Rect        *geometry.Rect        `json:"rect,omitempty"`
	Assignments []autotile.Assignment `json:"assignments,omitempty"`
	Success     bool                  `json:"success,omitempty"`
	Action      string                `json:"action,omitempty"`
	Reason      string                `json:"reason,omitempty"`
}

// Subscribe registers an event consumer. The returned cancel function
// closes the channel and drops the subscription. Slow consumers lose
// events instead of blocking the core.
func (f *Facade) Subscribe() (<-chan Event, func()) {
	f.subMu.Lock()
	defer f.subMu.Unlock()
	ch := make(chan Event, 64)
	f.nextSub++
	id := f.nextSub
	f.subs[id] = ch
	cancel := func() {
		f.subMu.Lock()
		defer f.subMu.Unlock()
		if c, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func (f *Facade) publish(ev Event) {
	f.subMu.Lock()
	defer f.subMu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (f *Facade) feedback(success bool, action, reason, windowId, screenName string) {
	f.publish(Event{
		Kind:     EventNavigationFeedback,
		Success:  success,
		Action:   action,
		Reason:   reason,
		WindowId: windowId,
		Screen:   screenName,
	})
}
