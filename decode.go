package idrive

import "time"

// widgetRule binds one payload byte value to one widget sub-state. A byte
// region activates at most one rule because every match value within a
// region is distinct; any unmatched value reads as released.
type widgetRule struct {
	index   int // payload byte index
	match   byte
	widget  Widget
	gesture Gesture
}

// widgetRules is the controller frame layout. Table order is evaluation
// order and therefore event emission order. Bytes 0 and 1 carry the
// sequence counter and encoder sample, byte 2 is unused.
var widgetRules = []widgetRule{
	{3, 0x01, KnobCenter, Press},
	{3, 0xA0, KnobLeft, Press},
	{3, 0x10, KnobUp, Press},
	{3, 0x40, KnobRight, Press},
	{3, 0x70, KnobDown, Press},

	{4, 0x20, ButtonBack, Press},
	{4, 0x80, ButtonBack, Touch},
	{4, 0x04, ButtonHome, Press},
	{4, 0x10, ButtonHome, Touch},

	{5, 0x08, ButtonCom, Press},
	{5, 0x20, ButtonCom, Touch},
	{5, 0x01, ButtonOption, Press},
	{5, 0x04, ButtonOption, Touch},

	{6, 0xC1, ButtonMedia, Press},
	{6, 0xC4, ButtonMedia, Touch},
	{6, 0xC8, ButtonNav, Press},
	{6, 0xE0, ButtonNav, Touch},

	{7, 0xC1, ButtonMap, Press},
	{7, 0xC4, ButtonMap, Touch},
	{7, 0xC8, ButtonGlobe, Press},
	{7, 0xE0, ButtonGlobe, Touch},
}

// Decode interprets one combined controller payload. It builds the new
// snapshot in full, diffs it against the current one, emits an Event per
// changed sub-state plus at most one rotation event, then adopts the new
// snapshot. Feeding the same payload twice therefore yields no events on
// the second call.
func (s *State) Decode(data [8]byte, now time.Time) []Event {
	next := s.current
	next.Pressed = [NumWidgets]bool{}
	next.Touched = [NumWidgets]bool{}
	for _, r := range widgetRules {
		if data[r.index] == r.match {
			*next.flag(r.widget, r.gesture) = true
		}
	}
	dir, rotated := trackRotation(&next, data[0], data[1])

	var events []Event
	for _, r := range widgetRules {
		was := s.current.Active(r.widget, r.gesture)
		is := next.Active(r.widget, r.gesture)
		if was != is {
			events = append(events, Event{
				Kind:    EventWidget,
				Time:    now,
				Widget:  r.widget,
				Gesture: r.gesture,
				Old:     was,
				New:     is,
			})
		}
	}
	if rotated {
		events = append(events, Event{
			Kind:      EventRotate,
			Time:      now,
			Direction: dir,
			Step:      next.Step,
		})
	}

	s.previous = s.current
	s.current = next
	return events
}
