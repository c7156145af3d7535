package idrive

// Widget identifies one logical input on the controller: a five-way knob
// direction or a physical button. Knob directions only press; buttons carry
// independent pressed and touched sub-states.
type Widget uint8

// Declaration order matches the order widgets are evaluated within a frame,
// which is also the order their events are emitted.
const (
	KnobCenter Widget = iota
	KnobLeft
	KnobUp
	KnobRight
	KnobDown
	ButtonBack
	ButtonHome
	ButtonCom
	ButtonOption
	ButtonMedia
	ButtonNav
	ButtonMap
	ButtonGlobe

	numWidgets
)

// NumWidgets is the number of distinct widgets on the controller.
const NumWidgets = int(numWidgets)

var widgetNames = [NumWidgets]string{
	KnobCenter:   "KNOB CENTER",
	KnobLeft:     "KNOB LEFT",
	KnobUp:       "KNOB UP",
	KnobRight:    "KNOB RIGHT",
	KnobDown:     "KNOB DOWN",
	ButtonBack:   "BACK",
	ButtonHome:   "HOME",
	ButtonCom:    "COM",
	ButtonOption: "OPTION",
	ButtonMedia:  "MEDIA",
	ButtonNav:    "NAV",
	ButtonMap:    "MAP",
	ButtonGlobe:  "GLOBE",
}

func (w Widget) String() string {
	if int(w) < len(widgetNames) {
		return widgetNames[w]
	}
	return "WIDGET?"
}

// IsKnob reports whether the widget is one of the five knob directions.
func (w Widget) IsKnob() bool {
	return w <= KnobDown
}

// Gesture distinguishes the two sub-states a button reports. A full press
// registers as Press; a finger resting on the button registers as Touch.
type Gesture uint8

const (
	Press Gesture = iota
	Touch
)

func (g Gesture) String() string {
	if g == Touch {
		return "TOUCH"
	}
	return "PRESS"
}

// Direction is the sense of a rotation step.
type Direction int8

const (
	CounterClockwise Direction = -1
	None             Direction = 0
	Clockwise        Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Clockwise:
		return "CW"
	case CounterClockwise:
		return "CCW"
	default:
		return "NONE"
	}
}
