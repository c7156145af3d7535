package idrive

// trackRotation folds a frame's sequence counter and encoder sample into
// the snapshot under construction and reports whether a rotation step
// occurred.
//
// A rotation is only considered when the sequence counter moved; the
// counter also bumps for button activity, so an unchanged encoder under a
// changed counter reads as no rotation. The first counted frame only
// establishes the encoder baseline. After that, the encoder delta is
// normalized across the 0x00/0xFF wrap into [-128, 127] and its sign gives
// the direction; the step position moves by exactly one per frame no
// matter how large the delta.
func trackRotation(next *Snapshot, sequence, encoder uint8) (Direction, bool) {
	if sequence == next.Sequence {
		next.Direction = None
		return None, false
	}
	if next.FirstMessage {
		next.FirstMessage = false
		next.Direction = None
		next.Sequence = sequence
		next.Encoder = encoder
		return None, false
	}
	diff := int16(encoder) - int16(next.Encoder)
	if diff > 127 {
		diff -= 256
	} else if diff < -127 {
		diff += 256
	}
	dir := None
	switch {
	case diff > 0:
		dir = Clockwise
	case diff < 0:
		dir = CounterClockwise
	}
	next.Direction = dir
	if dir != None {
		next.Step += int(dir)
	}
	next.Sequence = sequence
	next.Encoder = encoder
	return dir, dir != None
}
