package idrive

import (
	"time"

	"github.com/LeanWasTaken/iDrive/canbus"
)

// SubscribeEvents subscribes to controller traffic via the mux and delivers
// decoded events. The subscription owns the given state: no other caller
// may decode into it while the subscription lives. The returned cancel must
// be called when done; the channel closes on cancel or when the mux closes.
func SubscribeEvents(mux *canbus.Mux, state *State, buffer int) (<-chan Event, func()) {
	frames, cancel := mux.Subscribe(KnownFrames(), buffer)

	router := NewRouter(state)
	out := make(chan Event, buffer)
	go func() {
		defer close(out)
		for f := range frames {
			for _, e := range router.Route(f, time.Now()) {
				out <- e
			}
		}
	}()
	return out, cancel
}
