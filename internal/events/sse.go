package events

import "github.com/kelindar/event"

// SubscribeToChannel bridges callback-based subscriptions to channels for
// SSE handlers that run a channel-based select loop. Events are dropped
// when the channel is full rather than blocking the dispatcher.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}
