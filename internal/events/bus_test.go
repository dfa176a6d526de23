package events

import (
	"sync"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestPublishSubscribe(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	var got []StreamStartedEvent
	unsub := bus.Subscribe(func(e StreamStartedEvent) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})
	defer unsub()

	bus.Publish(StreamStartedEvent{Path: "/dev/bus/usb/001/004"})

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	})

	mu.Lock()
	defer mu.Unlock()
	if got[0].Path != "/dev/bus/usb/001/004" {
		t.Errorf("path = %q", got[0].Path)
	}
}

func TestSubscriberReceivesOnlyItsType(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	var attached, detached int
	defer bus.Subscribe(func(e DeviceAttachedEvent) {
		mu.Lock()
		attached++
		mu.Unlock()
	})()
	defer bus.Subscribe(func(e DeviceDetachedEvent) {
		mu.Lock()
		detached++
		mu.Unlock()
	})()

	bus.Publish(DeviceAttachedEvent{Path: "/dev/bus/usb/001/004"})
	bus.Publish(DeviceAttachedEvent{Path: "/dev/bus/usb/001/005"})
	bus.Publish(DeviceDetachedEvent{Path: "/dev/bus/usb/001/004"})

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return attached == 2 && detached == 1
	})
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	var count int
	unsub := bus.Subscribe(func(e FrameDroppedEvent) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	bus.Publish(FrameDroppedEvent{TotalDropped: 1})
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	})

	unsub()
	bus.Publish(FrameDroppedEvent{TotalDropped: 2})

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Errorf("received %d events after unsubscribe, want 1", count)
	}
}

func TestSubscribeUnknownHandlerType(t *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(s string) {})
	unsub() // must be a safe no-op
}

func TestSubscribeToChannel(t *testing.T) {
	bus := New()
	ch := make(chan any, 4)
	unsub := SubscribeToChannel[StreamStoppedEvent](bus, ch)
	defer unsub()

	bus.Publish(StreamStoppedEvent{Path: "/dev/bus/usb/001/004", Captured: 10})

	select {
	case ev := <-ch:
		stopped, ok := ev.(StreamStoppedEvent)
		if !ok || stopped.Captured != 10 {
			t.Errorf("got %#v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered to channel")
	}
}
