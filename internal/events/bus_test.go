package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/events"
)

func TestBus_Publish(t *testing.T) {
	t.Run("NoSubscribers", func(t *testing.T) {
		bus := events.NewBus(1)
		assert.NotPanics(t, func() {
			bus.Publish(context.Background(), events.New(events.TransactionCreated, nil))
		})
	})

	t.Run("DeliversToEverySubscriber", func(t *testing.T) {
		bus := events.NewBus(4)

		a, cancelA := bus.Subscribe()
		defer cancelA()

		b, cancelB := bus.Subscribe()
		defer cancelB()

		bus.Publish(context.Background(), events.New(events.GroupCreated, "g"))

		for _, ch := range []<-chan events.Event{a, b} {
			select {
			case e := <-ch:
				assert.Equal(t, events.GroupCreated, e.Name)
				assert.Equal(t, "g", e.Data)
			case <-time.After(time.Second):
				t.Fatal("event not delivered")
			}
		}
	})

	t.Run("SlowSubscriberDoesNotBlock", func(t *testing.T) {
		bus := events.NewBus(1)

		var dropped []string
		bus.OnDrop(func(name string) { dropped = append(dropped, name) })

		_, cancel := bus.Subscribe()
		defer cancel()

		done := make(chan struct{})
		go func() {
			for range 5 {
				bus.Publish(context.Background(), events.New(events.TransactionUpdated, nil))
			}
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("publish blocked on a full subscriber")
		}

		assert.Len(t, dropped, 4)
	})

	t.Run("CancelUnsubscribes", func(t *testing.T) {
		bus := events.NewBus(1)

		ch, cancel := bus.Subscribe()
		require.Equal(t, 1, bus.Subscribers())

		cancel()
		cancel()

		assert.Equal(t, 0, bus.Subscribers())

		_, open := <-ch
		assert.False(t, open)
	})
}

type recorder struct {
	names []string
}

func (r *recorder) Publish(_ context.Context, e events.Event) {
	r.names = append(r.names, e.Name)
}

func TestMulti_Publish(t *testing.T) {
	a, b := &recorder{}, &recorder{}

	events.Multi{a, events.Nop{}, b}.Publish(context.Background(), events.New(events.InviteCreated, nil))

	assert.Equal(t, []string{events.InviteCreated}, a.names)
	assert.Equal(t, []string{events.InviteCreated}, b.names)
}

type chanPublisher chan events.Event

func (c chanPublisher) Publish(_ context.Context, e events.Event) {
	c <- e
}

func TestRelay(t *testing.T) {
	bus := events.NewBus(4)
	out := make(chanPublisher, 4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- events.Relay(ctx, bus, out) }()

	require.Eventually(t, func() bool { return bus.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	bus.Publish(context.Background(), events.New(events.InviteCreated, "i"))

	select {
	case e := <-out:
		assert.Equal(t, events.InviteCreated, e.Name)
	case <-time.After(time.Second):
		t.Fatal("event not relayed")
	}

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, 0, bus.Subscribers())
}
