// Package broadcast provides a publish/subscribe value that replays its
// latest publication to every new subscriber.
//
// Callbacks run synchronously on the publishing goroutine, in attachment
// order. Publishes are serialized, so a subscriber never sees two values
// interleaved. A callback may read the Value or unsubscribe, but must not
// call Publish or Subscribe on the same Value.
package broadcast

import (
	"context"
	"sync"
	"sync/atomic"
)

// Value holds the latest published value of type T.
type Value[T any] struct {
	// pubMu serializes delivery: Publish and the replay in Subscribe.
	pubMu sync.Mutex

	mu     sync.RWMutex
	latest T
	subs   []*Subscription[T]
}

// Subscription is an attached callback.
type Subscription[T any] struct {
	v      *Value[T]
	fn     func(T)
	closed atomic.Bool
}

// New creates a Value holding initial.
func New[T any](initial T) *Value[T] {
	return &Value[T]{latest: initial}
}

// Value returns the latest published value.
func (v *Value[T]) Value() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.latest
}

// Publish stores x and delivers it to every current subscriber before
// returning.
func (v *Value[T]) Publish(x T) {
	v.pubMu.Lock()
	defer v.pubMu.Unlock()

	v.mu.Lock()
	v.latest = x
	subs := make([]*Subscription[T], len(v.subs))
	copy(subs, v.subs)
	v.mu.Unlock()

	for _, sub := range subs {
		if !sub.closed.Load() {
			sub.fn(x)
		}
	}
}

// Subscribe attaches fn. fn receives the latest value immediately, then
// every later publication until the subscription is cancelled.
func (v *Value[T]) Subscribe(fn func(T)) *Subscription[T] {
	v.pubMu.Lock()
	defer v.pubMu.Unlock()

	sub := &Subscription[T]{v: v, fn: fn}

	v.mu.Lock()
	v.subs = append(v.subs, sub)
	latest := v.latest
	v.mu.Unlock()

	fn(latest)
	return sub
}

// Subscribers returns the number of attached subscriptions.
func (v *Value[T]) Subscribers() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.subs)
}

// Unsubscribe detaches the subscription. Calling it again is a no-op.
func (s *Subscription[T]) Unsubscribe() {
	if s.closed.Swap(true) {
		return
	}

	s.v.mu.Lock()
	defer s.v.mu.Unlock()
	for i, sub := range s.v.subs {
		if sub == s {
			s.v.subs = append(s.v.subs[:i], s.v.subs[i+1:]...)
			break
		}
	}
}

// Watch returns a channel carrying the latest value and every later
// publication. The channel buffers one value; a value not yet received is
// replaced by a newer one. The channel is closed when ctx is done.
func (v *Value[T]) Watch(ctx context.Context) <-chan T {
	out := make(chan T, 1)

	var mu sync.Mutex
	done := false

	sub := v.Subscribe(func(x T) {
		mu.Lock()
		defer mu.Unlock()
		if done {
			return
		}
		select {
		case <-out:
		default:
		}
		out <- x
	})

	go func() {
		<-ctx.Done()
		sub.Unsubscribe()
		mu.Lock()
		done = true
		close(out)
		mu.Unlock()
	}()

	return out
}
