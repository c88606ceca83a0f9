// Package watch turns point-in-time queries into continuously updating
// snapshot streams. Writers publish on a topic after every committed change;
// each stream re-runs its query and delivers the newest result.
package watch

import (
	"context"
	"sync"

	"github.com/manav03panchal/dailytracker/internal/logging"
)

// Topic names a class of data that writers announce changes for.
type Topic string

// Notifier fans change signals out to subscribers. The zero value is not
// usable; create one with NewNotifier.
type Notifier struct {
	mu     sync.Mutex
	subs   map[Topic]map[chan struct{}]struct{}
	closed bool
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[Topic]map[chan struct{}]struct{})}
}

// Subscribe registers interest in the given topics. The returned channel
// receives a coalesced signal after every Publish on any of them. Call the
// cancel function to unsubscribe.
func (n *Notifier) Subscribe(topics ...Topic) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	n.mu.Lock()
	if !n.closed {
		for _, topic := range topics {
			set, ok := n.subs[topic]
			if !ok {
				set = make(map[chan struct{}]struct{})
				n.subs[topic] = set
			}
			set[ch] = struct{}{}
		}
	}
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			for _, topic := range topics {
				delete(n.subs[topic], ch)
			}
		})
	}
	return ch, cancel
}

// Publish signals every subscriber of the given topics. It never blocks:
// a subscriber that has not consumed its previous signal keeps only one.
func (n *Notifier) Publish(topics ...Topic) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, topic := range topics {
		for ch := range n.subs[topic] {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}
}

// Close drops all subscriptions. Streams stop receiving change signals and
// end when their context is cancelled.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.subs = make(map[Topic]map[chan struct{}]struct{})
}

// Stream runs query once immediately and again after every change on topics,
// delivering results on the returned channel until ctx is done. Delivery is
// latest-wins: a slow reader skips intermediate snapshots but always sees the
// newest one. Query errors are logged and the stream stays open.
func Stream[T any](ctx context.Context, n *Notifier, query func(context.Context) (T, error), topics ...Topic) <-chan T {
	out := make(chan T, 1)
	changes, cancel := n.Subscribe(topics...)

	go func() {
		defer logging.RecoverPanic("watch.Stream")
		defer close(out)
		defer cancel()

		for {
			result, err := query(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logging.WarnContext(ctx, "watch query failed",
					logging.KeyOperation, "watch", logging.KeyError, err)
			} else {
				deliver(out, result)
			}

			select {
			case <-ctx.Done():
				return
			case <-changes:
			}
		}
	}()

	return out
}

// deliver replaces any unread value in out with v. Only the producing
// goroutine sends on out, so the send after draining cannot block.
func deliver[T any](out chan T, v T) {
	select {
	case <-out:
	default:
	}
	out <- v
}
