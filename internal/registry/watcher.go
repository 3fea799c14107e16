package registry

import (
	"context"
	"fmt"

	"github.com/demeter-run/ext-ogmios/internal/utils"
)

// EventKind discriminates the variants of Event.
type EventKind int

const (
	// EventSnapshot replaces the entire registry, e.g. on (re)connect.
	EventSnapshot EventKind = iota
	// EventApplied upserts a single consumer.
	EventApplied
	// EventDeleted removes a single consumer.
	EventDeleted
	// EventError signals a fatal stream error.
	EventError
)

// Event is one message from a port watch stream.
type Event struct {
	Kind     EventKind
	Snapshot []Consumer
	Consumer Consumer
	HashKey  string
	Err      error
}

// Invalidator clears rate-limiter state keyed by consumer hash. Implemented
// by internal/limiter.Cache; declared here to avoid an import cycle.
type Invalidator interface {
	InvalidateAll()
	Invalidate(hashKey string)
}

// Run drains events into the registry until the channel closes or a fatal
// error event arrives, at which point it returns the error so the caller
// (main) can exit and let the process supervisor reconnect with a fresh
// watch.
func Run(ctx context.Context, registry *Registry, limiters Invalidator, events <-chan Event, log utils.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return fmt.Errorf("registry: watch stream closed")
			}
			switch ev.Kind {
			case EventSnapshot:
				registry.Snapshot(ev.Snapshot)
				limiters.InvalidateAll()
				log.Info("registry snapshot applied", "consumers", len(ev.Snapshot))
			case EventApplied:
				hashKey := ev.Consumer.HashKey()
				limiters.Invalidate(hashKey)
				registry.Apply(ev.Consumer)
				log.V(1).Info("consumer applied", "hashKey", hashKey)
			case EventDeleted:
				registry.Delete(ev.HashKey)
				limiters.Invalidate(ev.HashKey)
				log.V(1).Info("consumer deleted", "hashKey", ev.HashKey)
			case EventError:
				return fmt.Errorf("registry: watch stream error: %w", ev.Err)
			}
		}
	}
}
