package registry

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/watch"
	"sigs.k8s.io/controller-runtime/pkg/client"

	demeterv1alpha1 "github.com/demeter-run/ext-ogmios/api/v1alpha1"
)

// ToConsumer projects a Port custom resource into the proxy's Consumer view.
// Returns false when the port has no status yet (a later event will carry it).
func ToConsumer(port *demeterv1alpha1.OgmiosPort) (Consumer, bool) {
	if !port.HasToken() {
		return Consumer{}, false
	}
	return Consumer{
		Namespace: port.Namespace,
		PortName:  port.Name,
		Tier:      port.Spec.ThroughputTier,
		Key:       port.Status.AuthToken,
		Network:   string(port.Spec.Network),
		Version:   int(port.Spec.Version),
	}, true
}

// hashKeyForDeleted derives the hash key a deleted port would have had, so
// the registry/limiter cache can drop it without needing a live status.
func hashKeyForDeleted(port *demeterv1alpha1.OgmiosPort) string {
	return Consumer{
		Network: string(port.Spec.Network),
		Version: int(port.Spec.Version),
		Key:     port.Status.AuthToken,
	}.HashKey()
}

// WatchPorts lists then watches OgmiosPort objects across a namespace (or
// cluster-wide when namespace is empty), translating Kubernetes watch
// events into registry Events on the returned channel. The channel is
// closed when ctx is cancelled.
func WatchPorts(ctx context.Context, c client.WithWatch, namespace string) (<-chan Event, error) {
	out := make(chan Event, 64)

	list := &demeterv1alpha1.OgmiosPortList{}
	if err := c.List(ctx, list, client.InNamespace(namespace)); err != nil {
		return nil, fmt.Errorf("registry: initial list failed: %w", err)
	}

	consumers := make([]Consumer, 0, len(list.Items))
	for i := range list.Items {
		if consumer, ok := ToConsumer(&list.Items[i]); ok {
			consumers = append(consumers, consumer)
		}
	}

	watcher, err := c.Watch(ctx, &demeterv1alpha1.OgmiosPortList{}, client.InNamespace(namespace))
	if err != nil {
		return nil, fmt.Errorf("registry: watch failed: %w", err)
	}

	go func() {
		defer close(out)
		defer watcher.Stop()

		out <- Event{Kind: EventSnapshot, Snapshot: consumers}

		for {
			select {
			case <-ctx.Done():
				return
			case wev, ok := <-watcher.ResultChan():
				if !ok {
					out <- Event{Kind: EventError, Err: fmt.Errorf("watch channel closed")}
					return
				}
				if !forwardWatchEvent(out, wev) {
					return
				}
			}
		}
	}()

	return out, nil
}

func forwardWatchEvent(out chan<- Event, wev watch.Event) bool {
	switch wev.Type {
	case watch.Added, watch.Modified:
		port, ok := wev.Object.(*demeterv1alpha1.OgmiosPort)
		if !ok {
			return true
		}
		if consumer, ok := ToConsumer(port); ok {
			out <- Event{Kind: EventApplied, Consumer: consumer}
		}
		return true
	case watch.Deleted:
		port, ok := wev.Object.(*demeterv1alpha1.OgmiosPort)
		if !ok {
			return true
		}
		out <- Event{Kind: EventDeleted, HashKey: hashKeyForDeleted(port)}
		return true
	case watch.Error:
		out <- Event{Kind: EventError, Err: fmt.Errorf("watch error event: %v", wev.Object)}
		return false
	default:
		return true
	}
}
