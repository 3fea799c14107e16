package tiers

import (
	"bytes"
	"context"
	"os"
	"time"

	"github.com/demeter-run/ext-ogmios/internal/registry"
	"github.com/demeter-run/ext-ogmios/internal/utils"
)

// Reloader polls a tiers file for content changes and replaces a Store's
// tier map on each change, invalidating the limiter cache. It deliberately
// compares raw file bytes instead of relying on inotify/fsnotify, since
// bind-mounted ConfigMaps swap the file via a symlink rename that OS file
// watchers sometimes miss.
type Reloader struct {
	Path         string
	PollInterval time.Duration
	Store        *Store
	Limiters     registry.Invalidator
	Log          utils.Logger

	last []byte
}

// Start loads the file once synchronously, then polls until ctx is done.
func (r *Reloader) Start(ctx context.Context) error {
	if r.PollInterval <= 0 {
		r.PollInterval = 2 * time.Second
	}

	if err := r.reload(); err != nil {
		return err
	}

	ticker := time.NewTicker(r.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			raw, err := os.ReadFile(r.Path)
			if err != nil {
				r.Log.Error(err, "tiers: failed to read tiers file, keeping previous map")
				continue
			}
			if bytes.Equal(raw, r.last) {
				continue
			}
			if err := r.applyContent(raw); err != nil {
				r.Log.Error(err, "tiers: failed to reload tiers file, keeping previous map")
				continue
			}
		}
	}
}

func (r *Reloader) reload() error {
	raw, err := os.ReadFile(r.Path)
	if err != nil {
		return err
	}
	return r.applyContent(raw)
}

func (r *Reloader) applyContent(raw []byte) error {
	next, err := parse(raw)
	if err != nil {
		return err
	}
	r.Store.Replace(next)
	r.Limiters.InvalidateAll()
	r.last = raw
	r.Log.Info("tiers reloaded", "count", len(next))
	return nil
}
