// Package watch detects external writes to the store file and turns
// them into bus events, keeping tabs in other processes in sync when
// someone edits or replaces the data file out of band.
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/nexushealth/nexus/internal/platform/docstore"
	"github.com/nexushealth/nexus/internal/platform/events"
)

const debounce = 100 * time.Millisecond

// Watcher publishes a document-wide change event when the store file
// is modified by someone other than this process.
type Watcher struct {
	store  *docstore.FileStore
	bus    *events.Bus
	logger zerolog.Logger

	fw   *fsnotify.Watcher
	done chan struct{}

	lastRevision uint64
}

// New starts watching the directory containing the store file. The
// directory is watched rather than the file because every write
// replaces the file via rename.
func New(store *docstore.FileStore, bus *events.Bus, logger zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(store.Path())); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		store:        store,
		bus:          bus,
		logger:       logger.With().Str("component", "watch").Logger(),
		fw:           fw,
		done:         make(chan struct{}),
		lastRevision: store.Revision(),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.store.Path() {
				continue
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
				continue
			}
			// Coalesce bursts; a temp-file replace arrives as
			// several events.
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				timer.Reset(debounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			w.notify()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("watch error")
		}
	}
}

// notify publishes a document-wide event unless the write was our own.
// Own writes bump the store revision and are already announced by the
// invalidator with precise collection info.
func (w *Watcher) notify() {
	rev := w.store.Revision()
	if rev != w.lastRevision {
		w.lastRevision = rev
		return
	}

	w.logger.Info().Str("path", w.store.Path()).Msg("store file changed externally")
	w.bus.Publish(events.Event{
		Type:  events.TypeChanged,
		Views: events.AllViews,
	})
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done
	return err
}
