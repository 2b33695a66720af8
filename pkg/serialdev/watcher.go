package serialdev

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Watcher polls the system port list and reports when a watched port
// disappears, standing in for a platform-level disconnect event. The
// session layer starts it once, points it at the currently open port via
// Watch, and stops it when the session layer itself shuts down.
type Watcher struct {
	list     func() ([]string, error)
	clock    clockwork.Clock
	interval time.Duration

	mu      sync.Mutex
	watched string

	stop chan struct{}
	done chan struct{}
}

// NewWatcher creates a watcher polling with the given clock and interval.
// list defaults to ListPorts when nil.
func NewWatcher(list func() ([]string, error), clock clockwork.Clock, interval time.Duration) *Watcher {
	if list == nil {
		list = ListPorts
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Watcher{
		list:     list,
		clock:    clock,
		interval: interval,
	}
}

// Start begins polling. notify is called at most once per watched port,
// from the polling goroutine, when that port vanishes from the system
// list. Start must not be called twice without an intervening Stop.
func (w *Watcher) Start(notify func(name string)) {
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	go w.poll(notify)
}

// Stop halts polling and waits for the poll goroutine to exit. Safe to
// call when the watcher was never started.
func (w *Watcher) Stop() {
	if w.stop == nil {
		return
	}
	close(w.stop)
	<-w.done
	w.stop = nil
	w.done = nil
}

// Watch sets the port whose disappearance should be reported. An empty
// name clears the watch.
func (w *Watcher) Watch(name string) {
	w.mu.Lock()
	w.watched = name
	w.mu.Unlock()
}

// Unwatch clears the watched port without stopping the poll loop.
func (w *Watcher) Unwatch() {
	w.Watch("")
}

func (w *Watcher) poll(notify func(name string)) {
	defer close(w.done)

	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.Chan():
		}

		w.mu.Lock()
		watched := w.watched
		w.mu.Unlock()
		if watched == "" {
			continue
		}

		present, err := w.list()
		if err != nil {
			log.Debug().Err(err).Msg("port list poll failed")
			continue
		}

		gone := true
		for _, name := range present {
			if name == watched {
				gone = false
				break
			}
		}
		if !gone {
			continue
		}

		// Clear before notifying so one disappearance fires once even if
		// the callback re-enters Watch.
		w.mu.Lock()
		if w.watched == watched {
			w.watched = ""
		}
		w.mu.Unlock()

		log.Info().Str("port", watched).Msg("watched port disappeared")
		notify(watched)
	}
}
