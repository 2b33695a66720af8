// Package app drives an interactive serial session: it wires the
// connection manager, the persisted command history, and the screen
// together into a single event loop.
package app

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"serterm/pkg/conn"
	"serterm/pkg/history"
	"serterm/pkg/serialdev"
	"serterm/pkg/ui"
)

// watchInterval is how often the disconnect watcher polls the port list.
const watchInterval = 2 * time.Second

// App owns one interactive session from open to quit.
type App struct {
	screen  tcell.Screen
	view    *ui.View
	manager *conn.Manager
	ring    *history.Ring
	log     zerolog.Logger

	device string
	baud   int
}

// New builds an app over an initialized screen. bridge may be nil when
// the device is always chosen up front. watcher may be nil; the manager
// then relies on read failures alone to detect device loss. The app takes
// ownership of the watcher but not of the screen.
func New(screen tcell.Screen, bridge serialdev.Bridge, ring *history.Ring, watcher *serialdev.Watcher, logger zerolog.Logger) *App {
	a := &App{
		screen: screen,
		view:   ui.NewView(screen),
		ring:   ring,
		log:    logger,
	}
	sink := &screenSink{screen: screen, log: logger}
	a.manager = conn.NewManager(bridge, sink, watcher)
	return a
}

// Manager exposes the session manager, mainly so tests can observe
// lifecycle state.
func (a *App) Manager() *conn.Manager { return a.manager }

// Open starts a session on device and seeds the view with the persisted
// history.
func (a *App) Open(device serialdev.Device, baud int) error {
	a.view.SetHistory(a.ring.Load())

	if err := a.manager.Open(device, baud); err != nil {
		return fmt.Errorf("failed to open %s: %w", device.Name(), err)
	}
	a.device = device.Name()
	a.baud = baud
	a.view.SetStatus(a.device, a.baud, true)
	return nil
}

// QuickConnect opens a previously authorized device without prompting.
// Requires a bridge.
func (a *App) QuickConnect(baud int) error {
	a.view.SetHistory(a.ring.Load())

	if err := a.manager.QuickConnect(baud); err != nil {
		return err
	}
	a.device = a.manager.Device()
	a.baud = baud
	a.view.SetStatus(a.device, a.baud, true)
	return nil
}

// Run processes events until the user quits or the screen is finalized.
func (a *App) Run() error {
	defer a.manager.Close()

	a.view.Draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if quit := a.handle(ev); quit {
			return nil
		}
		a.view.Draw()
	}
}

func (a *App) handle(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		action, line := a.view.HandleKey(ev)
		switch action {
		case ui.ActionQuit:
			return true
		case ui.ActionSubmit:
			a.submit(line)
		}
	case *tcell.EventResize:
		a.screen.Sync()
	case *EventData:
		a.view.AppendText(ev.Text)
	case *EventConnectivity:
		a.view.SetStatus(a.device, a.baud, ev.Connected)
	case *EventAvailability:
		a.view.SetAvailable(ev.Available)
	}
	return false
}

// submit writes one command line to the device and, on success, records
// it in the ring.
func (a *App) submit(line string) {
	if err := a.manager.Send(line + "\r\n"); err != nil {
		a.view.AppendText(fmt.Sprintf("\r\n[send failed: %v]\r\n", err))
		return
	}

	entries, err := a.ring.PushFront(line)
	if err != nil {
		a.log.Warn().Err(err).Msg("saving command history")
		return
	}
	a.view.SetHistory(entries)
}

// Run opens device on a fresh full-screen terminal and blocks until the
// session ends.
func Run(device serialdev.Device, baud int, ring *history.Ring, logger zerolog.Logger) error {
	return run(nil, ring, logger, func(a *App) error {
		return a.Open(device, baud)
	})
}

// RunQuick opens the first previously authorized device without
// prompting and blocks until the session ends.
func RunQuick(bridge serialdev.Bridge, baud int, ring *history.Ring, logger zerolog.Logger) error {
	return run(bridge, ring, logger, func(a *App) error {
		return a.QuickConnect(baud)
	})
}

func run(bridge serialdev.Bridge, ring *history.Ring, logger zerolog.Logger, open func(*App) error) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorReset).
		Foreground(tcell.ColorReset))
	screen.Clear()

	watcher := serialdev.NewWatcher(serialdev.ListPorts, clockwork.NewRealClock(), watchInterval)

	a := New(screen, bridge, ring, watcher, logger)
	if err := open(a); err != nil {
		a.manager.Close()
		return err
	}
	return a.Run()
}
