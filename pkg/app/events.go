package app

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
)

// EventData carries decoded inbound text into the run loop.
type EventData struct {
	tcell.EventTime
	Text string
}

// EventConnectivity carries a connection state flip into the run loop.
type EventConnectivity struct {
	tcell.EventTime
	Connected bool
}

// EventAvailability carries a device-availability change into the run
// loop.
type EventAvailability struct {
	tcell.EventTime
	Available bool
}

// screenSink forwards session callbacks into the tcell event queue so
// the run loop handles them on the same goroutine as key events. Posting
// never blocks; a full queue drops the event rather than stalling the
// read loop.
type screenSink struct {
	screen tcell.Screen
	log    zerolog.Logger
}

func (s *screenSink) post(ev tcell.Event) {
	if err := s.screen.PostEvent(ev); err != nil {
		s.log.Debug().Err(err).Msg("event queue full, dropping session event")
	}
}

func (s *screenSink) Data(text string) {
	ev := &EventData{Text: text}
	ev.SetEventNow()
	s.post(ev)
}

func (s *screenSink) Connectivity(connected bool) {
	ev := &EventConnectivity{Connected: connected}
	ev.SetEventNow()
	s.post(ev)
}

func (s *screenSink) Availability(available bool) {
	ev := &EventAvailability{Available: available}
	ev.SetEventNow()
	s.post(ev)
}
