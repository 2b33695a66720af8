// Package ui renders the terminal session: a scrollback log of decoded
// inbound text, a status bar, and a single input line with history
// replay. It does no escape-sequence processing; inbound text is shown
// as-is, line by line.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"serterm/pkg/history"
)

// maxScrollback caps how many completed lines are retained.
const maxScrollback = 5000

// Action is the result of routing one key event.
type Action int

const (
	// ActionNone means the key was consumed internally.
	ActionNone Action = iota
	// ActionSubmit means the user pressed Enter; the submitted line
	// accompanies it.
	ActionSubmit
	// ActionQuit means the user asked to leave the session.
	ActionQuit
)

// View owns everything drawn on the screen. It is not goroutine safe; the
// run loop is its only caller.
type View struct {
	screen tcell.Screen

	lines   []string
	current string
	scroll  int

	editor Editor
	nav    *history.Navigator

	port      string
	baud      int
	connected bool
	available bool
}

// NewView creates a view over an initialized tcell screen.
func NewView(screen tcell.Screen) *View {
	return &View{
		screen: screen,
		nav:    history.NewNavigator(nil),
	}
}

// SetHistory replaces the entries the arrow keys walk. Called after every
// ring mutation so replay always reflects persisted state.
func (v *View) SetHistory(entries []string) {
	v.nav.Reset(entries)
}

// SetStatus updates the status bar's session fields.
func (v *View) SetStatus(port string, baud int, connected bool) {
	v.port = port
	v.baud = baud
	v.connected = connected
}

// SetAvailable updates the status bar's device-availability indicator.
func (v *View) SetAvailable(available bool) {
	v.available = available
}

// Line returns the input buffer contents.
func (v *View) Line() string { return v.editor.String() }

// AppendText adds decoded inbound text to the scrollback. Carriage
// returns are dropped, newlines complete the line under assembly, and
// appending snaps the viewport back to the bottom.
func (v *View) AppendText(text string) {
	for _, r := range text {
		switch r {
		case '\r':
		case '\n':
			v.lines = append(v.lines, v.current)
			v.current = ""
		default:
			v.current += string(r)
		}
	}
	if len(v.lines) > maxScrollback {
		v.lines = v.lines[len(v.lines)-maxScrollback:]
	}
	v.scroll = 0
}

// HandleKey routes one key event. The returned string is the submitted
// line when the action is ActionSubmit.
func (v *View) HandleKey(ev *tcell.EventKey) (Action, string) {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlQ:
		return ActionQuit, ""
	case tcell.KeyEnter:
		line := v.editor.String()
		v.editor.Clear()
		return ActionSubmit, line
	case tcell.KeyUp:
		if text, ok := v.nav.Older(v.editor.String()); ok {
			v.editor.Set(text)
		}
	case tcell.KeyDown:
		if text, ok := v.nav.Newer(); ok {
			v.editor.Set(text)
		}
	case tcell.KeyPgUp:
		v.scroll += v.pageSize()
	case tcell.KeyPgDn:
		v.scroll -= v.pageSize()
		if v.scroll < 0 {
			v.scroll = 0
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		v.editor.Backspace()
	case tcell.KeyDelete:
		v.editor.Delete()
	case tcell.KeyLeft:
		v.editor.Left()
	case tcell.KeyRight:
		v.editor.Right()
	case tcell.KeyHome, tcell.KeyCtrlA:
		v.editor.Home()
	case tcell.KeyEnd, tcell.KeyCtrlE:
		v.editor.End()
	case tcell.KeyCtrlU:
		v.editor.Clear()
	case tcell.KeyRune:
		v.editor.Insert(ev.Rune())
	}
	return ActionNone, ""
}

// Draw repaints the whole screen: scrollback, status bar, input line.
func (v *View) Draw() {
	v.screen.Clear()
	width, height := v.screen.Size()
	if height < 3 || width == 0 {
		v.screen.Show()
		return
	}

	logRows := height - 2
	visible := v.visibleLines()
	total := len(visible)

	maxScroll := total - logRows
	if maxScroll < 0 {
		maxScroll = 0
	}
	if v.scroll > maxScroll {
		v.scroll = maxScroll
	}

	start := total - logRows - v.scroll
	if start < 0 {
		start = 0
	}
	for row := 0; row < logRows && start+row < total; row++ {
		drawText(v.screen, 0, row, width, visible[start+row], tcell.StyleDefault)
	}

	v.drawStatus(width, height-2)
	v.drawInput(width, height-1)
	v.screen.Show()
}

func (v *View) drawStatus(width, row int) {
	state := "disconnected"
	if v.connected {
		state = "connected"
	}
	left := " not connected"
	if v.port != "" {
		left = fmt.Sprintf(" %s @ %d  %s", v.port, v.baud, state)
	}
	if !v.connected && v.available {
		left += "  [device available]"
	}

	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < width; x++ {
		v.screen.SetContent(x, row, ' ', nil, style)
	}
	drawText(v.screen, 0, row, width, left, style)
}

func (v *View) drawInput(width, row int) {
	const prompt = "> "
	drawText(v.screen, 0, row, width, prompt+v.editor.String(), tcell.StyleDefault)

	cursorX := runewidth.StringWidth(prompt)
	for i, r := range []rune(v.editor.String()) {
		if i >= v.editor.Cursor() {
			break
		}
		cursorX += runewidth.RuneWidth(r)
	}
	if cursorX >= width {
		cursorX = width - 1
	}
	v.screen.ShowCursor(cursorX, row)
}

// visibleLines is the scrollback plus the line still being assembled.
func (v *View) visibleLines() []string {
	if v.current == "" {
		return v.lines
	}
	return append(v.lines[:len(v.lines):len(v.lines)], v.current)
}

func (v *View) pageSize() int {
	_, height := v.screen.Size()
	if height > 2 {
		return height - 2
	}
	return 1
}

// drawText writes text at (x, y), advancing by display width and stopping
// at maxWidth.
func drawText(screen tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > maxWidth {
			break
		}
		screen.SetContent(x, y, r, nil, style)
		x += w
	}
}
