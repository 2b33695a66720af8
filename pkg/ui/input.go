package ui

// Editor is the single-line edit buffer under the scrollback. The cursor
// is a rune index into the buffer.
type Editor struct {
	runes  []rune
	cursor int
}

// String returns the buffer contents.
func (e *Editor) String() string { return string(e.runes) }

// Cursor returns the cursor's rune index.
func (e *Editor) Cursor() int { return e.cursor }

// Set replaces the buffer and moves the cursor to the end. History
// navigation lands here when an entry replaces the draft.
func (e *Editor) Set(text string) {
	e.runes = []rune(text)
	e.cursor = len(e.runes)
}

// Clear empties the buffer.
func (e *Editor) Clear() {
	e.runes = e.runes[:0]
	e.cursor = 0
}

// Insert places r at the cursor.
func (e *Editor) Insert(r rune) {
	e.runes = append(e.runes, 0)
	copy(e.runes[e.cursor+1:], e.runes[e.cursor:])
	e.runes[e.cursor] = r
	e.cursor++
}

// Backspace removes the rune before the cursor, if any.
func (e *Editor) Backspace() {
	if e.cursor == 0 {
		return
	}
	e.runes = append(e.runes[:e.cursor-1], e.runes[e.cursor:]...)
	e.cursor--
}

// Delete removes the rune under the cursor, if any.
func (e *Editor) Delete() {
	if e.cursor >= len(e.runes) {
		return
	}
	e.runes = append(e.runes[:e.cursor], e.runes[e.cursor+1:]...)
}

// Left moves the cursor one rune left.
func (e *Editor) Left() {
	if e.cursor > 0 {
		e.cursor--
	}
}

// Right moves the cursor one rune right.
func (e *Editor) Right() {
	if e.cursor < len(e.runes) {
		e.cursor++
	}
}

// Home moves the cursor to the start of the buffer.
func (e *Editor) Home() { e.cursor = 0 }

// End moves the cursor past the last rune.
func (e *Editor) End() { e.cursor = len(e.runes) }
