package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func typeString(e *Editor, s string) {
	for _, r := range s {
		e.Insert(r)
	}
}

func TestEditor_InsertAtCursor(t *testing.T) {
	var e Editor

	typeString(&e, "reboot")
	assert.Equal(t, "reboot", e.String())
	assert.Equal(t, 6, e.Cursor())

	e.Left()
	e.Left()
	e.Insert('X')
	assert.Equal(t, "rebXoot", e.String())
	assert.Equal(t, 5, e.Cursor())
}

func TestEditor_BackspaceAndDelete(t *testing.T) {
	var e Editor
	typeString(&e, "abc")

	e.Backspace()
	assert.Equal(t, "ab", e.String())

	e.Home()
	e.Backspace() // nothing before the cursor
	assert.Equal(t, "ab", e.String())

	e.Delete()
	assert.Equal(t, "b", e.String())

	e.End()
	e.Delete() // nothing under the cursor
	assert.Equal(t, "b", e.String())
}

func TestEditor_CursorBounds(t *testing.T) {
	var e Editor
	typeString(&e, "ab")

	e.Home()
	e.Left()
	assert.Equal(t, 0, e.Cursor())

	e.End()
	e.Right()
	assert.Equal(t, 2, e.Cursor())
}

func TestEditor_SetMovesCursorToEnd(t *testing.T) {
	var e Editor
	typeString(&e, "draft")
	e.Home()

	e.Set("status led")

	assert.Equal(t, "status led", e.String())
	assert.Equal(t, 10, e.Cursor())
}

func TestEditor_Clear(t *testing.T) {
	var e Editor
	typeString(&e, "reboot")

	e.Clear()

	assert.Equal(t, "", e.String())
	assert.Equal(t, 0, e.Cursor())
}

func TestEditor_MultibyteRunes(t *testing.T) {
	var e Editor
	typeString(&e, "温度")

	assert.Equal(t, "温度", e.String())
	assert.Equal(t, 2, e.Cursor())

	e.Backspace()
	assert.Equal(t, "温", e.String())
}
