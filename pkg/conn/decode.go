package conn

import (
	"strings"
	"unicode/utf8"
)

// StreamDecoder converts a byte stream to text chunk by chunk. A
// multi-byte UTF-8 sequence split across reads is held back until its
// remaining bytes arrive; invalid bytes decode to U+FFFD. State is scoped
// to one connection and reset by creating a fresh decoder.
type StreamDecoder struct {
	pending []byte
}

// NewStreamDecoder returns a decoder with no carried state.
func NewStreamDecoder() *StreamDecoder {
	return &StreamDecoder{pending: make([]byte, 0, utf8.UTFMax)}
}

// Decode returns the text decodable from the carried bytes plus p,
// retaining any trailing incomplete sequence for the next call.
func (d *StreamDecoder) Decode(p []byte) string {
	if len(p) == 0 {
		return ""
	}
	var buf []byte
	if len(d.pending) > 0 {
		buf = append(d.pending, p...)
		d.pending = d.pending[:0]
	} else {
		buf = p
	}

	// Find the last rune start within reach of the end; hold the tail
	// back only if it could still become a valid rune.
	cut := len(buf)
	for i := len(buf) - 1; i >= 0 && len(buf)-i < utf8.UTFMax; i-- {
		b := buf[i]
		if b < 0x80 {
			break
		}
		if b >= 0xC0 {
			if !utf8.FullRune(buf[i:]) {
				cut = i
			}
			break
		}
	}
	if cut < len(buf) {
		d.pending = append(d.pending, buf[cut:]...)
	}
	if cut == 0 {
		return ""
	}
	return strings.ToValidUTF8(string(buf[:cut]), "�")
}

// Flush returns a replacement character for any buffered partial sequence
// and clears the carried state. Called once at stream end.
func (d *StreamDecoder) Flush() string {
	if len(d.pending) == 0 {
		return ""
	}
	d.pending = d.pending[:0]
	return "�"
}
