package conn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamDecoder_ASCII(t *testing.T) {
	d := NewStreamDecoder()

	assert.Equal(t, "hello\r\n", d.Decode([]byte("hello\r\n")))
	assert.Equal(t, "", d.Flush())
}

func TestStreamDecoder_SplitRuneAcrossChunks(t *testing.T) {
	d := NewStreamDecoder()
	raw := []byte("温度: 25°C") // multi-byte runes

	var out string
	for i := range raw {
		out += d.Decode(raw[i : i+1])
	}
	out += d.Flush()

	assert.Equal(t, "温度: 25°C", out)
}

func TestStreamDecoder_HoldsBackPartialRune(t *testing.T) {
	d := NewStreamDecoder()
	raw := []byte("日") // 3 bytes

	assert.Equal(t, "", d.Decode(raw[:2]))
	assert.Equal(t, "日", d.Decode(raw[2:]))
}

func TestStreamDecoder_InvalidBytesBecomeReplacement(t *testing.T) {
	d := NewStreamDecoder()

	out := d.Decode([]byte{'a', 0xff, 'b'})

	assert.Equal(t, "a�b", out)
}

func TestStreamDecoder_FlushEmitsOneReplacementForTail(t *testing.T) {
	d := NewStreamDecoder()
	raw := []byte("日")

	assert.Equal(t, "", d.Decode(raw[:2]))
	assert.Equal(t, "�", d.Flush())
	assert.Equal(t, "", d.Flush())
}
