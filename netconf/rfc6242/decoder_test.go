package rfc6242

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoderEndOfMessageFraming(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		output []string
	}{
		{"single document", "<a/>]]>]]>", []string{"<a/>"}},
		{"two documents", "<a/>]]>]]><b/>]]>]]>", []string{"<a/>", "<b/>"}},
		{"empty document", "]]>]]>", []string{""}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := NewDecoder(bytes.NewBufferString(c.input))
			var got []string
			for range c.output {
				buf := make([]byte, 0, 64)
				b := make([]byte, 64)
				for {
					n, err := d.Read(b)
					buf = append(buf, b[:n]...)
					if err != nil {
						break
					}
				}
				got = append(got, string(buf))
			}
			assert.Equal(t, c.output, got)
		})
	}
}

func TestDecoderChunkedFraming(t *testing.T) {
	input := "\n#5\nhello\n#2\n, \n#6\nworld!\n##\n"
	d := NewDecoder(bytes.NewBufferString(input), WithFramer(decoderChunked))

	var buf bytes.Buffer
	_, err := io.Copy(&buf, d)
	require.True(t, err == nil || err == io.EOF)
	assert.Equal(t, "hello, world!", buf.String())
}

func TestDecoderChunkedFramingRejectsZeroLeadingChunks(t *testing.T) {
	input := "\n##\n"
	d := NewDecoder(bytes.NewBufferString(input), WithFramer(decoderChunked))

	_, err := io.Copy(io.Discard, d)
	require.Error(t, err)
}

func TestSetChunkedFramingSwitchesBothDirections(t *testing.T) {
	var out bytes.Buffer
	enc := NewEncoder(&out)
	dec := NewDecoder(bytes.NewBufferString(""))

	SetChunkedFraming(dec, enc)
	assert.True(t, enc.ChunkedFraming)
	// No end-of-message seen yet, so the decoder holds chunked framing pending.
	assert.NotNil(t, dec.pendingFramer)

	ClearChunkedFraming(dec, enc)
	assert.False(t, enc.ChunkedFraming)
	assert.Nil(t, dec.pendingFramer)
}
