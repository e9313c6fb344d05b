package codec

import (
	"bytes"
	"errors"
	"testing"

	assert "github.com/stretchr/testify/require"
)

type testStr struct {
	Field string
}

// countingErrWriter lets the first failAfter Write calls succeed and
// fails every call after them.
type countingErrWriter struct {
	calls     int
	failAfter int
}

func (w *countingErrWriter) Write(p []byte) (int, error) {
	w.calls++
	if w.calls > w.failAfter {
		return 0, errors.New("failed")
	}
	return len(p), nil
}

func TestEncoderFailures(t *testing.T) {
	// Failure on the very first write (the xml.Header preamble).
	enc := NewEncoder(&countingErrWriter{failAfter: 0})
	assert.Error(t, enc.Encode(&testStr{}))

	// Failure on write of the end-of-message delimiter, after the body succeeds.
	enc = NewEncoder(&countingErrWriter{failAfter: 2})
	assert.Error(t, enc.Encode(&testStr{}))
}

func TestEncoderSuccessRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	assert.NoError(t, enc.Encode(&testStr{Field: "value"}))
	assert.Contains(t, buf.String(), "<testStr>")
	assert.Contains(t, buf.String(), "]]>]]>")
}

func TestEnableChunkedFraming(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	dec := NewDecoder(bytes.NewReader(nil))

	assert.False(t, enc.ncEncoder.ChunkedFraming)

	EnableChunkedFraming(dec, enc)

	assert.True(t, enc.ncEncoder.ChunkedFraming)
}
