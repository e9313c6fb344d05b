package rfc6242

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderEndOfMessageFraming(t *testing.T) {
	var out bytes.Buffer
	e := NewEncoder(&out)

	_, err := e.Write([]byte("<hello/>"))
	require.NoError(t, err)
	require.NoError(t, e.EndOfMessage())

	assert.Equal(t, "<hello/>]]>]]>", out.String())
}

func TestEncoderChunkedFraming(t *testing.T) {
	var out bytes.Buffer
	e := NewEncoder(&out)
	e.ChunkedFraming = true

	_, err := e.Write([]byte("<rpc/>"))
	require.NoError(t, err)
	require.NoError(t, e.EndOfMessage())

	assert.Equal(t, "\n#6\n<rpc/>\n##\n", out.String())
}

func TestEncoderChunkedFramingSplitsOversizedWrites(t *testing.T) {
	var out bytes.Buffer
	e := NewEncoder(&out, WithMaxChunkSize(4))
	e.ChunkedFraming = true

	_, err := e.Write([]byte("0123456789"))
	require.NoError(t, err)
	require.NoError(t, e.EndOfMessage())

	assert.Equal(t, "\n#4\n0123\n#4\n4567\n#2\n89\n##\n", out.String())
}

func TestEncoderWriteEmptyIsNoOp(t *testing.T) {
	var out bytes.Buffer
	e := NewEncoder(&out)

	n, err := e.Write(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, out.Len())
}
