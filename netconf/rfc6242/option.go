package rfc6242

const (
	// DecoderMinScannerBufferSize is the scanner buffer size floor.
	DecoderMinScannerBufferSize = 256
)

// DecoderOption is a constructor option function for the Decoder type.
type DecoderOption func(*Decoder)

// WithScannerBufferSize configures the buffer size of the bufio.Scanner used
// by the decoder to scan input tokens. If bytes is smaller than
// DecoderMinScannerBufferSize, the buffer size is set to that floor.
func WithScannerBufferSize(bytes int) DecoderOption {
	return func(d *Decoder) {
		if bytes < DecoderMinScannerBufferSize {
			bytes = DecoderMinScannerBufferSize
		}
		d.bufSize = bytes
	}
}

// WithFramer sets the Decoder's initial framing function, overriding the
// NETCONF 1.0 end-of-message default. Used by tests to exercise the chunked
// framer in isolation.
func WithFramer(f FramerFn) DecoderOption {
	return func(d *Decoder) { d.framer = f }
}

// EncoderOption is a constructor option function for the Encoder type.
type EncoderOption func(*Encoder)

// WithMaxChunkSize caps the size of chunks written by the Encoder when
// chunked framing is enabled. A size of zero means no artificial ceiling
// beyond the RFC6242 maximum.
func WithMaxChunkSize(size uint32) EncoderOption {
	return func(e *Encoder) { e.MaxChunkSize = size }
}
