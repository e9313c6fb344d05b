package client

import "github.com/pkg/errors"

// Kind classifies a client-side (non-protocol) failure. Structured NETCONF
// <rpc-error> content is never represented as a Kind: per RFC 6241 it is a
// successful reply of variant Error, not a transport-layer failure.
type Kind int

// Defined error kinds, in the coarse order a caller typically checks them.
const (
	// KindArg indicates an invalid argument, detected synchronously.
	KindArg Kind = iota
	// KindInternal indicates an assertion-style invariant was violated.
	KindInternal
	// KindWouldBlock indicates a timeout elapsed before the operation
	// completed; the caller may retry.
	KindWouldBlock
	// KindTransport indicates a read or write failed, or the session was
	// not in the running state.
	KindTransport
	// KindProtocol indicates an unexpected message was received (e.g. an
	// <rpc> delivered to a client, a malformed <rpc-reply>, or a reply
	// missing message-id).
	KindProtocol
	// KindSchema indicates a required module was missing when building an
	// RPC, or that tree validation failed.
	KindSchema
	// KindPartialSchema indicates one or more capability modules failed to
	// load. Session setup does not return it: a partial load is reported
	// by SchemaStatus as schema.StatusPartial and the session remains
	// usable. Replies are not filtered against the loaded modules.
	KindPartialSchema
)

func (k Kind) String() string {
	switch k {
	case KindArg:
		return "arg"
	case KindInternal:
		return "internal"
	case KindWouldBlock:
		return "would-block"
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindSchema:
		return "schema"
	case KindPartialSchema:
		return "partial-schema"
	default:
		return "unknown"
	}
}

// Error is a client-side failure tagged with a Kind, so callers can branch
// on the coarse category (e.g. retry on KindWouldBlock) while the logging
// façade receives the full wrapped detail.
type Error struct {
	Kind Kind
	Op   string
	err  error
}

func (e *Error) Error() string {
	if e.err == nil {
		return e.Op + ": " + e.Kind.String()
	}
	return e.Op + ": " + e.Kind.String() + ": " + e.err.Error()
}

// Unwrap allows errors.Is/As to see through to the underlying cause.
func (e *Error) Unwrap() error { return e.err }

// newError builds a Kind-tagged Error, wrapping any non-nil cause with a
// stack trace courtesy of pkg/errors.
func newError(kind Kind, op string, cause error) *Error {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return &Error{Kind: kind, Op: op, err: cause}
}

// IsWouldBlock reports whether err (or something it wraps) is a
// KindWouldBlock client Error.
func IsWouldBlock(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindWouldBlock
}

// IsTimeout is an alias for IsWouldBlock, matching the vocabulary used by
// the timed-lock and message-router APIs.
func IsTimeout(err error) bool { return IsWouldBlock(err) }
