package client

import (
	"time"

	"github.com/ncsession/ncclient/netconf/schema"
)

// Defines structs describing netconf session behaviour.

// Config defines properties that configure netconf session behaviour.
type Config struct {
	// SetupTimeoutSecs is the time in seconds that the client will wait to
	// receive a hello message from the server.
	SetupTimeoutSecs int

	// DisableChunkedCodec forces end-of-message framing for the life of the
	// session, even if the peer advertises base:1.1 support.
	DisableChunkedCodec bool

	// SchemasDir is the on-disk directory of .yin schema files used as a
	// last resort module source, and to bootstrap ietf-netconf and
	// ietf-netconf-monitoring before <get-schema> is available.
	SchemasDir string

	// GetSchemaTimeout bounds how long the module-fetch callback keeps
	// retrying a <get-schema> whose send reports KindWouldBlock during
	// capability resolution. Once the request is sent, the wait for its
	// reply is not bounded by this timeout.
	GetSchemaTimeout time.Duration

	// WriteLockTimeout bounds how long Execute/ExecuteAsync wait to
	// acquire exclusive use of the transport for framing one request.
	WriteLockTimeout time.Duration

	// GetSchemaRetryInterval is the pause between retries of send_rpc while
	// it is returning would_block during module-fetch.
	GetSchemaRetryInterval time.Duration

	// NotificationDispatchInterval bounds how long a notification
	// dispatcher's each wait for the next notification lasts before it
	// re-checks whether the session has closed.
	NotificationDispatchInterval time.Duration

	// PendingReplyTTL bounds how long an unmatched reply is retained in the
	// reply queue before being dropped as stale (see DESIGN.md's resolution
	// of the "dropped-reply ambiguity" open question).
	PendingReplyTTL time.Duration

	// SharedSchemaContext, if set, is used in place of a private Context
	// for schema resolution. NewSession neither creates nor releases it;
	// the caller owns its lifetime across every session that shares it.
	SharedSchemaContext *schema.Context
}

// DefaultConfig defines default session configuration.
var DefaultConfig = &Config{
	SetupTimeoutSecs:             5,
	SchemasDir:                   "/etc/netconf/schemas",
	GetSchemaTimeout:             250 * time.Millisecond,
	WriteLockTimeout:             5 * time.Second,
	GetSchemaRetryInterval:       time.Millisecond,
	NotificationDispatchInterval: 20 * time.Millisecond,
	PendingReplyTTL:              30 * time.Second,
}
