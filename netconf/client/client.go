package client

import (
	"context"
	"sync"

	"github.com/ncsession/ncclient/netconf/schema"
	"golang.org/x/crypto/ssh"
)

// Client replaces the source's process-wide client_opts globals (schema
// search path, call-home listener binds) with a single explicit context an
// application owns and passes into its connect/accept-callhome calls.
// A Client is safe for concurrent use.
type Client struct {
	// SchemaSearchPath is the default on-disk directory new sessions use
	// to bootstrap ietf-netconf and as a last-resort module source,
	// applied to any Config that leaves SchemasDir empty.
	SchemaSearchPath string

	// SharedSchema, if set, is used by every session this Client
	// creates instead of each building its own; it is never released by
	// a session Close.
	SharedSchema *schema.Context

	mu     sync.Mutex
	binds  []*callHomeListener
	closed bool
}

// NewClient creates a Client with the given default schema search path.
func NewClient(schemaSearchPath string) *Client {
	return &Client{SchemaSearchPath: schemaSearchPath}
}

// Connect dials target over SSH and establishes a NETCONF session with
// cfg, filling in SchemaSearchPath/SharedSchema for any fields cfg leaves
// at their zero value.
func (c *Client) Connect(ctx context.Context, sshcfg *ssh.ClientConfig, target string, cfg *Config) (Session, error) {
	resolved := c.resolveConfig(cfg)
	ctx = withTraceID(ctx)

	t, err := NewSSHTransport(ctx, sshcfg, target, "netconf")
	if err != nil {
		return nil, err
	}

	s, err := c.newSessionOn(ctx, t, resolved)
	if err != nil {
		_ = t.Close()
		return nil, err
	}
	return s, nil
}

func (c *Client) resolveConfig(cfg *Config) *Config {
	resolved := *cfg
	if resolved.SchemasDir == "" {
		resolved.SchemasDir = c.SchemaSearchPath
	}
	if resolved.SchemasDir == "" {
		resolved.SchemasDir = DefaultConfig.SchemasDir
	}
	if resolved.SharedSchemaContext == nil {
		resolved.SharedSchemaContext = c.SharedSchema
	}
	return &resolved
}

// newSessionOn builds a session over an already-established transport
// (dialled or accepted via call-home). cfg.SharedSchemaContext, set by
// resolveConfig from c.SharedSchema, is installed before the hello/schema
// resolution pass runs, so capability modules load into and out of the
// shared context rather than a private one.
func (c *Client) newSessionOn(ctx context.Context, t Transport, cfg *Config) (Session, error) {
	return NewSession(ctx, t, cfg)
}

// Close releases every call-home listener the Client has bound. Sessions
// the Client created are independent and must be closed individually.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	var firstErr error
	for _, b := range c.binds {
		if err := b.listener.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.binds = nil
	return firstErr
}
