package client

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"
)

var (
	errNoCallHomeBinds = errors.New("no call-home binds configured")
	errCallHomeTimeout = errors.New("timed out waiting for call-home connection")
	errNoSubsystemReq  = errors.New("peer did not request the netconf subsystem")
)

func portString(port int) string { return strconv.Itoa(port) }

// Call-home inverts the usual NETCONF connection direction: the device
// dials the management station, which accepts the connection and then
// runs the same SSH subsystem negotiation and hello handshake as an
// ordinary outbound Connect. client_opts.ch_binds in the source becomes
// the Client's own bind list, pre-bound sockets this Client listens on.

type callHomeListener struct {
	address  string
	port     int
	listener net.Listener
}

// AddCallHomeBind opens a TCP listener on address:port that AcceptCallHome
// will later accept connections from. It mirrors nc_client_ch_add_bind's
// role of recording a (address, port, transport) triple, except the
// listener is opened eagerly rather than deferred to accept time.
func (c *Client) AddCallHomeBind(address string, port int) error {
	l, err := net.Listen("tcp", net.JoinHostPort(address, portString(port)))
	if err != nil {
		return newError(KindTransport, "AddCallHomeBind", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.binds = append(c.binds, &callHomeListener{address: address, port: port, listener: l})
	return nil
}

// RemoveCallHomeBind closes and forgets every bind matching the supplied,
// optionally empty, filters -- address == "" or port == 0 matches any
// value for that field, mirroring nc_client_ch_del_bind's wildcarding.
func (c *Client) RemoveCallHomeBind(address string, port int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	kept := c.binds[:0]
	for _, b := range c.binds {
		if (address == "" || b.address == address) && (port == 0 || b.port == port) {
			_ = b.listener.Close()
			removed++
			continue
		}
		kept = append(kept, b)
	}
	c.binds = kept
	return removed
}

// AcceptCallHome blocks up to timeout for an inbound call-home connection
// on any bound listener, then negotiates the SSH subsystem and NETCONF
// hello over it exactly as Connect does for an outbound dial.
func (c *Client) AcceptCallHome(ctx context.Context, sshcfg *ssh.ServerConfig, timeout time.Duration) (Session, error) {
	ctx = withTraceID(ctx)

	c.mu.Lock()
	binds := make([]*callHomeListener, len(c.binds))
	copy(binds, c.binds)
	c.mu.Unlock()

	if len(binds) == 0 {
		return nil, newError(KindArg, "AcceptCallHome", errNoCallHomeBinds)
	}

	conn, err := acceptAny(binds, timeout)
	if err != nil {
		return nil, newError(KindWouldBlock, "AcceptCallHome", err)
	}

	sc, chans, reqs, err := ssh.NewServerConn(conn, sshcfg)
	if err != nil {
		_ = conn.Close()
		return nil, newError(KindTransport, "AcceptCallHome", err)
	}
	go ssh.DiscardRequests(reqs)

	t, err := newSSHServerSubsystemTransport(sc, chans, remoteAddrTarget(conn))
	if err != nil {
		_ = sc.Close()
		return nil, newError(KindTransport, "AcceptCallHome", err)
	}

	return c.newSessionOn(ctx, t, c.resolveConfig(DefaultConfig))
}

// acceptAny races net.Listener.Accept across every bound listener,
// returning the first connection received within timeout.
func acceptAny(binds []*callHomeListener, timeout time.Duration) (net.Conn, error) {
	type result struct {
		conn net.Conn
		err  error
	}
	ch := make(chan result, len(binds))
	for _, b := range binds {
		go func(l net.Listener) {
			conn, err := l.Accept()
			ch <- result{conn, err}
		}(b.listener)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-ch:
		return r.conn, r.err
	case <-timer.C:
		return nil, errCallHomeTimeout
	}
}

// newSSHServerSubsystemTransport waits for the peer to open a session
// channel and request the "netconf" subsystem on it, then wraps that
// channel as a Transport. This is the server-side mirror of the client
// NewSSHTransport's RequestSubsystem call.
func newSSHServerSubsystemTransport(sc *ssh.ServerConn, chans <-chan ssh.NewChannel, target string) (Transport, error) {
	for newCh := range chans {
		if newCh.ChannelType() != "session" {
			_ = newCh.Reject(ssh.UnknownChannelType, "only session channels are supported")
			continue
		}

		ch, requests, err := newCh.Accept()
		if err != nil {
			return nil, err
		}

		for req := range requests {
			if req.Type != "subsystem" {
				_ = req.Reply(false, nil)
				continue
			}
			// Payload is a length-prefixed string naming the subsystem;
			// "netconf" is the only one this library's server side of
			// call-home negotiates.
			if !subsystemRequested(req.Payload, "netconf") {
				_ = req.Reply(false, nil)
				continue
			}
			_ = req.Reply(true, nil)
			go ssh.DiscardRequests(requests)
			return NewPipeTransport(ch, target), nil
		}
		_ = ch.Close()
	}
	return nil, errNoSubsystemReq
}

func subsystemRequested(payload []byte, name string) bool {
	if len(payload) < 4 {
		return false
	}
	n := int(payload[0])<<24 | int(payload[1])<<16 | int(payload[2])<<8 | int(payload[3])
	if len(payload) < 4+n {
		return false
	}
	return string(payload[4:4+n]) == name
}
