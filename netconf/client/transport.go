package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"golang.org/x/crypto/ssh"
)

// The Secure Transport layer provides a communication path between the
// client and server. NETCONF can be layered over any transport protocol
// that provides the required basic properties; this package ships an SSH
// implementation and a raw-pipe implementation suitable for call-home
// sockets and tests.

// Transport is the byte-stream a session frames <hello>/<rpc>/<rpc-reply>
// messages over. Target reports a human-readable peer identity used in
// trace events and error messages.
type Transport interface {
	io.ReadWriteCloser
	Target() string
}

type sshTransport struct {
	reader      io.Reader
	writeCloser io.WriteCloser
	sshSession  *ssh.Session
	sshClient   *ssh.Client
	trace       *ClientTrace
	target      string

	// traceTarget decorates target with the connection's correlation id
	// for hook invocations only; target itself is never touched, since
	// ssh.Dial and Target() both depend on it verbatim.
	traceTarget string
}

// NewSSHTransport creates a new SSH transport, connecting to target with
// the supplied client configuration and requesting the given subsystem
// (normally "netconf").
func NewSSHTransport(ctx context.Context, clientConfig *ssh.ClientConfig, target, subsystem string) (rt Transport, err error) {
	trace := ContextClientTrace(ctx)
	impl := &sshTransport{
		target:      target,
		trace:       trace,
		traceTarget: fmt.Sprintf("%s trace=%s", target, trace.TraceID),
	}

	impl.trace.ConnectStart(impl.traceTarget)
	defer func(begin time.Time) {
		impl.trace.ConnectDone(impl.traceTarget, err, time.Since(begin))
	}(time.Now())

	defer func() {
		if err != nil {
			if impl.sshSession != nil {
				_ = impl.sshSession.Close()
			}
			if impl.sshClient != nil {
				_ = impl.sshClient.Close()
			}
		}
	}()

	impl.trace.DialStart(clientConfig, impl.traceTarget)
	dialBegin := time.Now()
	impl.sshClient, err = ssh.Dial("tcp", target, clientConfig)
	impl.trace.DialDone(clientConfig, impl.traceTarget, err, time.Since(dialBegin))
	if err != nil {
		return nil, err
	}

	if impl.sshSession, err = impl.sshClient.NewSession(); err != nil {
		return nil, err
	}

	if err = impl.sshSession.RequestSubsystem(subsystem); err != nil {
		return nil, err
	}

	if impl.reader, err = impl.sshSession.StdoutPipe(); err != nil {
		return nil, err
	}

	if impl.writeCloser, err = impl.sshSession.StdinPipe(); err != nil {
		return nil, err
	}

	impl.injectTraceReader()
	impl.injectTraceWriter()

	return impl, nil
}

func (t *sshTransport) Target() string { return t.target }

func (t *sshTransport) Read(p []byte) (n int, err error) { return t.reader.Read(p) }

func (t *sshTransport) Write(p []byte) (n int, err error) { return t.writeCloser.Write(p) }

// Close closes the stdin pipe, the SSH session and the SSH client, in that
// order. Errors are returned with priority matching the same order.
func (t *sshTransport) Close() (err error) {
	defer func() { t.trace.ConnectionClosed(t.traceTarget, err) }()

	var sessionCloseErr, clientCloseErr error
	if t.writeCloser != nil {
		err = t.writeCloser.Close()
	}
	if t.sshSession != nil {
		sessionCloseErr = t.sshSession.Close()
	}
	if t.sshClient != nil {
		clientCloseErr = t.sshClient.Close()
	}
	if err == nil {
		err = sessionCloseErr
	}
	if err == nil {
		err = clientCloseErr
	}
	return err
}

type traceReader struct {
	r     io.Reader
	trace *ClientTrace
}

func (t *sshTransport) injectTraceReader() {
	t.reader = &traceReader{r: t.reader, trace: t.trace}
}

func (tr *traceReader) Read(p []byte) (c int, err error) {
	tr.trace.ReadStart(p)
	defer func(begin time.Time) {
		tr.trace.ReadDone(p, c, err, time.Since(begin))
	}(time.Now())
	return tr.r.Read(p)
}

type traceWriter struct {
	w     io.WriteCloser
	trace *ClientTrace
}

func (t *sshTransport) injectTraceWriter() {
	t.writeCloser = &traceWriter{w: t.writeCloser, trace: t.trace}
}

func (tw *traceWriter) Write(p []byte) (c int, err error) {
	tw.trace.WriteStart(p)
	defer func(begin time.Time) {
		tw.trace.WriteDone(p, c, err, time.Since(begin))
	}(time.Now())
	return tw.w.Write(p)
}

func (tw *traceWriter) Close() (err error) { return tw.w.Close() }

// pipeTransport adapts a plain net.Conn (or any ReadWriteCloser, such as
// the one side of a net.Pipe used in tests) to Transport. It backs
// call-home sockets, which are accepted rather than dialled, and unit
// tests that exercise the session layer without an SSH server.
type pipeTransport struct {
	io.ReadWriteCloser
	target string
}

// NewPipeTransport wraps conn as a Transport, reporting target for trace
// events and error messages.
func NewPipeTransport(conn io.ReadWriteCloser, target string) Transport {
	return &pipeTransport{ReadWriteCloser: conn, target: target}
}

func (t *pipeTransport) Target() string { return t.target }

// remoteAddrTarget formats a net.Conn's remote address for use as a
// Transport target, falling back to "unknown" if the conn does not expose
// one (e.g. a net.Pipe endpoint).
func remoteAddrTarget(conn net.Conn) string {
	if conn == nil {
		return "unknown"
	}
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "unknown"
}
