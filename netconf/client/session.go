package client

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ncsession/ncclient/netconf/common"
	"github.com/ncsession/ncclient/netconf/common/codec"
	"github.com/ncsession/ncclient/netconf/schema"
)

// Status is the lifecycle state of a Session.
type Status int32

// Defined lifecycle states. A session is created in StatusStarting,
// transitions to StatusRunning once the hello exchange and initial
// capability/schema resolution complete, and to StatusInvalid on any
// fatal transport error. Replies and notifications are only produced
// while StatusRunning.
const (
	StatusStarting Status = iota
	StatusRunning
	StatusClosing
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusStarting:
		return "starting"
	case StatusRunning:
		return "running"
	case StatusClosing:
		return "closing"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Session represents a NETCONF Session: the connection endpoint driving
// the hello handshake, a concurrent request/reply multiplexer keyed by
// message-id, and an optional notification stream.
type Session interface {
	// Execute executes an RPC request on the server and returns the reply.
	Execute(req common.Request) (*common.RPCReply, error)

	// ExecuteAsync submits an RPC request for execution on the server,
	// arranging for the reply to be sent to the supplied channel.
	ExecuteAsync(req common.Request, rchan chan *common.RPCReply) error

	// Subscribe issues an RPC request and returns the reply. If
	// successful, notifications are sent to the supplied channel until
	// the stream completes or the session closes, at which point the
	// channel is closed.
	Subscribe(req common.Request, nchan chan *common.Notification) (*common.RPCReply, error)

	// Close closes the session and releases any associated resources.
	Close()

	// ID delivers the server-allocated id of the session.
	ID() uint64

	// ServerCapabilities delivers the server-supplied capabilities.
	ServerCapabilities() []string

	// Status reports the session's current lifecycle state.
	Status() Status

	// SchemaStatus reports whether every capability module resolved
	// successfully (schema.StatusFull) or one or more were dropped
	// (schema.StatusPartial).
	SchemaStatus() schema.Status

	// SupportsFeature reports whether the named base capability
	// (writable-running, candidate, confirmed-commit, rollback-on-error,
	// validate, startup, url, xpath) was advertised by the peer during
	// handshake.
	SupportsFeature(name string) bool
}

type sesImpl struct {
	cfg    *Config
	t      Transport
	dec    *codec.Decoder
	enc    *codec.Encoder
	trace  *ClientTrace
	target string

	writeLock *timedLock
	replyQ    *replyQueue
	notifQ    *notifQueue

	hello         *common.HelloMessage
	helloCh       chan error
	msgSeq        uint64
	status        int32
	schemaCtx     *schema.Context
	ownsSchemaCtx bool
	schemaStatus  int32
	features      map[string]bool

	subMu   sync.Mutex
	subChan chan *common.Notification
	subStop chan struct{}

	closeOnce  sync.Once
	readerDone chan struct{}
	evictStop  chan struct{}
}

// traceError reports err through si.trace.Error, tagging context with the
// connection's correlation id so log lines from concurrent sessions can
// be told apart.
func (si *sesImpl) traceError(context string, err error) {
	si.trace.Error(fmt.Sprintf("%s trace=%s", context, si.trace.TraceID), si.target, err)
}

// NewSession creates a new NETCONF session over t, performing the hello
// exchange and capability/schema resolution described by the handshake
// resolver before returning.
func NewSession(ctx context.Context, t Transport, cfg *Config) (Session, error) {
	si := &sesImpl{
		cfg:        cfg,
		t:          t,
		target:     t.Target(),
		dec:        codec.NewDecoder(t),
		enc:        codec.NewEncoder(t),
		trace:      ContextClientTrace(ctx),
		writeLock:  newTimedLock(),
		replyQ:     newReplyQueue(),
		notifQ:     newNotifQueue(),
		helloCh:    make(chan error, 1),
		readerDone: make(chan struct{}),
		evictStop:  make(chan struct{}),
	}
	if cfg.SharedSchemaContext != nil {
		si.schemaCtx = cfg.SharedSchemaContext
		si.ownsSchemaCtx = false
	}
	atomic.StoreInt32(&si.status, int32(StatusStarting))

	caps := common.DefaultCapabilities
	if cfg.DisableChunkedCodec {
		caps = common.NoChunkedCodecCapabilities
	}
	if err := si.enc.Encode(&common.HelloMessage{Capabilities: caps}); err != nil {
		si.traceError("send hello", err)
		_ = t.Close()
		return nil, newError(KindTransport, "NewSession", err)
	}

	go si.readLoop()
	go si.evictLoop()

	select {
	case err := <-si.helloCh:
		if err != nil {
			si.traceError("receive hello", err)
			si.Close()
			return nil, newError(KindProtocol, "NewSession", err)
		}
	case <-time.After(time.Duration(cfg.SetupTimeoutSecs) * time.Second):
		si.Close()
		return nil, newError(KindWouldBlock, "NewSession", fmt.Errorf("no hello from %s within %ds", si.target, cfg.SetupTimeoutSecs))
	}

	if err := si.resolveSchema(cfg); err != nil {
		si.Close()
		return nil, err
	}

	atomic.StoreInt32(&si.status, int32(StatusRunning))
	return si, nil
}

// nextMsgID returns the next outbound message-id. Per the session's
// invariant, ids issued by one session are strictly monotonic.
func (si *sesImpl) nextMsgID() string {
	return strconv.FormatUint(atomic.AddUint64(&si.msgSeq, 1), 10)
}

func (si *sesImpl) Status() Status { return Status(atomic.LoadInt32(&si.status)) }

func (si *sesImpl) SchemaStatus() schema.Status { return schema.Status(atomic.LoadInt32(&si.schemaStatus)) }

// SupportsFeature reports the base capability map built once during
// handshake (enableBaseFeatures); safe to read without locking since
// NewSession only returns a Session after resolveSchema has finished
// populating it.
func (si *sesImpl) SupportsFeature(name string) bool { return si.features[name] }

func (si *sesImpl) Execute(req common.Request) (reply *common.RPCReply, err error) {
	si.trace.ExecuteStart(req, false)
	defer func(begin time.Time) {
		si.trace.ExecuteDone(req, false, reply, err, time.Since(begin))
	}(time.Now())

	msgID, err := si.sendRPC(req)
	if err != nil {
		return nil, err
	}

	reply, outcome := si.replyQ.claim(msgID, -1)
	if outcome != acquired || reply == nil {
		return nil, newError(KindTransport, "Execute", io.ErrUnexpectedEOF)
	}
	return reply, mapError(reply)
}

func (si *sesImpl) ExecuteAsync(req common.Request, rchan chan *common.RPCReply) error {
	si.trace.ExecuteStart(req, true)
	msgID, err := si.sendRPC(req)
	if err != nil {
		return err
	}
	go func() {
		reply, _ := si.replyQ.claim(msgID, -1)
		rchan <- reply
	}()
	return nil
}

func (si *sesImpl) Subscribe(req common.Request, nchan chan *common.Notification) (*common.RPCReply, error) {
	si.subMu.Lock()
	si.subChan = nchan
	stop := make(chan struct{})
	si.subStop = stop
	si.subMu.Unlock()

	reply, err := si.Execute(req)
	if err != nil || mapError(reply) != nil {
		return reply, err
	}

	go dispatchNotifications(si.notifQ, nchan, stop, si.cfg.NotificationDispatchInterval, si.trace)
	return reply, nil
}

// sendRPC assigns a message-id, frames the request under the write lock
// and returns the id for the caller to later claim from the reply queue.
// send_rpc in the source returns would_block if the write lock could not
// be acquired within its timeout; here the write lock is only ever held
// for the duration of a single encode, so timeouts are not expected in
// practice but the same Kind is reported if one occurs.
func (si *sesImpl) sendRPC(req common.Request) (string, error) {
	if si.Status() != StatusRunning && si.Status() != StatusStarting {
		return "", newError(KindTransport, "sendRPC", fmt.Errorf("session %s", si.Status()))
	}

	msgID := si.nextMsgID()
	msg := &common.RPCMessage{MessageID: msgID, Union: common.GetUnion(req)}

	outcome, _ := si.writeLock.acquire(si.cfg.WriteLockTimeout)
	if outcome == lockClosed {
		return "", newError(KindTransport, "sendRPC", fmt.Errorf("session closed"))
	}
	if outcome != acquired {
		return "", newError(KindWouldBlock, "sendRPC", fmt.Errorf("write lock busy"))
	}
	defer si.writeLock.release()

	if err := si.enc.Encode(msg); err != nil {
		return "", newError(KindTransport, "sendRPC", err)
	}
	return msgID, nil
}

func (si *sesImpl) Close() {
	si.closeOnce.Do(func() {
		atomic.StoreInt32(&si.status, int32(StatusClosing))
		close(si.evictStop)
		si.writeLock.close()
		if err := si.t.Close(); err != nil {
			si.traceError("session close", err)
		}
		<-si.readerDone
		atomic.StoreInt32(&si.status, int32(StatusInvalid))
		if si.ownsSchemaCtx {
			// Schema context holds no external resources beyond
			// in-memory parsed modules; dropping the reference is
			// sufficient release for a non-shared context.
			si.schemaCtx = nil
		}
	})
}

func (si *sesImpl) ID() uint64 {
	if si.hello == nil {
		return 0
	}
	return si.hello.SessionID
}

func (si *sesImpl) ServerCapabilities() []string {
	if si.hello == nil {
		return nil
	}
	return si.hello.Capabilities
}

// readLoop is the session's single reader goroutine. Owning the wire
// exclusively here, rather than having every caller cooperatively
// acquire-read-release as the source's get_msg does, is how this
// implementation replaces the source's busy-wait sleeps with
// condition-variable-style signaling: callers block on a channel specific
// to what they want (a message-id or the next notification) and the
// reader wakes exactly the right one as soon as a matching message is
// framed, instead of polling.
func (si *sesImpl) readLoop() {
	defer close(si.readerDone)
	defer si.shutdownWaiters()
	// A reader that stops on its own (transport or decode failure) leaves
	// the session unusable; Close has already moved it to closing.
	defer func() {
		atomic.CompareAndSwapInt32(&si.status, int32(StatusRunning), int32(StatusInvalid))
		atomic.CompareAndSwapInt32(&si.status, int32(StatusStarting), int32(StatusInvalid))
	}()

	for {
		token, err := si.dec.Token()
		if err != nil {
			return
		}
		if !si.handleToken(token) {
			return
		}
	}
}

func (si *sesImpl) shutdownWaiters() {
	si.replyQ.closeAll()
	si.notifQ.close()
	si.subMu.Lock()
	if si.subStop != nil {
		select {
		case <-si.subStop:
		default:
			close(si.subStop)
		}
	}
	si.subMu.Unlock()
}

// handleToken classifies a single top-level start element. It returns
// false if the reader loop must stop (fatal protocol violation or decode
// failure).
func (si *sesImpl) handleToken(token xml.Token) bool {
	start, ok := token.(xml.StartElement)
	if !ok {
		return true
	}

	switch start.Name {
	case common.NameHello:
		return si.handleHello(start)
	case common.NameRPCReply:
		return si.handleRPCReply(start)
	case common.NameNotification:
		return si.handleNotification(start)
	case common.NameRPC:
		// Receiving <rpc> on the client side is a protocol violation:
		// only a server originates requests.
		si.traceError("unexpected <rpc> from peer", nil)
		return false
	default:
		return true
	}
}

func (si *sesImpl) handleHello(start xml.StartElement) bool {
	hello := &common.HelloMessage{}
	if err := si.dec.DecodeElement(hello, &start); err != nil {
		si.traceError("decode hello", err)
		si.helloCh <- err
		return false
	}

	if common.PeerSupportsChunkedFraming(hello.Capabilities) && !si.cfg.DisableChunkedCodec {
		codec.EnableChunkedFraming(si.dec, si.enc)
	}

	si.hello = hello
	si.trace.HelloDone(hello)
	si.helloCh <- nil
	return true
}

func (si *sesImpl) handleRPCReply(start xml.StartElement) bool {
	reply := &common.RPCReply{}
	if err := si.dec.DecodeElement(reply, &start); err != nil {
		si.traceError("decode rpc-reply", err)
		return true
	}
	if reply.MessageID == "" {
		// A reply with no message-id cannot be correlated; log and drop
		// rather than park it under an empty key forever.
		si.traceError("rpc-reply missing message-id", nil)
		return true
	}
	si.replyQ.deliver(reply)
	return true
}

func (si *sesImpl) handleNotification(start xml.StartElement) bool {
	msg := &common.NotificationMessage{}
	if err := si.dec.DecodeElement(msg, &start); err != nil {
		si.traceError("decode notification", err)
		return true
	}
	n := buildNotification(msg)
	si.trace.NotificationReceived(n)
	si.notifQ.push(n)
	return true
}

func buildNotification(nmsg *common.NotificationMessage) *common.Notification {
	event := fmt.Sprintf(`<%s xmlns="%s">%s</%s>`,
		nmsg.Event.XMLName.Local, nmsg.Event.XMLName.Space, nmsg.Event.Event, nmsg.Event.XMLName.Local)
	return &common.Notification{XMLName: nmsg.Event.XMLName, EventTime: nmsg.EventTime, Event: event}
}

// evictLoop periodically drops reply-queue entries that have sat unclaimed
// past Config.PendingReplyTTL (the chosen resolution of the dropped-reply
// open question: retain, don't discard immediately, but bound the
// retention so an abandoned reply does not pin memory forever).
func (si *sesImpl) evictLoop() {
	if si.cfg.PendingReplyTTL <= 0 {
		return
	}
	ticker := time.NewTicker(si.cfg.PendingReplyTTL / 4)
	defer ticker.Stop()
	for {
		select {
		case <-si.evictStop:
			return
		case <-ticker.C:
			si.replyQ.evictStale(si.cfg.PendingReplyTTL)
		}
	}
}

// mapError maps an RPC reply to an error if it is nil or carries an
// rpc-error of severity "error". Warnings do not fail the call.
func mapError(r *common.RPCReply) error {
	if r == nil {
		return io.ErrUnexpectedEOF
	}
	for i := range r.Errors {
		if r.Errors[i].Severity == common.SeverityError {
			return &r.Errors[i]
		}
	}
	return nil
}
