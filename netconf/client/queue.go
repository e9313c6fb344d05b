package client

import (
	"sync"
	"time"

	"github.com/ncsession/ncclient/netconf/common"
)

// The session keeps two independent FIFO structures fed by a single reader
// goroutine (see session.go's router loop): one correlates rpc-reply
// messages against the message-id a caller is waiting on, the other holds
// notification messages in wire arrival order for a dispatcher to drain.
//
// Both follow the same shape: a waiter registers interest and blocks on a
// private channel, the router either hands a just-arrived message straight
// to a waiting channel or parks it for a later claim. Parking (rather than
// dropping) is what lets a caller that sent two rpcs back to back collect
// replies in whichever order they actually arrive on the wire.

// parkedReply is a reply that arrived before anything claimed its
// message-id, together with the time it was parked so stale entries can be
// evicted per Config.PendingReplyTTL.
type parkedReply struct {
	reply  *common.RPCReply
	parked time.Time
}

// replyQueue correlates incoming <rpc-reply> messages with the message-id
// of the request that provoked them. It is the "reply queue" of the
// message router: one entry per in-flight request, keyed by message-id.
type replyQueue struct {
	mu      sync.Mutex
	parked  map[string]parkedReply
	waiters map[string]chan *common.RPCReply
}

func newReplyQueue() *replyQueue {
	return &replyQueue{
		parked:  make(map[string]parkedReply),
		waiters: make(map[string]chan *common.RPCReply),
	}
}

// deliver hands reply to the waiter registered for its message-id, if one
// exists, or parks it for a later claim. Called only from the router's
// single reader goroutine.
func (q *replyQueue) deliver(reply *common.RPCReply) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if ch, ok := q.waiters[reply.MessageID]; ok {
		delete(q.waiters, reply.MessageID)
		ch <- reply
		return
	}
	q.parked[reply.MessageID] = parkedReply{reply: reply, parked: time.Now()}
}

// claim waits up to timeout for the reply matching msgID. A reply already
// parked is returned immediately without waiting. timeout < 0 blocks
// indefinitely.
func (q *replyQueue) claim(msgID string, timeout time.Duration) (*common.RPCReply, acquireResult) {
	q.mu.Lock()
	if p, ok := q.parked[msgID]; ok {
		delete(q.parked, msgID)
		q.mu.Unlock()
		return p.reply, acquired
	}
	ch := make(chan *common.RPCReply, 1)
	q.waiters[msgID] = ch
	q.mu.Unlock()

	if timeout < 0 {
		return <-ch, acquired
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case reply := <-ch:
		return reply, acquired
	case <-timer.C:
		q.abandon(msgID)
		return nil, timedOut
	}
}

// evictStale drops parked replies older than ttl, so a caller that issued
// an rpc and never collected its reply (e.g. after a local timeout it gave
// up on) does not pin memory forever. It does not evict active waiters,
// since those are bounded by the waiting caller's own timeout.
func (q *replyQueue) evictStale(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-ttl)
	q.mu.Lock()
	defer q.mu.Unlock()
	for id, p := range q.parked {
		if p.parked.Before(cutoff) {
			delete(q.parked, id)
		}
	}
}

// closeAll unblocks every currently registered waiter with a nil reply,
// used when the session transport fails or is closed so no caller of
// claim is left hanging forever.
func (q *replyQueue) closeAll() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for id, ch := range q.waiters {
		ch <- nil
		delete(q.waiters, id)
	}
}

// abandon discards any waiter registered for msgID, used by claim's own
// timeout path to unregister a waiter nothing will ever deliver to. A
// waiter that abandons after deliver has already claimed the map entry
// is a no-op: it is simply not found.
func (q *replyQueue) abandon(msgID string) {
	q.mu.Lock()
	delete(q.waiters, msgID)
	q.mu.Unlock()
}

// notifQueue is a plain FIFO of notifications in the order they arrived on
// the wire. Unlike replyQueue it has no key: consumers take whatever is
// next, which is how a notification dispatcher loop drains it.
type notifQueue struct {
	mu     sync.Mutex
	items  []*common.Notification
	sig    chan struct{}
	closed chan struct{}
}

func newNotifQueue() *notifQueue {
	return &notifQueue{sig: make(chan struct{}, 1), closed: make(chan struct{})}
}

// close marks the queue permanently closed, waking any blocked pop with a
// timedOut result rather than leaving it blocked forever.
func (q *notifQueue) close() {
	q.mu.Lock()
	select {
	case <-q.closed:
	default:
		close(q.closed)
	}
	q.mu.Unlock()
}

// push appends a notification to the back of the queue and wakes one
// blocked pop, if any.
func (q *notifQueue) push(n *common.Notification) {
	q.mu.Lock()
	q.items = append(q.items, n)
	q.mu.Unlock()

	select {
	case q.sig <- struct{}{}:
	default:
	}
}

// pop removes and returns the front notification, waiting up to timeout
// for one to arrive if the queue is currently empty. timeout < 0 blocks
// indefinitely; timeout == 0 checks once without waiting.
func (q *notifQueue) pop(timeout time.Duration) (*common.Notification, acquireResult) {
	deadline := time.Time{}
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			n := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return n, acquired
		}
		q.mu.Unlock()

		select {
		case <-q.closed:
			return nil, timedOut
		default:
		}

		if timeout == 0 {
			return nil, timedOut
		}

		if timeout < 0 {
			select {
			case <-q.sig:
				continue
			case <-q.closed:
				return nil, timedOut
			}
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, timedOut
		}
		timer := time.NewTimer(remaining)
		select {
		case <-q.sig:
			timer.Stop()
		case <-q.closed:
			timer.Stop()
			return nil, timedOut
		case <-timer.C:
			return nil, timedOut
		}
	}
}

// len reports the number of notifications currently queued, used by tests
// and by diagnostic tracing.
func (q *notifQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
