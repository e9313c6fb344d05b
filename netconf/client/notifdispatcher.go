package client

import (
	"time"

	"github.com/ncsession/ncclient/netconf/common"
)

// notificationCompleteLocal is the local name of the stream-end marker
// NETCONF event streams use to signal no further notifications will be
// sent (RFC 5277 notificationComplete / ietf-subscribed-notifications
// subscription-terminated). The dispatcher treats either as stream end.
const (
	notificationCompleteLocal = "notificationComplete"
	subscriptionTerminated    = "subscription-terminated"

	defaultDispatchPoll = 20 * time.Millisecond
)

// dispatchNotifications pumps notifications from q into nchan until the
// stream completes or the session closes (stop is closed). A regular
// notification waits for room in nchan until stop is closed; the
// stream-end marker is dropped (and reported via NotificationDropped) if
// nchan has no room for it. It is the
// worker described as the Notification Dispatcher: Subscribe launches one
// of these per subscription rather than every subscriber polling q
// itself.
//
// pollInterval bounds how long each pop waits before re-checking stop, so
// a session Close unblocks the dispatcher promptly instead of leaving it
// parked on an indefinite wait.
func dispatchNotifications(q *notifQueue, nchan chan *common.Notification, stop chan struct{}, pollInterval time.Duration, trace *ClientTrace) {
	defer close(nchan)

	if pollInterval <= 0 {
		pollInterval = defaultDispatchPoll
	}

	for {
		select {
		case <-stop:
			return
		default:
		}

		n, outcome := q.pop(pollInterval)
		if outcome != acquired {
			continue
		}

		if isStreamEnd(n) {
			select {
			case nchan <- n:
			default:
				trace.NotificationDropped(n)
			}
			return
		}

		select {
		case nchan <- n:
		case <-stop:
			return
		}
	}
}

func isStreamEnd(n *common.Notification) bool {
	return n.XMLName.Local == notificationCompleteLocal || n.XMLName.Local == subscriptionTerminated
}
