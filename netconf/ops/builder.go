package ops

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/ncsession/ncclient/netconf/common"
)

// This file adds the RPC variants spec.md's data model names that the
// teacher's own session.go never built: commit, cancel-commit, validate
// and create-subscription. Requests follow the same functional-option
// pattern as the teacher's EditConfig/CopyConfig builders.

type CommitReq struct {
	XMLName   xml.Name  `xml:"commit"`
	Confirmed *struct{} `xml:"confirmed,omitempty"`
	Timeout   string    `xml:"confirm-timeout,omitempty"`
	Persist   string    `xml:"persist,omitempty"`
	PersistID string    `xml:"persist-id,omitempty"`
}

// CommitOption configures a commit request.
type CommitOption func(*CommitReq)

// Confirmed marks the commit as a confirmed commit, per RFC 6241 §8.4.
func Confirmed() CommitOption {
	return func(r *CommitReq) { r.Confirmed = &struct{}{} }
}

// CommitTimeout sets the confirm-timeout in seconds for a confirmed commit.
func CommitTimeout(seconds int) CommitOption {
	return func(r *CommitReq) { r.Timeout = strconv.Itoa(seconds) }
}

// Persist sets a persist token so a confirmed commit survives session loss.
func Persist(token string) CommitOption {
	return func(r *CommitReq) { r.Persist = token }
}

// PersistID confirms or cancels a persistent confirmed commit.
func PersistID(token string) CommitOption {
	return func(r *CommitReq) { r.PersistID = token }
}

func createCommitRequest(options ...CommitOption) *CommitReq {
	req := &CommitReq{}
	for _, opt := range options {
		opt(req)
	}
	return req
}

// Commit issues a commit request, applying any CommitOption modifiers.
// A commit built with Confirmed is rejected client-side if the peer
// never advertised :confirmed-commit, since a
// server without that capability would otherwise apply it unconfirmed
// and silently drop the safety net the caller asked for.
func (s *sImpl) Commit(options ...CommitOption) error {
	req := createCommitRequest(options...)
	if req.Confirmed != nil && !s.Session.SupportsFeature("confirmed-commit") {
		return fmt.Errorf("confirmed commit requested but peer did not advertise :confirmed-commit")
	}
	return s.executeVoid(req)
}

type CancelCommitReq struct {
	XMLName   xml.Name `xml:"cancel-commit"`
	PersistID string   `xml:"persist-id,omitempty"`
}

func createCancelCommitRequest(persistID string) *CancelCommitReq {
	return &CancelCommitReq{PersistID: persistID}
}

// CancelCommit issues a cancel-commit request, cancelling an ongoing
// confirmed commit. persistID may be empty for a non-persistent commit.
func (s *sImpl) CancelCommit(persistID string) error {
	return s.executeVoid(createCancelCommitRequest(persistID))
}

type ValidateReq struct {
	XMLName xml.Name    `xml:"validate"`
	Source  *ConfigType `xml:"source"`
}

func createValidateRequest(source CfgDsOpt) *ValidateReq {
	req := &ValidateReq{Source: &ConfigType{}}
	source(req.Source)
	return req
}

// Validate issues a validate request against source, defined by a
// CfgDsOpt exactly as CopyConfig/DeleteConfig take theirs. Rejected
// client-side if the peer never advertised :validate.
func (s *sImpl) Validate(source CfgDsOpt) error {
	if !s.Session.SupportsFeature("validate") {
		return fmt.Errorf("validate requested but peer did not advertise :validate")
	}
	return s.executeVoid(createValidateRequest(source))
}

// CreateSubscriptionReq is the RFC 5277 <create-subscription> request.
type CreateSubscriptionReq struct {
	XMLName   xml.Name `xml:"urn:ietf:params:xml:ns:netconf:notification:1.0 create-subscription"`
	Stream    string   `xml:"stream,omitempty"`
	Filter    *Filter  `xml:"filter,omitempty"`
	StartTime string   `xml:"startTime,omitempty"`
	StopTime  string   `xml:"stopTime,omitempty"`
}

// SubscribeOption configures a create-subscription request.
type SubscribeOption func(*CreateSubscriptionReq)

// Stream selects a named notification stream; the default is "NETCONF".
func Stream(name string) SubscribeOption {
	return func(r *CreateSubscriptionReq) { r.Stream = name }
}

// SubtreeFilter restricts the subscription to notifications matching a
// subtree filter.
func SubtreeFilter(s interface{}) SubscribeOption {
	return func(r *CreateSubscriptionReq) { r.Filter = &Filter{Type: "subtree", Union: common.GetUnion(s)} }
}

// StartTime replays notifications from the given RFC 3339 timestamp.
func StartTime(t string) SubscribeOption {
	return func(r *CreateSubscriptionReq) { r.StartTime = t }
}

// StopTime bounds a replay subscription's end.
func StopTime(t string) SubscribeOption {
	return func(r *CreateSubscriptionReq) { r.StopTime = t }
}

func createSubscribeRequest(options ...SubscribeOption) *CreateSubscriptionReq {
	req := &CreateSubscriptionReq{}
	for _, opt := range options {
		opt(req)
	}
	return req
}

// SubscribeStream issues a create-subscription request and, on success,
// streams notifications to nchan until the subscription ends.
func (s *sImpl) SubscribeStream(nchan chan *common.Notification, options ...SubscribeOption) (*common.RPCReply, error) {
	return s.Session.Subscribe(createSubscribeRequest(options...), nchan)
}
