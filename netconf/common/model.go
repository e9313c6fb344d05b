// Package common defines the wire-level NETCONF message structures shared
// by the client session, RPC builder and reply classifier: <hello>, <rpc>,
// <rpc-reply>, <rpc-error> and <notification>.
package common

import (
	"encoding/xml"
	"fmt"
)

// Request represents the body of a NETCONF RPC request. It is either an XML
// string (sent verbatim) or a struct with xml tags, marshalled as the child
// of the <rpc> element.
type Request interface{}

// HelloMessage defines the message sent/received during session negotiation.
type HelloMessage struct {
	XMLName      xml.Name `xml:"urn:ietf:params:xml:ns:netconf:base:1.0 hello"`
	Capabilities []string `xml:"capabilities>capability"`
	SessionID    uint64   `xml:"session-id,omitempty"`
}

// RPCMessage defines an <rpc> request message.
type RPCMessage struct {
	XMLName   xml.Name `xml:"urn:ietf:params:xml:ns:netconf:base:1.0 rpc"`
	MessageID string   `xml:"message-id,attr"`
	*Union
}

// RPCReply defines an <rpc-reply> message. Errors holds the decoded
// <rpc-error> elements; Data holds the raw inner XML of the whole reply,
// including any <rpc-error> or <ok> children.
type RPCReply struct {
	XMLName   xml.Name   `xml:"rpc-reply"`
	Errors    []RPCError `xml:"rpc-error,omitempty"`
	Data      string     `xml:",innerxml"`
	Ok        bool       `xml:",omitempty"`
	RawReply  string     `xml:"-"`
	MessageID string     `xml:"message-id,attr"`
}

// ErrorType enumerates the NETCONF error-type values (RFC 6241 Appendix A).
type ErrorType string

// Defined error-type values.
const (
	ErrTypeTransport ErrorType = "transport"
	ErrTypeRPC       ErrorType = "rpc"
	ErrTypeProtocol  ErrorType = "protocol"
	ErrTypeApp       ErrorType = "application"
)

// ErrorSeverity enumerates the NETCONF error-severity values.
type ErrorSeverity string

// Defined error-severity values.
const (
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
)

// ErrorTag enumerates the 19 NETCONF error-tag values defined by RFC 6241
// Appendix A.
type ErrorTag string

// Defined error-tag values.
const (
	TagInUse                 ErrorTag = "in-use"
	TagInvalidValue          ErrorTag = "invalid-value"
	TagTooBig                ErrorTag = "too-big"
	TagMissingAttribute      ErrorTag = "missing-attribute"
	TagBadAttribute          ErrorTag = "bad-attribute"
	TagUnknownAttribute      ErrorTag = "unknown-attribute"
	TagMissingElement        ErrorTag = "missing-element"
	TagBadElement            ErrorTag = "bad-element"
	TagUnknownElement        ErrorTag = "unknown-element"
	TagUnknownNamespace      ErrorTag = "unknown-namespace"
	TagAccessDenied          ErrorTag = "access-denied"
	TagLockDenied            ErrorTag = "lock-denied"
	TagResourceDenied        ErrorTag = "resource-denied"
	TagRollbackFailed        ErrorTag = "rollback-failed"
	TagDataExists            ErrorTag = "data-exists"
	TagDataMissing           ErrorTag = "data-missing"
	TagOperationNotSupported ErrorTag = "operation-not-supported"
	TagOperationFailed       ErrorTag = "operation-failed"
	TagMalformedMessage      ErrorTag = "malformed-message"
)

// ErrorInfo carries the structured content of <error-info>. Other preserves,
// verbatim, any child the schema does not recognise, keyed by its raw XML so
// no peer diagnostic data is silently dropped.
type ErrorInfo struct {
	BadAttr []string    `xml:"bad-attribute"`
	BadElem []string    `xml:"bad-element"`
	BadNS   []string    `xml:"bad-namespace"`
	SID     string      `xml:"session-id,omitempty"`
	Other   []OtherInfo `xml:",any"`
}

// OtherInfo is a verbatim, namespace-preserved capture of an <error-info>
// child the classifier does not recognise.
type OtherInfo struct {
	XMLName xml.Name
	Content string `xml:",innerxml"`
}

// RPCError defines a single <rpc-error> record (RFC 6241 section 4.3).
type RPCError struct {
	Type        ErrorType     `xml:"error-type"`
	Tag         ErrorTag      `xml:"error-tag"`
	Severity    ErrorSeverity `xml:"error-severity"`
	AppTag      string        `xml:"error-app-tag,omitempty"`
	Path        string        `xml:"error-path,omitempty"`
	Message     string        `xml:"error-message,omitempty"`
	MessageLang string        `xml:"-"`
	SessionID   string        `xml:"-"`
	Info        *ErrorInfo    `xml:"error-info,omitempty"`
}

// Error generates a string representation of the RPC error, satisfying the
// error interface so an RPCError can be returned directly.
func (re *RPCError) Error() string {
	return fmt.Sprintf("netconf rpc [%s] '%s'", re.Severity, re.Message)
}

// NotificationMessage defines the <notification> message sent from the
// server, wrapping a single arbitrary event element.
type NotificationMessage struct {
	XMLName   xml.Name
	EventTime string          `xml:"eventTime"`
	Event     notificationAny `xml:",any"`
}

type notificationAny struct {
	XMLName xml.Name
	Event   string `xml:",innerxml"`
}

// Notification is the re-framed event delivered to subscribers: the
// original element name/namespace plus its literal XML body, ready to be
// parsed against whatever schema the subscribing caller expects.
type Notification struct {
	XMLName   xml.Name
	EventTime string
	Event     string `xml:",innerxml"`
}

// Union allows a Request to be supplied either as a pre-built XML string, or
// as a struct with xml tags to be marshalled.
type Union struct {
	ValueStr interface{}
	ValueXML string `xml:",innerxml"`
}

// GetUnion wraps s in a Union, routing strings to the literal-XML path and
// everything else through the standard struct marshaller.
func GetUnion(s interface{}) *Union {
	switch request := s.(type) {
	case string:
		return &Union{ValueXML: request}
	default:
		return &Union{ValueStr: request}
	}
}

// DefaultCapabilities sets the default capabilities the client library
// advertises in its outbound <hello>.
var DefaultCapabilities = []string{
	CapBase10,
	CapBase11,
	CapXpath,
}

// NoChunkedCodecCapabilities omits the chunked-framing (base:1.1) capability,
// forcing end-of-message framing for the lifetime of the session.
var NoChunkedCodecCapabilities = []string{
	CapBase10,
	CapXpath,
}

// Define xml names for different netconf messages.
var (
	NameHello        = xml.Name{Space: NetconfNS, Local: "hello"}
	NameRPC          = xml.Name{Space: NetconfNS, Local: "rpc"}
	NameRPCReply     = xml.Name{Space: NetconfNS, Local: "rpc-reply"}
	NameNotification = xml.Name{Space: NetconfNotifyNS, Local: "notification"}
)

// Define netconf URNs.
const (
	NetconfNS        = "urn:ietf:params:xml:ns:netconf:base:1.0"
	NetconfNotifyNS  = "urn:ietf:params:xml:ns:netconf:notification:1.0"
	NetconfMonitorNS = "urn:ietf:params:xml:ns:yang:ietf-netconf-monitoring"
	NetconfWDNS      = "urn:ietf:params:xml:ns:yang:ietf-netconf-with-defaults"

	CapBase10        = "urn:ietf:params:netconf:base:1.0"
	CapBase11        = "urn:ietf:params:netconf:base:1.1"
	CapXpath         = "urn:ietf:params:netconf:capability:xpath:1.0"
	CapWritableRun   = "urn:ietf:params:netconf:capability:writable-running:1.0"
	CapCandidate     = "urn:ietf:params:netconf:capability:candidate:1.0"
	CapConfirmCommit = "urn:ietf:params:netconf:capability:confirmed-commit:1.1"
	CapRollbackOnErr = "urn:ietf:params:netconf:capability:rollback-on-error:1.0"
	CapValidate      = "urn:ietf:params:netconf:capability:validate:1.1"
	CapStartup       = "urn:ietf:params:netconf:capability:startup:1.0"
	CapURL           = "urn:ietf:params:netconf:capability:url:1.0"
	CapMonitoring    = "urn:ietf:params:xml:ns:yang:ietf-netconf-monitoring"
	CapWithDefaults  = "urn:ietf:params:netconf:capability:with-defaults:1.0"
)

// PeerSupportsChunkedFraming returns true if capability list indicates support for chunked framing.
func PeerSupportsChunkedFraming(caps []string) bool {
	for _, capability := range caps {
		if capability == CapBase11 {
			return true
		}
	}
	return false
}
