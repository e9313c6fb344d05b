package ops

import "github.com/ncsession/ncclient/netconf/common"

// classifyVoidReply adapts a reply with no <data> payload to the plain
// error interface, the way the Commit/Lock/Validate family of void
// operations want it. A reply with no <rpc-error> elements is success;
// any error-severity element is surfaced via classifyError. This mirrors
// client.mapError's own classification but operates on an already
// decoded *common.RPCReply rather than driving Execute itself.
func classifyVoidReply(reply *common.RPCReply, err error) error {
	if err != nil {
		return err
	}
	if reply.Ok || len(reply.Errors) == 0 {
		return nil
	}
	return classifyError(reply.Errors)
}

// classifyError picks the first error-severity RPCError out of errs and
// returns it; a reply carrying only warnings is not a failure.
func classifyError(errs []common.RPCError) error {
	for i := range errs {
		if errs[i].Severity == common.SeverityError {
			return &errs[i]
		}
	}
	return nil
}

// executeVoid runs req and applies classifyVoidReply to its result. Every
// void operation (Commit, Lock, EditConfig, ...) goes through this instead
// of returning Execute's err directly, so the classifier - not whatever
// Execute happens to return - is the single place ops asserts reply
// semantics.
func (s *sImpl) executeVoid(req common.Request) error {
	reply, err := s.Session.Execute(req)
	return classifyVoidReply(reply, err)
}
