package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncsession/ncclient/netconf/common"
	"github.com/ncsession/ncclient/netconf/schema"
)

const ifModuleCap = "urn:ietf:params:xml:ns:yang:ietf-interfaces?module=ietf-interfaces&revision=2018-02-20"

func TestResolveSchemaFallsBackToDirWhenGetSchemaFails(t *testing.T) {
	sess, _ := dialFakeSession(t,
		[]string{common.CapBase10, common.CapBase11, common.CapMonitoring, ifModuleCap},
		func(p *fakePeer) {
			// bootstrap ietf-netconf
			id := p.nextRequest()
			p.replyData(id, `module ietf-netconf { namespace "urn:ietf:params:xml:ns:netconf:base:1.0"; prefix nc; revision 2011-06-01; }`)
			// ietf-interfaces via get-schema fails; resolver should fall
			// back to testdata/ietf-interfaces.yin
			id = p.nextRequest()
			p.replyError(id, common.TagOperationFailed, common.SeverityError)
		})
	defer sess.Close()

	require.Equal(t, schema.StatusFull, sess.SchemaStatus())
}

func TestResolveSchemaMarksPartialWhenModuleUnresolvable(t *testing.T) {
	const missingCap = "urn:ietf:params:xml:ns:yang:does-not-exist?module=does-not-exist&revision=1970-01-01"

	sess, peer := dialFakeSession(t,
		[]string{common.CapBase10, common.CapBase11, common.CapMonitoring, missingCap},
		func(p *fakePeer) {
			id := p.nextRequest()
			p.replyData(id, `module ietf-netconf { namespace "urn:ietf:params:xml:ns:netconf:base:1.0"; prefix nc; revision 2011-06-01; }`)
			id = p.nextRequest()
			p.replyError(id, common.TagOperationFailed, common.SeverityError)
		})
	defer sess.Close()

	assert.Equal(t, schema.StatusPartial, sess.SchemaStatus())
	_ = peer
}

func TestSupportsFeatureReflectsAdvertisedBaseCapabilities(t *testing.T) {
	sess, _ := dialFakeSession(t,
		[]string{common.CapBase10, common.CapBase11, common.CapCandidate, common.CapValidate},
		nil)
	defer sess.Close()

	assert.True(t, sess.SupportsFeature("candidate"))
	assert.True(t, sess.SupportsFeature("validate"))
	assert.False(t, sess.SupportsFeature("confirmed-commit"))
}
