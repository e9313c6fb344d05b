package ops

import (
	"encoding/xml"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncsession/ncclient/netconf/common"
)

type element struct {
	XMLName xml.Name `xml:"element"`
	Attr1   string   `xml:"attr1,attr"`
}

func TestGetSubtreeToString(t *testing.T) {
	ncs, mcli := newOpsSessionWithMockClient(t)
	mcli.On("Execute", createGetSubtreeRequest(`<subtree-element/>`)).
		Return(&common.RPCReply{Data: `<data><element attr1="ABC"/></data>`}, nil)

	var result string
	err := ncs.GetSubtree(`<subtree-element/>`, &result)
	require.NoError(t, err)
	assert.Equal(t, `<element attr1="ABC"/>`, result)
}

func TestGetSubtreeToStruct(t *testing.T) {
	ncs, mcli := newOpsSessionWithMockClient(t)
	mcli.On("Execute", createGetSubtreeRequest(`<subtree-element/>`)).
		Return(&common.RPCReply{Data: `<data><element attr1="ABC"/></data>`}, nil)

	result := &element{}
	err := ncs.GetSubtree(`<subtree-element/>`, result)
	require.NoError(t, err)
	assert.Equal(t, "ABC", result.Attr1)
}

func TestGetSubtreeExecuteError(t *testing.T) {
	ncs, mcli := newOpsSessionWithMockClient(t)
	mcli.On("Execute", createGetSubtreeRequest(`<subtree-element/>`)).
		Return(nil, errors.New("failed"))

	var result string
	err := ncs.GetSubtree(`<subtree-element/>`, &result)
	assert.Error(t, err)
}

func TestGetXpathToString(t *testing.T) {
	ncs, mcli := newOpsSessionWithMockClient(t)
	mcli.On("Execute", createGetXpathRequest(`/tns:element`, []Namespace{{"tns", "urn:tns"}})).
		Return(&common.RPCReply{Data: `<data><element attr1="ABC"/></data>`}, nil)

	var result string
	err := ncs.GetXpath(`/tns:element`, []Namespace{{"tns", "urn:tns"}}, &result)
	require.NoError(t, err)
	assert.Equal(t, `<element attr1="ABC"/>`, result)
}

func TestGetXpathExecuteError(t *testing.T) {
	ncs, mcli := newOpsSessionWithMockClient(t)
	mcli.On("Execute", createGetXpathRequest(`/tns:element`, nil)).
		Return(nil, errors.New("failed"))

	var result string
	err := ncs.GetXpath(`/tns:element`, nil, &result)
	assert.Error(t, err)
}

func TestGetConfigSubtreeToString(t *testing.T) {
	ncs, mcli := newOpsSessionWithMockClient(t)
	mcli.On("Execute", createGetConfigSubtreeRequest(`<subtree-element/>`, RunningCfg)).
		Return(&common.RPCReply{Data: `<data><element attr1="ABC"/></data>`}, nil)

	var result string
	err := ncs.GetConfigSubtree(`<subtree-element/>`, RunningCfg, &result)
	require.NoError(t, err)
	assert.Equal(t, `<element attr1="ABC"/>`, result)
}

func TestGetConfigXpathToStruct(t *testing.T) {
	ncs, mcli := newOpsSessionWithMockClient(t)
	mcli.On("Execute", createGetConfigXpathRequest(`/tns:element`, CandidateCfg, nil)).
		Return(&common.RPCReply{Data: `<data><element attr1="ABC"/></data>`}, nil)

	result := &element{}
	err := ncs.GetConfigXpath(`/tns:element`, nil, CandidateCfg, result)
	require.NoError(t, err)
	assert.Equal(t, "ABC", result.Attr1)
}

func TestGetSchemasReturnsSchemaList(t *testing.T) {
	ncs, mcli := newOpsSessionWithMockClient(t)
	mcli.On("Execute", createGetShemasRequest()).
		Return(&common.RPCReply{Data: `<data><netconf-state xmlns="urn:ietf:params:xml:ns:yang:ietf-netconf-monitoring">` +
			`<schemas><schema><identifier>ietf-interfaces</identifier><version>2018-02-20</version>` +
			`<format>yang</format></schema></schemas></netconf-state></data>`}, nil)

	schemas, err := ncs.GetSchemas()
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	assert.Equal(t, "ietf-interfaces", schemas[0].Identifier)
}

func TestGetSchemaReturnsSchemaText(t *testing.T) {
	ncs, mcli := newOpsSessionWithMockClient(t)
	mcli.On("Execute", createGetShemaRequest("id", "vsn", "yang")).
		Return(&common.RPCReply{Data: `<data>Some Yang</data>`}, nil)

	reply, err := ncs.GetSchema("id", "vsn", "yang")
	require.NoError(t, err)
	assert.Equal(t, "Some Yang", reply)
}

func TestGetSchemaExecuteError(t *testing.T) {
	ncs, mcli := newOpsSessionWithMockClient(t)
	mcli.On("Execute", createGetShemaRequest("id", "vsn", "yang")).
		Return(nil, errors.New("failed"))

	reply, err := ncs.GetSchema("id", "vsn", "yang")
	assert.Error(t, err)
	assert.Empty(t, reply)
}

func TestEditConfigSendsExpectedRequest(t *testing.T) {
	ncs, mcli := newOpsSessionWithMockClient(t)
	mcli.On("Execute", createEditConfigRequest(CandidateCfg, Cfg(`<top/>`), TestOption(TestThenSetOpt))).
		Return(&common.RPCReply{Ok: true}, nil)

	err := ncs.EditConfig(CandidateCfg, Cfg(`<top/>`), TestOption(TestThenSetOpt))
	assert.NoError(t, err)
}

func TestEditConfigPropagatesRPCError(t *testing.T) {
	ncs, mcli := newOpsSessionWithMockClient(t)
	mcli.On("Execute", createEditConfigRequest(CandidateCfg, Cfg(`<top/>`))).
		Return(&common.RPCReply{
			Errors: []common.RPCError{{Type: common.ErrTypeProtocol, Tag: common.TagOperationFailed, Severity: common.SeverityError}},
		}, nil)

	err := ncs.EditConfig(CandidateCfg, Cfg(`<top/>`))
	require.Error(t, err)
	var rpcErr *common.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, common.TagOperationFailed, rpcErr.Tag)
}

func TestCopyConfigSendsExpectedRequest(t *testing.T) {
	ncs, mcli := newOpsSessionWithMockClient(t)
	mcli.On("Execute", createCopyConfigRequest(DsName(RunningCfg), DsURL("file://checkpoint.conf"))).
		Return(&common.RPCReply{Ok: true}, nil)

	err := ncs.CopyConfig(DsName(RunningCfg), DsURL("file://checkpoint.conf"))
	assert.NoError(t, err)
}

func TestDeleteConfigSendsExpectedRequest(t *testing.T) {
	ncs, mcli := newOpsSessionWithMockClient(t)
	mcli.On("Execute", createDeleteConfigRequest(DsName(CandidateCfg))).
		Return(&common.RPCReply{Ok: true}, nil)

	err := ncs.DeleteConfig(DsName(CandidateCfg))
	assert.NoError(t, err)
}

func TestLockAndUnlock(t *testing.T) {
	ncs, mcli := newOpsSessionWithMockClient(t)
	mcli.On("Execute", createLockRequest(RunningCfg)).Return(&common.RPCReply{Ok: true}, nil)
	mcli.On("Execute", createUnlockRequest(RunningCfg)).Return(&common.RPCReply{Ok: true}, nil)

	assert.NoError(t, ncs.Lock(RunningCfg))
	assert.NoError(t, ncs.Unlock(RunningCfg))
}

func TestLockDeniedReturnsRPCError(t *testing.T) {
	ncs, mcli := newOpsSessionWithMockClient(t)
	mcli.On("Execute", createLockRequest(RunningCfg)).
		Return(&common.RPCReply{
			Errors: []common.RPCError{{Type: common.ErrTypeProtocol, Tag: common.TagLockDenied, Severity: common.SeverityError}},
		}, nil)

	err := ncs.Lock(RunningCfg)
	require.Error(t, err)
	var rpcErr *common.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, common.TagLockDenied, rpcErr.Tag)
}

func TestDiscardCloseSessionKillSession(t *testing.T) {
	ncs, mcli := newOpsSessionWithMockClient(t)
	mcli.On("Execute", createDiscardRequest()).Return(&common.RPCReply{Ok: true}, nil)
	mcli.On("Execute", createCloseSessionRequest()).Return(&common.RPCReply{Ok: true}, nil)
	mcli.On("Execute", createKillSessionRequest(uint64(7))).Return(&common.RPCReply{Ok: true}, nil)

	assert.NoError(t, ncs.Discard())
	assert.NoError(t, ncs.CloseSession())
	assert.NoError(t, ncs.KillSession(7))
}
