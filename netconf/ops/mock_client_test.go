package ops

import (
	"github.com/stretchr/testify/mock"

	"github.com/ncsession/ncclient/netconf/client"
	"github.com/ncsession/ncclient/netconf/common"
	"github.com/ncsession/ncclient/netconf/schema"
)

// mockClient is a testify/mock stand-in for client.Session, grounded on
// the teacher's own ops/session_test.go, which drives its sImpl through
// a mock of the same embedded interface via mcli.On(...).Return(...).
// The teacher's mock is generated (mocks.OpSession, not present in the
// pack); this one is hand-written in the same testify/mock idiom.
type mockClient struct {
	mock.Mock
}

func (m *mockClient) Execute(req common.Request) (*common.RPCReply, error) {
	args := m.Called(req)
	reply, _ := args.Get(0).(*common.RPCReply)
	return reply, args.Error(1)
}

func (m *mockClient) ExecuteAsync(req common.Request, rchan chan *common.RPCReply) error {
	args := m.Called(req, rchan)
	return args.Error(0)
}

func (m *mockClient) Subscribe(req common.Request, nchan chan *common.Notification) (*common.RPCReply, error) {
	args := m.Called(req, nchan)
	reply, _ := args.Get(0).(*common.RPCReply)
	return reply, args.Error(1)
}

func (m *mockClient) Close() {
	m.Called()
}

func (m *mockClient) ID() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

func (m *mockClient) ServerCapabilities() []string {
	args := m.Called()
	caps, _ := args.Get(0).([]string)
	return caps
}

func (m *mockClient) Status() client.Status {
	args := m.Called()
	return args.Get(0).(client.Status)
}

func (m *mockClient) SchemaStatus() schema.Status {
	args := m.Called()
	return args.Get(0).(schema.Status)
}

func (m *mockClient) SupportsFeature(name string) bool {
	args := m.Called(name)
	return args.Bool(0)
}

var _ client.Session = (*mockClient)(nil)

func newOpsSessionWithMockClient(t mock.TestingT) (OpSession, *mockClient) {
	mockCli := &mockClient{}
	return &sImpl{mockCli}, mockCli
}
