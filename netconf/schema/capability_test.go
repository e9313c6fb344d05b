package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilitiesHasIgnoresQueryString(t *testing.T) {
	caps := Capabilities{"urn:ietf:params:netconf:base:1.1", "urn:ietf:params:xml:ns:yang:ietf-netconf-monitoring"}
	assert.True(t, caps.Has("urn:ietf:params:netconf:base:1.1"))
	assert.True(t, caps.Has("urn:ietf:params:xml:ns:yang:ietf-netconf-monitoring?revision=2010-10-04"))
	assert.False(t, caps.Has("urn:ietf:params:netconf:base:1.0"))
}

func TestModuleCapabilitiesExcludesBaseProtocolCapabilities(t *testing.T) {
	caps := Capabilities{
		"urn:ietf:params:netconf:base:1.1",
		"urn:ietf:params:netconf:capability:candidate:1.0",
		"urn:ietf:params:xml:ns:yang:ietf-interfaces?module=ietf-interfaces&revision=2018-02-20",
	}
	got := caps.ModuleCapabilities()
	assert.Equal(t, []string{"urn:ietf:params:xml:ns:yang:ietf-interfaces?module=ietf-interfaces&revision=2018-02-20"}, got)
}

func TestParseModuleRefExtractsFields(t *testing.T) {
	ref, ok := ParseModuleRef("urn:ietf:params:xml:ns:yang:ietf-interfaces?module=ietf-interfaces&revision=2018-02-20&features=if-mib,arp&deviations=acme-dev")
	assert.True(t, ok)
	assert.Equal(t, "ietf-interfaces", ref.Module)
	assert.Equal(t, "2018-02-20", ref.Revision)
	assert.Equal(t, []string{"if-mib", "arp"}, ref.Features)
	assert.Equal(t, []string{"acme-dev"}, ref.Deviations)
	assert.Equal(t, "urn:ietf:params:xml:ns:yang:ietf-interfaces", ref.Namespace)
}

func TestParseModuleRefRejectsBaseCapability(t *testing.T) {
	_, ok := ParseModuleRef("urn:ietf:params:netconf:base:1.1")
	assert.False(t, ok)
}

func TestParseModuleRefDefaultsOptionalFields(t *testing.T) {
	ref, ok := ParseModuleRef("urn:example:yang:foo?module=foo")
	assert.True(t, ok)
	assert.Equal(t, "foo", ref.Module)
	assert.Empty(t, ref.Revision)
	assert.Empty(t, ref.Features)
	assert.Empty(t, ref.Deviations)
}
