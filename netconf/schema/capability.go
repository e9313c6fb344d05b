// Package schema wraps goyang's YANG parser with the module/capability
// resolution a NETCONF client needs: mapping the capability URIs exchanged
// in <hello> to loaded modules, with a pluggable fetch callback for
// modules the on-disk schema directory does not carry.
package schema

import (
	"net/url"
	"strings"
)

const netconfBasePrefix = "urn:ietf:params:netconf:"

// Capabilities is the peer's advertised capability URI set.
type Capabilities []string

// Has reports whether uri (ignoring any query string) is present.
func (c Capabilities) Has(uri string) bool {
	uri = strings.SplitN(uri, "?", 2)[0]
	for _, cap := range c {
		if strings.SplitN(cap, "?", 2)[0] == uri {
			return true
		}
	}
	return false
}

// ModuleCapabilities returns the subset of c that are YANG-module
// capabilities rather than NETCONF-base protocol capabilities.
func (c Capabilities) ModuleCapabilities() []string {
	var out []string
	for _, cap := range c {
		if !strings.HasPrefix(cap, netconfBasePrefix) {
			out = append(out, cap)
		}
	}
	return out
}

// ModuleRef is the module/revision/features/deviations tuple encoded in a
// YANG-module capability URI's query string, e.g.
// "...?module=ietf-interfaces&revision=2018-02-20&features=if-mib".
type ModuleRef struct {
	Namespace  string
	Module     string
	Revision   string
	Features   []string
	Deviations []string
}

// ParseModuleRef decodes a capability URI into a ModuleRef. It returns
// ok=false if the URI carries no module= field, i.e. it is a base
// capability rather than a YANG-module one.
func ParseModuleRef(capability string) (ref ModuleRef, ok bool) {
	u, err := url.Parse(capability)
	if err != nil {
		return ModuleRef{}, false
	}

	q := u.Query()
	module := q.Get("module")
	if module == "" {
		return ModuleRef{}, false
	}

	ref = ModuleRef{
		Namespace: capability[:strings.IndexByte(capability, '?')],
		Module:    module,
		Revision:  q.Get("revision"),
	}
	if f := q.Get("features"); f != "" {
		ref.Features = strings.Split(f, ",")
	}
	if d := q.Get("deviations"); d != "" {
		ref.Deviations = strings.Split(d, ",")
	}
	return ref, true
}
