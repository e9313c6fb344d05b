package ops

import (
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// QueryResult navigates the raw XML returned by GetXpath/GetConfigXpath
// with an independent XPath engine, for callers that would rather walk
// the result tree than unmarshal it into a matching Go struct.
type QueryResult struct {
	doc *xmlquery.Node
}

// ParseQueryResult parses rawXML (a GetXpath/GetConfigXpath result's raw
// <data> body) for subsequent XPath queries.
func ParseQueryResult(rawXML string) (*QueryResult, error) {
	doc, err := xmlquery.Parse(strings.NewReader(rawXML))
	if err != nil {
		return nil, err
	}
	return &QueryResult{doc: doc}, nil
}

// Find returns the text content of every node matching expr.
func (r *QueryResult) Find(expr string) ([]string, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, n := range xmlquery.QuerySelectorAll(r.doc, compiled) {
		out = append(out, strings.TrimSpace(n.InnerText()))
	}
	return out, nil
}

// FindOne returns the text content of the first node matching expr, and
// false if nothing matched.
func (r *QueryResult) FindOne(expr string) (string, bool, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return "", false, err
	}
	n := xmlquery.QuerySelector(r.doc, compiled)
	if n == nil {
		return "", false, nil
	}
	return strings.TrimSpace(n.InnerText()), true, nil
}
