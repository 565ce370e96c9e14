package xav

import (
	"encoding/xml"
	"strings"
)

// node is an XML element decoded without a schema so that carrier elements
// the typed structs do not model still reach the client.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

// text follows child local names and returns the trimmed text at the end.
func (n node) text(path ...string) string {
	cur := n
	for _, name := range path {
		next, ok := cur.child(name)
		if !ok {
			return ""
		}
		cur = next
	}
	return strings.TrimSpace(cur.Text)
}

func (n node) child(name string) (node, bool) {
	for _, c := range n.Children {
		if c.XMLName.Local == name {
			return c, true
		}
	}
	return node{}, false
}

// value renders the element the way a JSON client expects: leaves become
// strings, empty elements become {}, repeated names become arrays and
// non-namespace attributes go under "@attributes".
func (n node) value() any {
	attrs := plainAttrs(n.Attrs)
	if len(n.Children) == 0 && len(attrs) == 0 {
		if t := strings.TrimSpace(n.Text); t != "" {
			return t
		}
		return map[string]any{}
	}
	out := groupNodes(n.Children)
	if out == nil {
		out = make(map[string]any, 1)
	}
	if len(attrs) > 0 {
		out["@attributes"] = attrs
	}
	if len(n.Children) == 0 {
		if t := strings.TrimSpace(n.Text); t != "" {
			out["0"] = t
		}
	}
	return out
}

// groupNodes keys elements by local name. Nil when there are none.
func groupNodes(nodes []node) map[string]any {
	if len(nodes) == 0 {
		return nil
	}
	out := make(map[string]any, len(nodes))
	for _, c := range nodes {
		name := c.XMLName.Local
		v := c.value()
		switch prev := out[name].(type) {
		case nil:
			out[name] = v
		case []any:
			out[name] = append(prev, v)
		default:
			out[name] = []any{prev, v}
		}
	}
	return out
}

func plainAttrs(attrs []xml.Attr) map[string]string {
	var out map[string]string
	for _, a := range attrs {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		if out == nil {
			out = make(map[string]string, len(attrs))
		}
		out[a.Name.Local] = a.Value
	}
	return out
}
