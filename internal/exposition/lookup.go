package exposition

import "strings"

// Label is a single required label for a lookup. Labels are supplied as an
// ordered slice so the fast path can render the key exactly as the caller
// expects it to appear.
type Label struct {
	Name  string
	Value string
}

// L is shorthand for building a Label.
func L(name, value string) Label {
	return Label{Name: name, Value: value}
}

// Lookup resolves a metric value by name and required labels.
//
// With no labels the bare name is looked up as an exact key. With labels it
// first tries the exact key rendered in the supplied order, then falls back
// to scanning every series of that name and accepting the first whose label
// set is a superset of the required labels. The second return is false when
// nothing matches; absence is a valid state (a validator with zero missed
// blocks has no counter at all) and must not be read as zero.
func (s Snapshot) Lookup(name string, labels ...Label) (float64, bool) {
	if len(labels) == 0 {
		v, ok := s[Key{Name: name}]
		return v, ok
	}

	if v, ok := s[Key{Name: name, Labels: renderLabels(labels)}]; ok {
		return v, true
	}

	for k, v := range s {
		if k.Name != name || !strings.HasPrefix(k.Labels, "{") || !strings.HasSuffix(k.Labels, "}") {
			continue
		}
		have := parseLabels(k.Labels[1 : len(k.Labels)-1])
		if supersetMatch(have, labels) {
			return v, true
		}
	}
	return 0, false
}

func renderLabels(labels []Label) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, l := range labels {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(l.Name)
		b.WriteString(`="`)
		b.WriteString(l.Value)
		b.WriteString(`"`)
	}
	b.WriteByte('}')
	return b.String()
}

func parseLabels(interior string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(interior, ",") {
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(name)] = strings.Trim(value, `"`)
	}
	return out
}

// supersetMatch reports whether every required label is present with the
// exact required value; extra labels on the series are ignored.
func supersetMatch(have map[string]string, want []Label) bool {
	for _, l := range want {
		if have[l.Name] != l.Value {
			return false
		}
	}
	return true
}
