package pipeline

import "strings"

// metaLayout maps the metadata columns into the output header. Columns the
// input already carries are reused in place, so running the tool over its own
// output rewrites the same cells instead of growing the file — that is what
// keeps a second pass byte-identical to the first.
type metaLayout struct {
	header   []string
	norm     int
	valid    int
	domain   int
	verified int // -1 when verification is off
}

func buildLayout(header []string, withVerified bool) *metaLayout {
	l := &metaLayout{
		header:   append([]string(nil), header...),
		verified: -1,
	}
	l.norm = l.ensure(colNormalizedEmail)
	l.valid = l.ensure(colIsValid)
	l.domain = l.ensure(colDomain)
	if withVerified {
		l.verified = l.ensure(colVerified)
	}
	return l
}

func (l *metaLayout) ensure(name string) int {
	for i, h := range l.header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	l.header = append(l.header, name)
	return len(l.header) - 1
}

// apply copies fields into the output shape and fills the metadata cells.
// The source row is never mutated. Load guarantees fields is never wider than
// the header, so the copy drops nothing.
func (l *metaLayout) apply(fields []string, norm, valid, domain, verified string) []string {
	row := make([]string, len(l.header))
	copy(row, fields)
	row[l.norm] = norm
	row[l.valid] = valid
	row[l.domain] = domain
	if l.verified >= 0 {
		row[l.verified] = verified
	}
	return row
}
