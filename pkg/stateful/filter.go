package stateful

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/getmockd/seedapi/pkg/record"
)

// Query maps field names to the substring each field must contain.
type Query map[string]string

// QueryFromValues builds a Query from URL query parameters. A key repeated in
// the URL is joined with commas, the same rendering an array value gets.
func QueryFromValues(values url.Values) Query {
	q := make(Query, len(values))
	for k, vs := range values {
		q[k] = strings.Join(vs, ",")
	}
	return q
}

// matcher evaluates a Query. A cases.Caser carries state, so each matcher
// owns one and must not be shared between goroutines.
type matcher struct {
	lower  cases.Caser
	fields []string
	needle []string
}

func newMatcher(q Query) *matcher {
	m := &matcher{
		lower:  cases.Lower(language.Und),
		fields: make([]string, 0, len(q)),
		needle: make([]string, 0, len(q)),
	}
	for k, v := range q {
		m.fields = append(m.fields, k)
		m.needle = append(m.needle, m.lower.String(v))
	}
	return m
}

func (m *matcher) match(r record.Record) bool {
	for i, field := range m.fields {
		v, ok := r[field]
		if !ok || v == nil {
			return false
		}
		if !strings.Contains(m.lower.String(record.ToString(v)), m.needle[i]) {
			return false
		}
	}
	return true
}

// Matches reports whether r satisfies every key of q. An empty query matches
// every record. For each key the record must hold a non-null value whose
// lower-cased string rendering contains the lower-cased query value.
func Matches(r record.Record, q Query) bool {
	if len(q) == 0 {
		return true
	}
	return newMatcher(q).match(r)
}

// ApplyFilter returns the records matching q in their original order.
func ApplyFilter(records []record.Record, q Query) []record.Record {
	if len(q) == 0 {
		out := make([]record.Record, len(records))
		copy(out, records)
		return out
	}

	m := newMatcher(q)
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}
