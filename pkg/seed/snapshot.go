package seed

import (
	"fmt"
	"sort"

	"github.com/getmockd/seedapi/pkg/record"
)

// Snapshot is one parsed seed document.
type Snapshot struct {
	// Source names where the document came from.
	Source string

	doc map[string]any
}

// Keys returns the top-level keys of the document in sorted order.
func (s *Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.doc))
	for k := range s.doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Collection extracts the array stored under name.
//
// A missing or null key yields an empty collection. A key holding anything
// other than an array yields an empty collection and a *ShapeError. Array
// elements that are not objects are dropped and counted in skipped.
func (s *Snapshot) Collection(name string) (records []record.Record, skipped int, err error) {
	raw, ok := s.doc[name]
	if !ok || raw == nil {
		return []record.Record{}, 0, nil
	}

	items, ok := raw.([]any)
	if !ok {
		return []record.Record{}, 0, &ShapeError{Collection: name, Got: fmt.Sprintf("%T", raw)}
	}

	records = make([]record.Record, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		records = append(records, record.Record(obj))
	}
	return records, skipped, nil
}
