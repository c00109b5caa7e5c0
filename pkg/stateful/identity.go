package stateful

import (
	"math"

	"github.com/getmockd/seedapi/pkg/record"
)

// maxExactInt is the largest integer a float64 holds without rounding.
const maxExactInt = 1 << 53

// NextID returns one more than the largest integral id in records, or 1 when
// no record has one. Ids are coerced with record.ToNumber; ids that are not
// integers after coercion are ignored. Only number and string ids take part.
//
// The result is an int64 when it fits exactly and a float64 otherwise.
func NextID(records []record.Record) any {
	highest := math.Inf(-1)
	for _, r := range records {
		raw, ok := r.ID()
		if !ok {
			continue
		}
		if _, isBool := raw.(bool); isBool {
			continue
		}
		n, ok := record.ToNumber(raw)
		if !ok || !record.IsInteger(n) {
			continue
		}
		if n > highest {
			highest = n
		}
	}

	if math.IsInf(highest, -1) {
		return int64(1)
	}
	next := highest + 1
	if math.Abs(next) <= maxExactInt {
		return int64(next)
	}
	return next
}

// FindByID returns the index and record of the first record whose id renders
// the same as id. Records without an id never match.
func FindByID(records []record.Record, id any) (int, record.Record, bool) {
	want := record.ToString(id)
	for i, r := range records {
		raw, ok := r.ID()
		if !ok {
			continue
		}
		if got, _ := record.CanonicalID(raw); got == want {
			return i, r, true
		}
	}
	return -1, nil, false
}

// RemoveByID removes the first record matched by FindByID, keeping the order
// of the rest. It returns the shortened slice and the removed record.
func RemoveByID(records []record.Record, id any) ([]record.Record, record.Record, bool) {
	i, found, ok := FindByID(records, id)
	if !ok {
		return records, nil, false
	}
	copy(records[i:], records[i+1:])
	records[len(records)-1] = nil
	return records[:len(records)-1], found, true
}
