package stateful

import (
	"sync"
	"time"

	"github.com/getmockd/seedapi/pkg/record"
)

// Collection is a named, ordered sequence of records.
//
// Records handed out by a Collection are shallow clones: a later Update never
// changes a record a caller already holds.
type Collection struct {
	mu       sync.RWMutex
	name     string
	records  []record.Record
	observer Observer
}

func newCollection(name string, observer Observer) *Collection {
	return &Collection{
		name:     name,
		records:  []record.Record{},
		observer: observer,
	}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Len returns the number of records.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// List returns every record matching q in insertion order. An empty query
// returns the whole collection.
func (c *Collection) List(q Query) []record.Record {
	start := time.Now()

	c.mu.RLock()
	matched := ApplyFilter(c.records, q)
	out := cloneAll(matched)
	c.mu.RUnlock()

	c.observer.OnList(c.name, len(out), time.Since(start))
	return out
}

// Get returns the first record whose id renders as id.
func (c *Collection) Get(id string) (record.Record, error) {
	start := time.Now()

	c.mu.RLock()
	_, found, ok := FindByID(c.records, id)
	if ok {
		found = record.Clone(found)
	}
	c.mu.RUnlock()

	if !ok {
		err := &NotFoundError{Collection: c.name, ID: id}
		c.observer.OnError(c.name, "get", err)
		return nil, err
	}

	c.observer.OnRead(c.name, id, time.Since(start))
	return found, nil
}

// Create appends a copy of body and returns body. A body without an id (or
// with a null id) is first given NextID. Duplicate ids are admitted.
func (c *Collection) Create(body record.Record) record.Record {
	start := time.Now()

	if body == nil {
		body = record.Record{}
	}

	c.mu.Lock()
	if _, ok := body.ID(); !ok {
		body[record.IDField] = NextID(c.records)
	}
	c.records = append(c.records, record.Clone(body))
	c.mu.Unlock()

	c.observer.OnCreate(c.name, record.ToString(body[record.IDField]), time.Since(start))
	return body
}

// Update shallow-merges patch into the record addressed by id. Keys in patch
// are added or overwritten, including id itself; no key is removed.
func (c *Collection) Update(id string, patch record.Record) (record.Record, error) {
	start := time.Now()

	c.mu.Lock()
	_, found, ok := FindByID(c.records, id)
	if ok {
		for k, v := range patch {
			found[k] = v
		}
		found = record.Clone(found)
	}
	c.mu.Unlock()

	if !ok {
		err := &NotFoundError{Collection: c.name, ID: id}
		c.observer.OnError(c.name, "update", err)
		return nil, err
	}

	c.observer.OnUpdate(c.name, id, time.Since(start))
	return found, nil
}

// Delete removes the record addressed by id and returns it.
func (c *Collection) Delete(id string) (record.Record, error) {
	start := time.Now()

	c.mu.Lock()
	remaining, removed, ok := RemoveByID(c.records, id)
	c.records = remaining
	c.mu.Unlock()

	if !ok {
		err := &NotFoundError{Collection: c.name, ID: id}
		c.observer.OnError(c.name, "delete", err)
		return nil, err
	}

	c.observer.OnDelete(c.name, id, time.Since(start))
	return removed, nil
}

// replace swaps in records. The caller holds c.mu.
func (c *Collection) replace(records []record.Record) {
	c.records = records
}

func cloneAll(records []record.Record) []record.Record {
	out := make([]record.Record, len(records))
	for i, r := range records {
		out[i] = record.Clone(r)
	}
	return out
}
