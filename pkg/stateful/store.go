package stateful

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/getmockd/seedapi/pkg/logging"
	"github.com/getmockd/seedapi/pkg/record"
	"github.com/getmockd/seedapi/pkg/seed"
)

// Store owns the fixed set of collections and the seed source they are
// loaded from.
type Store struct {
	source      seed.Source
	log         *slog.Logger
	observer    Observer
	names       []string
	collections map[string]*Collection
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for seed warnings.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithObserver sets the observer notified of every operation.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithCollections overrides the collection names. Intended for tests; the
// server always uses CollectionNames.
func WithCollections(names ...string) Option {
	return func(s *Store) {
		s.names = append([]string(nil), names...)
	}
}

// NewStore creates a Store with every collection empty. Call Load to fill it
// from the seed source.
func NewStore(source seed.Source, opts ...Option) *Store {
	if source == nil {
		panic("stateful.NewStore: source must not be nil")
	}

	s := &Store{
		source:   source,
		log:      logging.Nop(),
		observer: &NoopObserver{},
		names:    CollectionNames,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.collections = make(map[string]*Collection, len(s.names))
	for _, name := range s.names {
		s.collections[name] = newCollection(name, s.observer)
	}
	return s
}

// Collection returns the named collection.
func (s *Store) Collection(name string) (*Collection, error) {
	c, ok := s.collections[name]
	if !ok {
		return nil, &UnknownCollectionError{Name: name}
	}
	return c, nil
}

// Names returns the collection names in mount order.
func (s *Store) Names() []string {
	return append([]string(nil), s.names...)
}

// Source returns the seed source.
func (s *Store) Source() seed.Source {
	return s.source
}

// Load performs the initial fill. If the seed cannot be read or parsed the
// failure is logged as a warning, every collection stays empty and the error
// is returned for the caller's information; the store remains usable.
func (s *Store) Load(ctx context.Context) error {
	snap, err := s.source.Load(ctx)
	if err != nil {
		s.log.Warn("cannot load seed, serving empty collections",
			"source", s.source.Name(), "error", err)
		return err
	}

	s.swap(s.decode(snap))
	s.log.Info("seed loaded", "source", s.source.Name(), "items", s.counts())
	return nil
}

// Reset re-reads the seed source and replaces every collection. On failure
// the store is left untouched and the error is returned.
func (s *Store) Reset(ctx context.Context) error {
	start := time.Now()

	snap, err := s.source.Load(ctx)
	if err != nil {
		s.observer.OnError("", "reset", err)
		return fmt.Errorf("reset: %w", err)
	}

	s.swap(s.decode(snap))
	s.observer.OnReset(s.Names(), time.Since(start))
	return nil
}

// Overview returns the current length of every collection.
func (s *Store) Overview() *StateOverview {
	items := s.counts()
	total := 0
	for _, n := range items {
		total += n
	}
	return &StateOverview{
		Collections: len(s.names),
		TotalItems:  total,
		Items:       items,
		Source:      s.source.Name(),
	}
}

func (s *Store) counts() map[string]int {
	items := make(map[string]int, len(s.names))
	for _, name := range s.names {
		items[name] = s.collections[name].Len()
	}
	return items
}

// decode pulls every collection out of snap. Collections whose value is not
// an array come back empty; both that and dropped non-object elements are
// logged.
func (s *Store) decode(snap *seed.Snapshot) map[string][]record.Record {
	out := make(map[string][]record.Record, len(s.names))
	for _, name := range s.names {
		records, skipped, err := snap.Collection(name)
		var shapeErr *seed.ShapeError
		if errors.As(err, &shapeErr) {
			s.log.Warn("seed collection ignored", "source", snap.Source, "collection", name, "error", err)
		}
		if skipped > 0 {
			s.log.Warn("seed elements are not objects, skipped",
				"source", snap.Source, "collection", name, "skipped", skipped)
		}
		out[name] = records
	}
	return out
}

// swap installs next into every collection. All collection locks are taken in
// mount order first, so the replacement is atomic across collections.
func (s *Store) swap(next map[string][]record.Record) {
	for _, name := range s.names {
		s.collections[name].mu.Lock()
	}
	for _, name := range s.names {
		s.collections[name].replace(next[name])
	}
	for i := len(s.names) - 1; i >= 0; i-- {
		s.collections[s.names[i]].mu.Unlock()
	}
}
