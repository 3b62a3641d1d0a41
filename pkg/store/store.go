// Package store holds the authoritative set of items on the plan view.
//
// The store keeps items in insertion order, which is the order the snap
// resolver and the linkage propagator scan them in and the order they are
// rendered in. Reads hand out deep copies ([Store.Snapshot], [Store.Get]);
// every position write goes through [Store.Commit], which also runs linked
// movement when the committed item is a shaft.
//
// Operations that name an id that is not (or no longer) present are no-ops.
// They report found=false but never return an error, because deleting an
// item while a gesture on it is still running is legitimate.
package store

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/gearbox/pkg/errors"
	"github.com/matzehuels/gearbox/pkg/geom"
	"github.com/matzehuels/gearbox/pkg/linkage"
	"github.com/matzehuels/gearbox/pkg/observability"
	"github.com/matzehuels/gearbox/pkg/part"
)

// Store is the item store. It is safe for concurrent use, although the
// canvas drives it from a single goroutine.
type Store struct {
	mu     sync.RWMutex
	order  []string
	items  map[string]part.Item
	link   linkage.Config
	newID  func() string
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLinkage sets the mounting tolerances used for linked movement.
func WithLinkage(c linkage.Config) Option {
	return func(s *Store) { s.link = c }
}

// WithIDFunc replaces the id generator (uuid by default).
func WithIDFunc(f func() string) Option {
	return func(s *Store) {
		if f != nil {
			s.newID = f
		}
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		items:  make(map[string]part.Item),
		link:   linkage.DefaultConfig(),
		newID:  uuid.NewString,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Linkage returns the mounting tolerances.
func (s *Store) Linkage() linkage.Config {
	return s.link
}

// Insert creates an item of type t at pos with default parameters and
// returns it.
func (s *Store) Insert(t part.Type, pos geom.Point) (part.Item, error) {
	it, err := part.New(t, s.newID(), pos)
	if err != nil {
		return part.Item{}, err
	}
	if err := s.Add(it); err != nil {
		return part.Item{}, err
	}
	return it.Clone(), nil
}

// Add inserts a fully constructed item. The id must be new.
func (s *Store) Add(it part.Item) error {
	if err := it.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.items[it.ID]; dup {
		return errors.New(errors.ErrCodeInvalidInput, "item id %q already exists", it.ID)
	}
	s.items[it.ID] = it.Clone()
	s.order = append(s.order, it.ID)
	s.logger.Debug("item added", "id", it.ID, "type", it.Type, "x", it.Pos.X, "y", it.Pos.Y)
	observability.Layout().OnItemCreated(it.ID, string(it.Type))
	return nil
}

// Get returns a copy of the item with the given id.
func (s *Store) Get(id string) (part.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return part.Item{}, false
	}
	return it.Clone(), true
}

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Snapshot returns copies of all items in insertion order.
func (s *Store) Snapshot() []part.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []part.Item {
	out := make([]part.Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id].Clone())
	}
	return out
}

// CommitResult describes a committed position change.
type CommitResult struct {
	Found bool
	Item  part.Item // the committed item after the write
	Moved []string  // ids carried along by a shaft, in store order
}

// Commit writes pos as the new position of id. When id is a shaft whose
// position changed, parts mounted on it at its old position are translated
// by the same delta.
func (s *Store) Commit(id string, pos geom.Point) CommitResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.items[id]
	if !ok {
		s.logger.Debug("commit dropped: item not found", "id", id)
		return CommitResult{}
	}
	updated := old
	updated.Pos = pos
	s.items[id] = updated
	res := CommitResult{Found: true, Item: updated.Clone()}

	if old.Type != part.Shaft || old.Pos == pos {
		return res
	}

	prop := s.link.Propagate(id, old.Pos, pos, s.snapshotLocked())
	for _, it := range prop.Items {
		if it.ID != id {
			s.items[it.ID] = it
		}
	}
	res.Moved = prop.Moved
	if len(prop.Moved) > 0 {
		s.logger.Debug("linked movement", "shaft", id, "moved", len(prop.Moved),
			"dx", prop.Delta.X, "dy", prop.Delta.Y)
	}
	observability.Layout().OnPropagate(id, len(prop.Moved))
	return res
}

// Update applies a non-positional patch. It returns found=false for an
// unknown id and an error if the patched item would be invalid, in which case
// the stored item is unchanged.
func (s *Store) Update(id string, p part.Patch) (bool, error) {
	return s.modify(id, func(it part.Item) (part.Item, error) {
		return part.Apply(it, p)
	})
}

// AddSegment appends a default segment to shaft id.
func (s *Store) AddSegment(id string) (bool, error) {
	return s.modify(id, part.AddSegment)
}

// RemoveSegment removes segment i of shaft id.
func (s *Store) RemoveSegment(id string, i int) (bool, error) {
	return s.modify(id, func(it part.Item) (part.Item, error) {
		return part.RemoveSegment(it, i)
	})
}

// ResizeSegment sets length and diameter of segment i of shaft id.
func (s *Store) ResizeSegment(id string, i int, length, diameter float64) (bool, error) {
	return s.modify(id, func(it part.Item) (part.Item, error) {
		return part.ResizeSegment(it, i, length, diameter)
	})
}

func (s *Store) modify(id string, fn func(part.Item) (part.Item, error)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		s.logger.Debug("update dropped: item not found", "id", id)
		return false, nil
	}
	updated, err := fn(it)
	if err != nil {
		return true, err
	}
	s.items[id] = updated
	s.logger.Debug("item updated", "id", id, "type", it.Type)
	return true, nil
}

// Delete removes id and reports whether it was present.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.logger.Debug("item deleted", "id", id)
	observability.Layout().OnItemDeleted(id)
	return true
}
