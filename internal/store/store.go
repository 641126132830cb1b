// Package store holds the normalized in-memory entity collections that views
// render from. Stores never talk to the Gateway; controllers commit results
// into them after inspecting the outcome of a Synchronization Layer call.
package store

import (
	"sync"

	"github.com/straye-as/relation-sync/internal/domain"
)

// Operation names a store-level operation with its own loading flag and error
type Operation string

const (
	OpList   Operation = "list"
	OpGet    Operation = "get"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Operations lists every operation tracked by a store
var Operations = []Operation{OpList, OpGet, OpCreate, OpUpdate, OpDelete}

// InsertPolicy decides where Add places new records
type InsertPolicy int

const (
	// InsertTail appends new records
	InsertTail InsertPolicy = iota
	// InsertHead prepends new records (newest-first lists)
	InsertHead
)

// State is a point-in-time copy of a store
type State[T domain.Entity, F any] struct {
	List       []T                  `json:"list"`
	Current    *T                   `json:"current"`
	Loading    map[Operation]bool   `json:"loading"`
	Errors     map[Operation]string `json:"errors"`
	Error      string               `json:"error,omitempty"`
	Filters    F                    `json:"filters"`
	Pagination domain.Pagination    `json:"pagination"`
	Sorting    domain.Sorting       `json:"sorting"`
}

// Ticket identifies one issued request for fencing stale responses
type Ticket struct {
	Op    Operation
	Epoch uint64
}

// Store is an observable collection of one entity type.
// All methods are safe for concurrent use. Subscribers see snapshots in the
// order the mutations were applied and must not mutate the store from the
// callback.
type Store[T domain.Entity, F any] struct {
	// commitMu orders Commit against Reset
	commitMu sync.Mutex

	mu             sync.RWMutex
	list           []T
	current        *T
	loading        map[Operation]bool
	errors         map[Operation]string
	errorSeq       map[Operation]uint64
	seq            uint64
	filters        F
	defaultFilters F
	pagination     domain.Pagination
	sorting        domain.Sorting
	defaultSorting domain.Sorting
	policy         InsertPolicy
	epochs         map[Operation]uint64

	notifyMu    sync.Mutex
	subMu       sync.Mutex
	subscribers map[int]func(State[T, F])
	nextSub     int
}

// Options configure a new store
type Options[F any] struct {
	Policy  InsertPolicy
	Filters F
	Sorting domain.Sorting
}

// New creates an empty store
func New[T domain.Entity, F any](opts Options[F]) *Store[T, F] {
	return &Store[T, F]{
		list:           []T{},
		loading:        make(map[Operation]bool),
		errors:         make(map[Operation]string),
		errorSeq:       make(map[Operation]uint64),
		filters:        opts.Filters,
		defaultFilters: opts.Filters,
		pagination:     domain.DefaultPagination(),
		sorting:        opts.Sorting,
		defaultSorting: opts.Sorting,
		policy:         opts.Policy,
		epochs:         make(map[Operation]uint64),
		subscribers:    make(map[int]func(State[T, F])),
	}
}

// update runs fn under the write lock and notifies subscribers afterwards.
// notifyMu is taken before mu is released, so notifications go out in
// mutation order.
func (s *Store[T, F]) update(fn func()) {
	s.mu.Lock()
	fn()
	state := s.snapshotLocked()
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	s.notify(state)
}

// Reset returns the store to its initial state: empty list, no current
// record, no loading flags or errors, default filters, pagination and sorting.
// Every outstanding ticket is invalidated, so responses still in flight are
// never committed. Reset waits for a running Commit.
func (s *Store[T, F]) Reset() {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	s.update(func() {
		for _, op := range Operations {
			s.epochs[op]++
		}
		s.list = []T{}
		s.current = nil
		s.loading = make(map[Operation]bool)
		s.errors = make(map[Operation]string)
		s.errorSeq = make(map[Operation]uint64)
		s.filters = s.defaultFilters
		s.pagination = domain.DefaultPagination()
		s.sorting = s.defaultSorting
	})
}

// SetList replaces the full list and clears the list error.
// Pagination and the current record are left alone.
func (s *Store[T, F]) SetList(items []T) {
	s.update(func() {
		s.list = dedupe(items)
		s.clearErrorLocked(OpList)
	})
}

// SetCurrent sets the record shown by detail views; nil clears it
func (s *Store[T, F]) SetCurrent(item *T) {
	s.update(func() {
		if item == nil {
			s.current = nil
		} else {
			v := *item
			s.current = &v
		}
		s.clearErrorLocked(OpGet)
	})
}

// Add inserts one record according to the store's insert policy.
// A record whose key is already present replaces it in place.
func (s *Store[T, F]) Add(item T) {
	s.update(func() {
		if idx := s.indexLocked(item.RecordKey()); idx >= 0 {
			s.list[idx] = item
		} else if s.policy == InsertHead {
			s.list = append([]T{item}, s.list...)
		} else {
			s.list = append(s.list, item)
		}
		s.clearErrorLocked(OpCreate)
	})
}

// Replace overwrites the record with the same key, and the current record if
// it matches. Unknown keys leave the list untouched.
func (s *Store[T, F]) Replace(item T) {
	s.update(func() {
		key := item.RecordKey()
		if idx := s.indexLocked(key); idx >= 0 {
			s.list[idx] = item
		}
		if s.current != nil && (*s.current).RecordKey() == key {
			v := item
			s.current = &v
		}
		s.clearErrorLocked(OpUpdate)
	})
}

// Remove drops the record with key and clears the current record if it matches
func (s *Store[T, F]) Remove(key string) {
	s.update(func() {
		kept := make([]T, 0, len(s.list))
		for _, item := range s.list {
			if item.RecordKey() != key {
				kept = append(kept, item)
			}
		}
		s.list = kept
		if s.current != nil && (*s.current).RecordKey() == key {
			s.current = nil
		}
		s.clearErrorLocked(OpDelete)
	})
}

// RemoveByID drops the Gateway record with id
func (s *Store[T, F]) RemoveByID(id int64) {
	s.Remove(domain.IDKey(id))
}

// SetLoading sets exactly one loading flag
func (s *Store[T, F]) SetLoading(op Operation, isLoading bool) {
	s.update(func() {
		s.loading[op] = isLoading
	})
}

// SetError records msg as the error of op; an empty msg clears it
func (s *Store[T, F]) SetError(op Operation, msg string) {
	s.update(func() {
		if msg == "" {
			s.clearErrorLocked(op)
			return
		}
		s.seq++
		s.errors[op] = msg
		s.errorSeq[op] = s.seq
	})
}

// ClearError clears the error of op
func (s *Store[T, F]) ClearError(op Operation) {
	s.SetError(op, "")
}

// SetFilters applies fn to the filters in place
func (s *Store[T, F]) SetFilters(fn func(*F)) {
	s.update(func() {
		fn(&s.filters)
	})
}

// ClearFilters restores the initial filters and rewinds to the first page
func (s *Store[T, F]) ClearFilters() {
	s.update(func() {
		s.filters = s.defaultFilters
		s.pagination.CurrentPage = 1
	})
}

// SetPagination merges a partial pagination update
func (s *Store[T, F]) SetPagination(patch domain.PaginationPatch) {
	s.update(func() {
		s.pagination = patch.Apply(s.pagination)
	})
}

// ReplacePagination installs the pagination block from a list response
func (s *Store[T, F]) ReplacePagination(p domain.Pagination) {
	s.update(func() {
		s.pagination = p
	})
}

// SetSorting replaces the active ordering
func (s *Store[T, F]) SetSorting(sorting domain.Sorting) {
	s.update(func() {
		s.sorting = sorting
	})
}

// BeginRequest issues a new ticket for op, superseding earlier ones
func (s *Store[T, F]) BeginRequest(op Operation) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epochs[op]++
	return Ticket{Op: op, Epoch: s.epochs[op]}
}

// IsLatest reports whether t is the most recent ticket issued for its operation
func (s *Store[T, F]) IsLatest(t Ticket) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epochs[t.Op] == t.Epoch
}

// Commit runs fn only if t is still the latest ticket for its operation.
// The check and fn are atomic with respect to Reset. fn may call the store's
// mutators but not Commit or Reset.
func (s *Store[T, F]) Commit(t Ticket, fn func()) bool {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	if !s.IsLatest(t) {
		return false
	}
	fn()
	return true
}

// List returns a copy of the records
func (s *Store[T, F]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.list))
	copy(out, s.list)
	return out
}

// Find returns the record with key
func (s *Store[T, F]) Find(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexLocked(key); idx >= 0 {
		return s.list[idx], true
	}
	var zero T
	return zero, false
}

// Current returns a copy of the current record
func (s *Store[T, F]) Current() *T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	v := *s.current
	return &v
}

// IsLoading reports the flag for op
func (s *Store[T, F]) IsLoading(op Operation) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[op]
}

// ErrorFor returns the error recorded for op
func (s *Store[T, F]) ErrorFor(op Operation) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errors[op]
}

// Error returns the most recently recorded error that is still set
func (s *Store[T, F]) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestErrorLocked()
}

// Filters returns the active filters
func (s *Store[T, F]) Filters() F {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// Pagination returns the pagination state
func (s *Store[T, F]) Pagination() domain.Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

// Sorting returns the active ordering
func (s *Store[T, F]) Sorting() domain.Sorting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorting
}

// Snapshot returns a copy of the full state
func (s *Store[T, F]) Snapshot() State[T, F] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to be called with a snapshot after every mutation
func (s *Store[T, F]) Subscribe(fn func(State[T, F])) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Store[T, F]) notify(state State[T, F]) {
	s.subMu.Lock()
	fns := make([]func(State[T, F]), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

func (s *Store[T, F]) snapshotLocked() State[T, F] {
	list := make([]T, len(s.list))
	copy(list, s.list)

	loading := make(map[Operation]bool, len(Operations))
	for _, op := range Operations {
		loading[op] = s.loading[op]
	}
	errs := make(map[Operation]string, len(s.errors))
	for op, msg := range s.errors {
		errs[op] = msg
	}

	var current *T
	if s.current != nil {
		v := *s.current
		current = &v
	}

	return State[T, F]{
		List:       list,
		Current:    current,
		Loading:    loading,
		Errors:     errs,
		Error:      s.latestErrorLocked(),
		Filters:    s.filters,
		Pagination: s.pagination,
		Sorting:    s.sorting,
	}
}

func (s *Store[T, F]) latestErrorLocked() string {
	var (
		msg  string
		best uint64
	)
	for op, m := range s.errors {
		if seq := s.errorSeq[op]; seq >= best {
			best = seq
			msg = m
		}
	}
	return msg
}

func (s *Store[T, F]) clearErrorLocked(op Operation) {
	delete(s.errors, op)
	delete(s.errorSeq, op)
}

func (s *Store[T, F]) indexLocked(key string) int {
	for i, item := range s.list {
		if item.RecordKey() == key {
			return i
		}
	}
	return -1
}

// dedupe keeps the first occurrence of each key and drops later ones
func dedupe[T domain.Entity](items []T) []T {
	out := make([]T, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		key := item.RecordKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
