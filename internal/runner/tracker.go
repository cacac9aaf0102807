package runner

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// ErrNotTracked is returned when recording a result for a server the Tracker does not know.
var ErrNotTracked = errors.New("server not tracked")

// Tracker collects results as probes complete.
type Tracker struct {
	mu      sync.RWMutex
	results map[string]*ServerResult
}

// NewTracker returns a Tracker expecting one result for each name.
func NewTracker(names []string) *Tracker {
	results := make(map[string]*ServerResult, len(names))
	for _, name := range names {
		results[name] = nil
	}
	return &Tracker{results: results}
}

// Record stores the result for a tracked server.
func (t *Tracker) Record(res ServerResult) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.results[res.Name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotTracked, res.Name)
	}

	t.results[res.Name] = &res
	return nil
}

// Get returns the result for a server once it has been recorded.
func (t *Tracker) Get(name string) (ServerResult, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	res, ok := t.results[name]
	if !ok || res == nil {
		return ServerResult{}, false
	}
	return *res, true
}

// Pending returns the names of servers without a result, sorted.
func (t *Tracker) Pending() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var pending []string
	for _, name := range slices.Sorted(maps.Keys(t.results)) {
		if t.results[name] == nil {
			pending = append(pending, name)
		}
	}
	return pending
}

// List returns a copy of all recorded results, sorted by server name.
func (t *Tracker) List() []ServerResult {
	t.mu.RLock()
	defer t.mu.RUnlock()

	list := make([]ServerResult, 0, len(t.results))
	for _, res := range t.results {
		if res != nil {
			list = append(list, *res)
		}
	}

	slices.SortFunc(list, func(a, b ServerResult) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return list
}
