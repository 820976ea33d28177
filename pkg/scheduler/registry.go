package scheduler

import (
	"sort"
	"sync"
)

// FailureRegistry records pages whose most recent attempt did not reach Ok
// classification. It drives the retry pass; a page is removed upon a later
// success. The scheduler loop is the only writer during a run, but the
// registry carries its own lock so concurrent readers stay safe.
type FailureRegistry struct {
	mu    sync.Mutex
	pages map[int]ErrorClass
}

// NewFailureRegistry creates an empty registry.
func NewFailureRegistry() *FailureRegistry {
	return &FailureRegistry{
		pages: make(map[int]ErrorClass),
	}
}

// Record registers a failed page with the class of its last failure. A page
// already present keeps only the newest class.
func (r *FailureRegistry) Record(page int, class ErrorClass) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[page] = class
}

// Remove deletes a page after a later success.
func (r *FailureRegistry) Remove(page int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pages, page)
}

// Contains reports whether the page is registered as failed.
func (r *FailureRegistry) Contains(page int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.pages[page]
	return ok
}

// Pages returns the registered page numbers in ascending order.
func (r *FailureRegistry) Pages() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	pages := make([]int, 0, len(r.pages))
	for page := range r.pages {
		pages = append(pages, page)
	}
	sort.Ints(pages)
	return pages
}

// Len returns the number of registered pages.
func (r *FailureRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}
