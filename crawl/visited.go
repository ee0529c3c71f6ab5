package crawl

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// visitedFalsePositiveRate sizes the bloom pre-check of a VisitedSet.
const visitedFalsePositiveRate = 0.01

// VisitedSet records the canonical URLs a session has reserved and enforces
// the session's page budget. Once reserved, a URL is never released.
// It is safe for concurrent use by multiple goroutines.
type VisitedSet struct {
	mu     sync.Mutex
	budget int
	filter *bloom.BloomFilter
	seen   map[string]struct{}
	order  []string
}

// NewVisitedSet creates a VisitedSet that admits at most budget URLs.
// A negative budget is treated as zero.
func NewVisitedSet(budget int) *VisitedSet {
	if budget < 0 {
		budget = 0
	}
	return &VisitedSet{
		budget: budget,
		filter: bloom.NewWithEstimates(uint(max(budget, 1)), visitedFalsePositiveRate),
		seen:   make(map[string]struct{}, budget),
	}
}

// TryReserve marks canonical as visited if the budget is not exhausted and
// the URL has not been reserved before. It reports whether the caller may
// proceed with the URL. The check and the mark happen under one lock.
func (v *VisitedSet) TryReserve(canonical string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.order) >= v.budget {
		return false
	}
	if v.contains(canonical) {
		return false
	}
	v.filter.AddString(canonical)
	v.seen[canonical] = struct{}{}
	v.order = append(v.order, canonical)
	return true
}

// Seen reports whether canonical has been reserved.
func (v *VisitedSet) Seen(canonical string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.contains(canonical)
}

// contains must be called with mu held. The bloom filter has no false
// negatives, so a miss there is final; a hit is confirmed by the map.
func (v *VisitedSet) contains(canonical string) bool {
	if !v.filter.TestString(canonical) {
		return false
	}
	_, ok := v.seen[canonical]
	return ok
}

// Len returns the number of reserved URLs.
func (v *VisitedSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.order)
}

// Budget returns the maximum number of URLs the set admits.
func (v *VisitedSet) Budget() int {
	return v.budget
}

// Exhausted reports whether no further reservations are possible.
func (v *VisitedSet) Exhausted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.order) >= v.budget
}

// URLs returns the reserved URLs in reservation order.
func (v *VisitedSet) URLs() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.order...)
}
