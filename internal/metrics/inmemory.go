package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// MutationCount is the counter for one (kind, action) pair.
type MutationCount struct {
	Kind   string
	Action string
	Count  uint64
}

// QueryTiming is the count and total duration of one read operation.
type QueryTiming struct {
	Operation string
	Count     uint64
	TotalNs   int64
}

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Mutations       []MutationCount
	Queries         []QueryTiming
	EventsPublished uint64
	EventsDropped   uint64
	RateLimited     uint64
}

// Mutation returns the count recorded for kind and action.
func (s Snapshot) Mutation(kind, action string) uint64 {
	for _, m := range s.Mutations {
		if m.Kind == kind && m.Action == action {
			return m.Count
		}
	}
	return 0
}

type mutationKey struct {
	kind   string
	action string
}

// InMemoryRecorder stores metrics in memory for tests and simple deployments.
type InMemoryRecorder struct {
	mu        sync.Mutex
	mutations map[mutationKey]uint64
	queries   map[string]*QueryTiming

	eventsPublished uint64
	eventsDropped   uint64
	rateLimited     uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		mutations: make(map[mutationKey]uint64),
		queries:   make(map[string]*QueryTiming),
	}
}

// Snapshot returns a copy of the counters, sorted for stable output.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	mutations := make([]MutationCount, 0, len(m.mutations))
	for k, v := range m.mutations {
		mutations = append(mutations, MutationCount{Kind: k.kind, Action: k.action, Count: v})
	}
	queries := make([]QueryTiming, 0, len(m.queries))
	for _, q := range m.queries {
		queries = append(queries, *q)
	}
	m.mu.Unlock()

	sort.Slice(mutations, func(i, j int) bool {
		if mutations[i].Kind != mutations[j].Kind {
			return mutations[i].Kind < mutations[j].Kind
		}
		return mutations[i].Action < mutations[j].Action
	})
	sort.Slice(queries, func(i, j int) bool {
		return queries[i].Operation < queries[j].Operation
	})

	return Snapshot{
		Mutations:       mutations,
		Queries:         queries,
		EventsPublished: atomic.LoadUint64(&m.eventsPublished),
		EventsDropped:   atomic.LoadUint64(&m.eventsDropped),
		RateLimited:     atomic.LoadUint64(&m.rateLimited),
	}
}

// IncRecordMutation increments the mutation counter for kind and action.
func (m *InMemoryRecorder) IncRecordMutation(kind, action string) {
	m.mu.Lock()
	m.mutations[mutationKey{kind: kind, action: action}]++
	m.mu.Unlock()
}

// ObserveQueryDuration records a read operation duration.
func (m *InMemoryRecorder) ObserveQueryDuration(operation string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queries[operation]
	if !ok {
		q = &QueryTiming{Operation: operation}
		m.queries[operation] = q
	}
	q.Count++
	q.TotalNs += duration.Nanoseconds()
}

// IncEventPublished increments the event counter for status.
func (m *InMemoryRecorder) IncEventPublished(status string) {
	if status == "dropped" {
		atomic.AddUint64(&m.eventsDropped, 1)
		return
	}
	atomic.AddUint64(&m.eventsPublished, 1)
}

// IncRateLimited increments the rate-limited request counter.
func (m *InMemoryRecorder) IncRateLimited() {
	atomic.AddUint64(&m.rateLimited, 1)
}
