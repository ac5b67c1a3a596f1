package status

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Metric keys written by the simulation core
const (
	SimSteps          = "sim.steps"
	SimBodies         = "sim.bodies"
	SimResyncs        = "sim.resyncs"
	HistorySize       = "history.size"
	HistoryCaptures   = "history.captures"
	PredictionCycles  = "prediction.cycles"
	PredictionDropped = "prediction.dropped"
	PredictionBodies  = "prediction.bodies"
	PredictionLastMs  = "prediction.last_ms"
	PredictionQuality = "prediction.quality"
	CollisionEvents   = "collision.events"
	CollisionActive   = "collision.active"
)

// Registry holds named counters, gauges and labels
// Components fetch pointers once at construction; hot paths touch only the atomics
type Registry struct {
	mu       sync.Mutex
	counters map[string]*atomic.Int64
	gauges   map[string]*Gauge
	labels   map[string]*Label
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[string]*atomic.Int64),
		gauges:   make(map[string]*Gauge),
		labels:   make(map[string]*Label),
	}
}

// OrNew returns r, or a private registry when r is nil
// Lets components accept an optional registry without nil checks in hot paths
func OrNew(r *Registry) *Registry {
	if r != nil {
		return r
	}
	return NewRegistry()
}

// Counter returns the integer metric for key, registering it on first use
// Used both for monotonic counts and for sizes stored with Store
func (r *Registry) Counter(key string) *atomic.Int64 {
	return lookup(&r.mu, r.counters, key)
}

// Gauge returns the float metric for key, registering it on first use
func (r *Registry) Gauge(key string) *Gauge {
	return lookup(&r.mu, r.gauges, key)
}

// Label returns the text metric for key, registering it on first use
func (r *Registry) Label(key string) *Label {
	return lookup(&r.mu, r.labels, key)
}

func lookup[T any](mu *sync.Mutex, m map[string]*T, key string) *T {
	mu.Lock()
	defer mu.Unlock()
	if p, ok := m[key]; ok {
		return p
	}
	p := new(T)
	m[key] = p
	return p
}

// Len returns the number of registered metrics
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.counters) + len(r.gauges) + len(r.labels)
}

// Gauge is a last-value float reading such as a cycle duration
type Gauge struct {
	bits atomic.Uint64
}

func (g *Gauge) Set(v float64) { g.bits.Store(math.Float64bits(v)) }

func (g *Gauge) Value() float64 { return math.Float64frombits(g.bits.Load()) }

// Label is a short text reading such as the active prediction tier
type Label struct {
	v atomic.Value
}

func (l *Label) Set(s string) { l.v.Store(s) }

// Value returns the last label, empty before the first Set
func (l *Label) Value() string {
	s, _ := l.v.Load().(string)
	return s
}

// Metric is a formatted key/value pair for display
type Metric struct {
	Key   string
	Value string
}

// Dump formats every metric in key order
func (r *Registry) Dump() []Metric {
	r.mu.Lock()
	out := make([]Metric, 0, len(r.counters)+len(r.gauges)+len(r.labels))
	for k, c := range r.counters {
		out = append(out, Metric{k, strconv.FormatInt(c.Load(), 10)})
	}
	for k, g := range r.gauges {
		out = append(out, Metric{k, strconv.FormatFloat(g.Value(), 'f', 2, 64)})
	}
	for k, l := range r.labels {
		out = append(out, Metric{k, l.Value()})
	}
	r.mu.Unlock()

	slices.SortFunc(out, func(a, b Metric) int { return strings.Compare(a.Key, b.Key) })
	return out
}
