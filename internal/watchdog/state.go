package watchdog

import (
	"sort"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// State is the liveness verdict for one plugin identity.
type State int

// Liveness states.
const (
	Unknown State = iota
	Alive
	Dead
	Reviving
)

func (s State) String() string {
	switch s {
	case Alive:
		return "alive"
	case Dead:
		return "dead"
	case Reviving:
		return "reviving"
	default:
		return "unknown"
	}
}

// Verdict classifies a heartbeat age against the staleness threshold.
func Verdict(age, staleAfter time.Duration) State {
	if age > staleAfter {
		return Dead
	}
	return Alive
}

// Status is the observable record kept for one plugin identity.
type Status struct {
	PluginID    string    `json:"plugin_id"`
	State       State     `json:"-"`
	StateName   string    `json:"state"`
	Since       time.Time `json:"since"`
	LastBeat    time.Time `json:"last_beat,omitempty"`
	LastRevival time.Time `json:"last_revival,omitempty"`
	Revivals    int       `json:"revivals"`
	PID         int       `json:"pid,omitempty"`
}

// Registry holds the Status of every watched identity. It is safe for
// concurrent use by the detection paths of several monitors.
type Registry struct {
	m cmap.ConcurrentMap[string, Status]
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{m: cmap.New[Status]()}
}

// Get returns the status of id; identities never seen are Unknown.
func (r *Registry) Get(id string) Status {
	if st, ok := r.m.Get(id); ok {
		return st
	}
	return Status{PluginID: id, State: Unknown, StateName: Unknown.String()}
}

// Update applies fn to the current status of id atomically and stores the
// result. Since is bumped whenever the state changes.
func (r *Registry) Update(id string, now time.Time, fn func(Status) Status) Status {
	return r.m.Upsert(id, Status{}, func(exist bool, cur, _ Status) Status {
		if !exist {
			cur = Status{PluginID: id, State: Unknown, Since: now}
		}
		next := fn(cur)
		next.PluginID = id
		if next.State != cur.State {
			next.Since = now
		}
		next.StateName = next.State.String()
		return next
	})
}

// Snapshot returns every status ordered by identity.
func (r *Registry) Snapshot() []Status {
	items := r.m.Items()
	out := make([]Status, 0, len(items))
	for _, st := range items {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PluginID < out[j].PluginID })
	return out
}
