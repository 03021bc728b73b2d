package sync

import (
	"sort"
	stdsync "sync"

	"github.com/retailcore/backend/internal/domain/shared"
)

// TableSpec declares one synchronized table: its replication policy and
// the tables its rows reference. Dependencies drive the apply order so a
// referencing row never lands before its target.
type TableSpec struct {
	Name      string
	Policy    Policy
	DependsOn []string
}

// Registry is the closed set of synchronized tables. Registration happens
// during startup; once the coordinator freezes the registry, further
// registration is rejected.
type Registry struct {
	mu     stdsync.Mutex
	specs  map[string]TableSpec
	order  []string
	frozen bool
}

// NewRegistry creates an empty table registry
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]TableSpec)}
}

// Register adds one table spec. Duplicate names and registration after
// freeze are rejected.
func (r *Registry) Register(spec TableSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return shared.NewInvariantViolation("REGISTRY_FROZEN",
			"tables cannot be registered after synchronization starts")
	}
	if spec.Name == "" {
		return shared.NewDomainError("INVALID_TABLE", "Table name is required")
	}
	if !spec.Policy.IsValid() {
		return shared.NewDomainError("INVALID_POLICY", "Unknown synchronization policy")
	}
	if _, ok := r.specs[spec.Name]; ok {
		return shared.ErrAlreadyExists
	}
	r.specs[spec.Name] = spec
	r.order = append(r.order, spec.Name)
	return nil
}

// Freeze closes the registry; called once when the coordinator starts
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Lookup returns the spec for a table name
func (r *Registry) Lookup(name string) (TableSpec, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	spec, ok := r.specs[name]
	return spec, ok
}

// Tables returns every registered spec, dependency-ordered
func (r *Registry) Tables() ([]TableSpec, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.topoSort()
}

// ApplyOrder sorts a batch's records so referential dependencies are
// respected: a table always follows the tables it depends on. Within one
// table, records apply in te_time order for determinism.
func (r *Registry) ApplyOrder(records []DeltaRecord) ([]DeltaRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ordered, err := r.topoSort()
	if err != nil {
		return nil, err
	}
	rank := make(map[string]int, len(ordered))
	for i, spec := range ordered {
		rank[spec.Name] = i
	}
	for _, rec := range records {
		if _, ok := rank[rec.Table]; !ok {
			return nil, shared.NewDomainError("DATA_ERROR", "Delta record for an unregistered table")
		}
	}

	out := make([]DeltaRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank[out[i].Table], rank[out[j].Table]
		if ri != rj {
			return ri < rj
		}
		if !out[i].TETime.Equal(out[j].TETime) {
			return out[i].TETime.Before(out[j].TETime)
		}
		return out[i].TEID < out[j].TEID
	})
	return out, nil
}

// topoSort orders specs so every table follows its dependencies. Tables at
// equal depth keep their registration order, so the startup declaration
// decides which sibling applies first. Callers hold the mutex.
func (r *Registry) topoSort() ([]TableSpec, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(r.specs))
	out := make([]TableSpec, 0, len(r.specs))

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return shared.NewDomainError("INVALID_TABLE", "Dependency cycle between synchronized tables")
		}
		state[name] = visiting
		spec := r.specs[name]
		for _, dep := range spec.DependsOn {
			if _, ok := r.specs[dep]; !ok {
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[name] = done
		out = append(out, spec)
		return nil
	}

	for _, name := range r.order {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return out, nil
}
