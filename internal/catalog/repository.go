package catalog

import (
	"slices"
	"sync/atomic"
	"time"

	"github.com/yourorg/property-portal/internal/model"
)

type index struct {
	snap       *Snapshot
	source     string
	loadedAt   time.Time
	managers   map[string]int
	properties map[string]int
	units      map[string]int
	tenants    map[string]int
	vendors    map[string]int
}

func positions[T any](records []T, id func(T) string) map[string]int {
	m := make(map[string]int, len(records))
	for i, r := range records {
		m[id(r)] = i
	}
	return m
}

// Repository is the read-only provider handed to views. Reloads replace the
// whole snapshot at once; readers never observe a mix of two snapshots.
type Repository struct {
	cur atomic.Pointer[index]
}

func NewRepository(s *Snapshot, source string) *Repository {
	r := &Repository{}
	r.Replace(s, source)
	return r
}

// Replace swaps in a new snapshot. A nil snapshot is treated as empty and
// leaves the repository unloaded.
func (r *Repository) Replace(s *Snapshot, source string) {
	loadedAt := time.Now()
	if s == nil {
		s = &Snapshot{}
		loadedAt = time.Time{}
	}
	r.cur.Store(&index{
		snap:       s,
		source:     source,
		loadedAt:   loadedAt,
		managers:   positions(s.Managers, func(m model.Manager) string { return m.ID }),
		properties: positions(s.Properties, func(p model.Property) string { return p.ID }),
		units:      positions(s.Units, func(u model.Unit) string { return u.ID }),
		tenants:    positions(s.Tenants, func(t model.Tenant) string { return t.ID }),
		vendors:    positions(s.Vendors, func(v model.Vendor) string { return v.ID }),
	})
}

func (r *Repository) load() *index {
	if idx := r.cur.Load(); idx != nil {
		return idx
	}
	return &index{snap: &Snapshot{}}
}

type Status struct {
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Counts   Counts    `json:"counts"`
}

// Loaded reports whether a snapshot has ever been installed.
func (s Status) Loaded() bool { return !s.LoadedAt.IsZero() }

func (r *Repository) Status() Status {
	idx := r.load()
	return Status{Source: idx.source, LoadedAt: idx.loadedAt, Counts: idx.snap.Counts()}
}

func (r *Repository) Properties() []model.Property { return slices.Clone(r.load().snap.Properties) }
func (r *Repository) Tenants() []model.Tenant      { return slices.Clone(r.load().snap.Tenants) }
func (r *Repository) Vendors() []model.Vendor      { return slices.Clone(r.load().snap.Vendors) }
func (r *Repository) Managers() []model.Manager    { return slices.Clone(r.load().snap.Managers) }

func (r *Repository) Property(id string) (model.Property, bool) {
	idx := r.load()
	return lookup(idx.snap.Properties, idx.properties, id)
}

func (r *Repository) Tenant(id string) (model.Tenant, bool) {
	idx := r.load()
	return lookup(idx.snap.Tenants, idx.tenants, id)
}

func (r *Repository) Vendor(id string) (model.Vendor, bool) {
	idx := r.load()
	return lookup(idx.snap.Vendors, idx.vendors, id)
}

func (r *Repository) Manager(id string) (model.Manager, bool) {
	idx := r.load()
	return lookup(idx.snap.Managers, idx.managers, id)
}

func (r *Repository) Unit(id string) (model.Unit, bool) {
	idx := r.load()
	return lookup(idx.snap.Units, idx.units, id)
}

// UnitsFor lists a property's units in catalog order.
func (r *Repository) UnitsFor(propertyID string) []model.Unit {
	out := []model.Unit{}
	for _, u := range r.load().snap.Units {
		if u.PropertyID == propertyID {
			out = append(out, u)
		}
	}
	return out
}

// TenantsFor lists tenants whose assigned unit belongs to the property.
func (r *Repository) TenantsFor(propertyID string) []model.Tenant {
	idx := r.load()
	out := []model.Tenant{}
	for _, t := range idx.snap.Tenants {
		if t.UnitID == "" {
			continue
		}
		u, ok := lookup(idx.snap.Units, idx.units, t.UnitID)
		if ok && u.PropertyID == propertyID {
			out = append(out, t)
		}
	}
	return out
}

func lookup[T any](records []T, pos map[string]int, id string) (T, bool) {
	var zero T
	if id == "" {
		return zero, false
	}
	i, ok := pos[id]
	if !ok {
		return zero, false
	}
	return records[i], true
}
