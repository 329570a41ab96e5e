package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/yourorg/property-portal/internal/model"
)

// ErrInvalidSnapshot wraps every invariant violation found by Validate.
var ErrInvalidSnapshot = errors.New("invalid catalog snapshot")

// Snapshot is one read-only view of every entity collection.
type Snapshot struct {
	Managers   []model.Manager  `json:"managers" yaml:"managers"`
	Properties []model.Property `json:"properties" yaml:"properties"`
	Units      []model.Unit     `json:"units" yaml:"units"`
	Tenants    []model.Tenant   `json:"tenants" yaml:"tenants"`
	Vendors    []model.Vendor   `json:"vendors" yaml:"vendors"`
}

type Counts struct {
	Managers   int `json:"managers"`
	Properties int `json:"properties"`
	Units      int `json:"units"`
	Tenants    int `json:"tenants"`
	Vendors    int `json:"vendors"`
}

func (s *Snapshot) Counts() Counts {
	if s == nil {
		return Counts{}
	}
	return Counts{
		Managers:   len(s.Managers),
		Properties: len(s.Properties),
		Units:      len(s.Units),
		Tenants:    len(s.Tenants),
		Vendors:    len(s.Vendors),
	}
}

// Validate checks record invariants. Dangling references between collections
// are allowed; views omit what they cannot resolve.
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}
	var errs []error
	check := func(kind string, ids []string) {
		seen := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			if id == "" {
				errs = append(errs, fmt.Errorf("%s with empty id", kind))
				continue
			}
			if _, dup := seen[id]; dup {
				errs = append(errs, fmt.Errorf("duplicate %s id %q", kind, id))
			}
			seen[id] = struct{}{}
		}
	}
	check("manager", ids(s.Managers, func(m model.Manager) string { return m.ID }))
	check("property", ids(s.Properties, func(p model.Property) string { return p.ID }))
	check("unit", ids(s.Units, func(u model.Unit) string { return u.ID }))
	check("tenant", ids(s.Tenants, func(t model.Tenant) string { return t.ID }))
	check("vendor", ids(s.Vendors, func(v model.Vendor) string { return v.ID }))

	for _, p := range s.Properties {
		if !p.Type.Valid() {
			errs = append(errs, fmt.Errorf("property %s: unknown type %q", p.ID, p.Type))
		}
		if !p.Status.Valid() {
			errs = append(errs, fmt.Errorf("property %s: unknown status %q", p.ID, p.Status))
		}
		if p.TotalUnits < 0 || p.OccupiedUnits < 0 || p.OccupiedUnits > p.TotalUnits {
			errs = append(errs, fmt.Errorf("property %s: occupied units %d outside 0..%d", p.ID, p.OccupiedUnits, p.TotalUnits))
		}
		if !finite(p.Coordinates.Lat) || !finite(p.Coordinates.Lng) {
			errs = append(errs, fmt.Errorf("property %s: coordinates must be finite", p.ID))
		}
	}
	for _, u := range s.Units {
		if !finite(u.Bathrooms) || !finite(u.Rent) {
			errs = append(errs, fmt.Errorf("unit %s: bathrooms and rent must be finite", u.ID))
		}
	}
	for _, v := range s.Vendors {
		if math.IsNaN(v.Rating) || v.Rating < model.MinRating || v.Rating > model.MaxRating {
			errs = append(errs, fmt.Errorf("vendor %s: rating %.1f outside %.1f..%.1f", v.ID, v.Rating, model.MinRating, model.MaxRating))
		}
		if v.TotalJobs < 0 {
			errs = append(errs, fmt.Errorf("vendor %s: negative job count %d", v.ID, v.TotalJobs))
		}
		for _, sp := range v.Specialties {
			if !sp.Valid() {
				errs = append(errs, fmt.Errorf("vendor %s: unknown specialty %q", v.ID, sp))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, errors.Join(errs...))
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// DecodeJSON parses and validates a JSON snapshot.
func DecodeJSON(raw []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode catalog json: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func ids[T any](records []T, id func(T) string) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, id(r))
	}
	return out
}
