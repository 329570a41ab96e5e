package catalog

import (
	"github.com/yourorg/property-portal/internal/filter"
	"github.com/yourorg/property-portal/internal/model"
)

// Categorical field names shared by the list screens and the CLI.
const (
	FieldType      = "type"
	FieldStatus    = "status"
	FieldSpecialty = "specialty"
)

var PropertyFilter = filter.New[model.Property]().
	Text(
		func(p model.Property) string { return p.Name },
		func(p model.Property) string { return p.Address.City },
		func(p model.Property) string { return p.Address.State },
	).
	Field(FieldType, func(p model.Property) string { return string(p.Type) }).
	Field(FieldStatus, func(p model.Property) string { return string(p.Status) })

var VendorFilter = filter.New[model.Vendor]().
	Text(
		func(v model.Vendor) string { return v.Name },
		func(v model.Vendor) string { return v.Email },
		func(v model.Vendor) string { return v.Phone },
	).
	Set(FieldSpecialty, func(v model.Vendor) []string {
		out := make([]string, 0, len(v.Specialties))
		for _, s := range v.Specialties {
			out = append(out, string(s))
		}
		return out
	}).
	Field(FieldStatus, func(v model.Vendor) string { return model.ActiveLabel(v.Active) })

var TenantFilter = filter.New[model.Tenant]().
	Text(
		model.Tenant.FullName,
		func(t model.Tenant) string { return t.Email },
		func(t model.Tenant) string { return t.Phone },
	).
	Field(FieldStatus, func(t model.Tenant) string { return model.ActiveLabel(t.Active) })
