// Package forms is the submission boundary for the add/onboarding screens.
// Candidates are normalized and validated, then acknowledged without being
// stored anywhere.
package forms

import (
	"strings"

	"github.com/yourorg/property-portal/internal/canon"
	"github.com/yourorg/property-portal/internal/model"
)

type Kind string

const (
	KindProperty Kind = "property"
	KindTenant   Kind = "tenant"
	KindVendor   Kind = "vendor"
)

// Form is a candidate record posted by one of the add/onboarding screens.
type Form interface {
	Kind() Kind
	// Normalize tidies user input in place before validation.
	Normalize()
	// Reference is a human-facing handle for the receipt.
	Reference() string
}

type PropertyForm struct {
	Name          string   `json:"name" yaml:"name" validate:"required,max=120"`
	Street        string   `json:"street" yaml:"street" validate:"required"`
	City          string   `json:"city" yaml:"city" validate:"required"`
	State         string   `json:"state" yaml:"state" validate:"required,len=2,alpha"`
	Zip           string   `json:"zip" yaml:"zip" validate:"required,len=5,numeric"`
	Type          string   `json:"type" yaml:"type" validate:"required,property_type"`
	Status        string   `json:"status" yaml:"status" validate:"omitempty,property_status"`
	TotalUnits    int      `json:"totalUnits" yaml:"totalUnits" validate:"gte=1"`
	OccupiedUnits int      `json:"occupiedUnits" yaml:"occupiedUnits" validate:"gte=0,ltefield=TotalUnits"`
	Lat           *float64 `json:"lat,omitempty" yaml:"lat" validate:"omitempty,latitude"`
	Lng           *float64 `json:"lng,omitempty" yaml:"lng" validate:"omitempty,longitude"`
	Images        []string `json:"images,omitempty" yaml:"images" validate:"omitempty,dive,url"`
	Amenities     []string `json:"amenities,omitempty" yaml:"amenities" validate:"omitempty,dive,required"`
	ManagerID     string   `json:"managerId,omitempty" yaml:"managerId"`
}

func (f *PropertyForm) Kind() Kind { return KindProperty }

func (f *PropertyForm) Normalize() {
	addr := canon.Tidy(canon.Address{Street: f.Street, City: f.City, State: f.State, Zip: f.Zip})
	f.Name = strings.TrimSpace(f.Name)
	f.Street, f.City, f.State, f.Zip = addr.Street, addr.City, addr.State, addr.Zip
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	if f.Status == "" {
		f.Status = string(model.StatusActive)
	}
	f.Images = trimAll(f.Images)
	f.Amenities = trimAll(f.Amenities)
	f.ManagerID = strings.TrimSpace(f.ManagerID)
}

func (f *PropertyForm) Reference() string {
	return canon.Key(canon.Address{Street: f.Street, City: f.City, State: f.State, Zip: f.Zip})
}

type EmergencyContactForm struct {
	Name         string `json:"name" yaml:"name" validate:"required"`
	Phone        string `json:"phone" yaml:"phone" validate:"required"`
	Relationship string `json:"relationship,omitempty" yaml:"relationship"`
}

type TenantForm struct {
	FirstName        string                `json:"firstName" yaml:"firstName" validate:"required"`
	LastName         string                `json:"lastName" yaml:"lastName" validate:"required"`
	Email            string                `json:"email" yaml:"email" validate:"required,email"`
	Phone            string                `json:"phone" yaml:"phone" validate:"required"`
	UnitID           string                `json:"unitId,omitempty" yaml:"unitId"`
	MoveInDate       string                `json:"moveInDate,omitempty" yaml:"moveInDate" validate:"omitempty,datetime=2006-01-02"`
	EmergencyContact *EmergencyContactForm `json:"emergencyContact,omitempty" yaml:"emergencyContact"`
}

func (f *TenantForm) Kind() Kind { return KindTenant }

func (f *TenantForm) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	f.UnitID = strings.TrimSpace(f.UnitID)
	f.MoveInDate = strings.TrimSpace(f.MoveInDate)
	if ec := f.EmergencyContact; ec != nil {
		ec.Name = strings.TrimSpace(ec.Name)
		ec.Phone = strings.TrimSpace(ec.Phone)
		ec.Relationship = strings.TrimSpace(ec.Relationship)
		if ec.Name == "" && ec.Phone == "" && ec.Relationship == "" {
			f.EmergencyContact = nil
		}
	}
}

func (f *TenantForm) Reference() string { return f.Email }

type VendorForm struct {
	Name        string   `json:"name" yaml:"name" validate:"required"`
	ContactName string   `json:"contactName,omitempty" yaml:"contactName"`
	Email       string   `json:"email" yaml:"email" validate:"required,email"`
	Phone       string   `json:"phone" yaml:"phone" validate:"required"`
	Specialties []string `json:"specialties" yaml:"specialties" validate:"required,min=1,unique,dive,specialty"`
}

func (f *VendorForm) Kind() Kind { return KindVendor }

func (f *VendorForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.ContactName = strings.TrimSpace(f.ContactName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	specs := trimAll(f.Specialties)
	for i := range specs {
		specs[i] = strings.ToLower(specs[i])
	}
	f.Specialties = specs
}

func (f *VendorForm) Reference() string { return f.Email }

// New returns an empty form for kind, or nil for an unknown kind.
func New(kind Kind) Form {
	switch kind {
	case KindProperty:
		return &PropertyForm{}
	case KindTenant:
		return &TenantForm{}
	case KindVendor:
		return &VendorForm{}
	}
	return nil
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
