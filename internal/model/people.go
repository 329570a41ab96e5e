package model

import (
	"slices"
	"strings"
)

type EmergencyContact struct {
	Name         string `json:"name" yaml:"name"`
	Phone        string `json:"phone" yaml:"phone"`
	Relationship string `json:"relationship,omitempty" yaml:"relationship"`
}

type Tenant struct {
	ID               string            `json:"id" yaml:"id"`
	FirstName        string            `json:"firstName" yaml:"firstName"`
	LastName         string            `json:"lastName" yaml:"lastName"`
	Email            string            `json:"email" yaml:"email"`
	Phone            string            `json:"phone" yaml:"phone"`
	Active           bool              `json:"active" yaml:"active"`
	UnitID           string            `json:"unitId,omitempty" yaml:"unitId"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty" yaml:"emergencyContact"`
	MoveInDate       string            `json:"moveInDate,omitempty" yaml:"moveInDate"`
}

func (t Tenant) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

type Specialty string

const (
	SpecialtyPlumbing    Specialty = "plumbing"
	SpecialtyElectrical  Specialty = "electrical"
	SpecialtyHVAC        Specialty = "hvac"
	SpecialtyAppliance   Specialty = "appliance"
	SpecialtyStructural  Specialty = "structural"
	SpecialtyPestControl Specialty = "pest_control"
	SpecialtyCleaning    Specialty = "cleaning"
	SpecialtyOther       Specialty = "other"
)

var Specialties = []Specialty{
	SpecialtyPlumbing, SpecialtyElectrical, SpecialtyHVAC, SpecialtyAppliance,
	SpecialtyStructural, SpecialtyPestControl, SpecialtyCleaning, SpecialtyOther,
}

func (s Specialty) Valid() bool { return slices.Contains(Specialties, s) }

const (
	MaxRating = 5.0
	MinRating = 0.0
)

type Vendor struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	ContactName string      `json:"contactName,omitempty" yaml:"contactName"`
	Email       string      `json:"email" yaml:"email"`
	Phone       string      `json:"phone" yaml:"phone"`
	Specialties []Specialty `json:"specialties" yaml:"specialties"`
	Rating      float64     `json:"rating" yaml:"rating"`
	TotalJobs   int         `json:"totalJobs" yaml:"totalJobs"`
	Active      bool        `json:"active" yaml:"active"`
}

func (v Vendor) HasSpecialty(s Specialty) bool { return slices.Contains(v.Specialties, s) }

// ActiveLabel renders an active flag the way list filters and badges name it.
func ActiveLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
