package model

import "slices"

type PropertyType string

const (
	TypeApartment  PropertyType = "apartment"
	TypeHouse      PropertyType = "house"
	TypeCondo      PropertyType = "condo"
	TypeTownhouse  PropertyType = "townhouse"
	TypeCommercial PropertyType = "commercial"
)

// PropertyTypes lists every property type in display order.
var PropertyTypes = []PropertyType{TypeApartment, TypeHouse, TypeCondo, TypeTownhouse, TypeCommercial}

func (t PropertyType) Valid() bool { return slices.Contains(PropertyTypes, t) }

type PropertyStatus string

const (
	StatusActive      PropertyStatus = "active"
	StatusInactive    PropertyStatus = "inactive"
	StatusMaintenance PropertyStatus = "maintenance"
	StatusDevelopment PropertyStatus = "development"
)

var PropertyStatuses = []PropertyStatus{StatusActive, StatusInactive, StatusMaintenance, StatusDevelopment}

func (s PropertyStatus) Valid() bool { return slices.Contains(PropertyStatuses, s) }

type Address struct {
	Street string `json:"street" yaml:"street"`
	City   string `json:"city" yaml:"city"`
	State  string `json:"state" yaml:"state"`
	Zip    string `json:"zip" yaml:"zip"`
}

type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

type Property struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Address       Address        `json:"address" yaml:"address"`
	Coordinates   Coordinates    `json:"coordinates" yaml:"coordinates"`
	Type          PropertyType   `json:"type" yaml:"type"`
	Status        PropertyStatus `json:"status" yaml:"status"`
	TotalUnits    int            `json:"totalUnits" yaml:"totalUnits"`
	OccupiedUnits int            `json:"occupiedUnits" yaml:"occupiedUnits"`
	Images        []string       `json:"images" yaml:"images"`
	Amenities     []string       `json:"amenities" yaml:"amenities"`
	ManagerID     string         `json:"managerId,omitempty" yaml:"managerId"`
}

func (p Property) VacantUnits() int { return p.TotalUnits - p.OccupiedUnits }

// OccupancyRate is the occupied share of units as a percentage, 0 for a property without units.
func (p Property) OccupancyRate() float64 {
	if p.TotalUnits <= 0 {
		return 0
	}
	return float64(p.OccupiedUnits) / float64(p.TotalUnits) * 100
}

// Cover returns the first image, the one list cards show.
func (p Property) Cover() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type Unit struct {
	ID         string  `json:"id" yaml:"id"`
	PropertyID string  `json:"propertyId" yaml:"propertyId"`
	Number     string  `json:"number" yaml:"number"`
	Bedrooms   int     `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms  float64 `json:"bathrooms" yaml:"bathrooms"`
	Rent       float64 `json:"rent" yaml:"rent"`
}

type Manager struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Phone string `json:"phone" yaml:"phone"`
}
