package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yourorg/property-portal/internal/catalog"
	"github.com/yourorg/property-portal/internal/model"
)

// stringNumber accepts string or number JSON and stores as string
type stringNumber string

func (s *stringNumber) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = stringNumber(strings.TrimSpace(str))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*s = stringNumber(num.String())
	return nil
}

// image accepts either a bare URL or an object carrying one under "href".
type image string

func (i *image) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			Href string `json:"href"`
			URL  string `json:"url"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*i = image(strings.TrimSpace(obj.Href))
		if *i == "" {
			*i = image(strings.TrimSpace(obj.URL))
		}
		return nil
	}
	var s stringNumber
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	*i = image(s)
	return nil
}

type rManager struct {
	ID    stringNumber `json:"id"`
	Name  string       `json:"name"`
	Email string       `json:"email"`
	Phone string       `json:"phone"`
}

type rProperty struct {
	ID      stringNumber `json:"id"`
	Name    string       `json:"name"`
	Address struct {
		Street string       `json:"street"`
		City   string       `json:"city"`
		State  string       `json:"state"`
		Zip    stringNumber `json:"zip"`
	} `json:"address"`
	Coordinates struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"coordinates"`
	Type          string       `json:"type"`
	Status        string       `json:"status"`
	TotalUnits    int          `json:"totalUnits"`
	OccupiedUnits int          `json:"occupiedUnits"`
	Images        []image      `json:"images"`
	Amenities     []string     `json:"amenities"`
	ManagerID     stringNumber `json:"managerId"`
}

type rUnit struct {
	ID         stringNumber `json:"id"`
	PropertyID stringNumber `json:"propertyId"`
	Number     stringNumber `json:"number"`
	Bedrooms   int          `json:"bedrooms"`
	Bathrooms  float64      `json:"bathrooms"`
	Rent       float64      `json:"rent"`
}

type rTenant struct {
	ID               stringNumber            `json:"id"`
	FirstName        string                  `json:"firstName"`
	LastName         string                  `json:"lastName"`
	Email            string                  `json:"email"`
	Phone            string                  `json:"phone"`
	Active           *bool                   `json:"active"`
	UnitID           stringNumber            `json:"unitId"`
	EmergencyContact *model.EmergencyContact `json:"emergencyContact"`
	MoveInDate       string                  `json:"moveInDate"`
}

type rVendor struct {
	ID          stringNumber `json:"id"`
	Name        string       `json:"name"`
	ContactName string       `json:"contactName"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Specialties []string     `json:"specialties"`
	Rating      float64      `json:"rating"`
	TotalJobs   int          `json:"totalJobs"`
	Active      *bool        `json:"active"`
}

type rCatalog struct {
	Managers   []rManager  `json:"managers"`
	Properties []rProperty `json:"properties"`
	Units      []rUnit     `json:"units"`
	Tenants    []rTenant   `json:"tenants"`
	Vendors    []rVendor   `json:"vendors"`
}

// MapSnapshot turns an upstream payload into a validated snapshot. The
// payload may be the catalog itself or wrapped as {"data": {...}}. Enum
// values are lower-cased and "active" defaults to true when omitted.
func MapSnapshot(raw []byte) (*catalog.Snapshot, error) {
	var root struct {
		Data *rCatalog `json:"data"`
		rCatalog
	}
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode remote catalog: %w", err)
	}
	rc := root.rCatalog
	if root.Data != nil {
		rc = *root.Data
	}

	s := &catalog.Snapshot{
		Managers:   make([]model.Manager, 0, len(rc.Managers)),
		Properties: make([]model.Property, 0, len(rc.Properties)),
		Units:      make([]model.Unit, 0, len(rc.Units)),
		Tenants:    make([]model.Tenant, 0, len(rc.Tenants)),
		Vendors:    make([]model.Vendor, 0, len(rc.Vendors)),
	}
	for _, m := range rc.Managers {
		s.Managers = append(s.Managers, model.Manager{
			ID: string(m.ID), Name: strings.TrimSpace(m.Name), Email: m.Email, Phone: m.Phone,
		})
	}
	for _, p := range rc.Properties {
		images := make([]string, 0, len(p.Images))
		for _, img := range p.Images {
			if img != "" {
				images = append(images, string(img))
			}
		}
		s.Properties = append(s.Properties, model.Property{
			ID:   string(p.ID),
			Name: strings.TrimSpace(p.Name),
			Address: model.Address{
				Street: p.Address.Street,
				City:   p.Address.City,
				State:  p.Address.State,
				Zip:    string(p.Address.Zip),
			},
			Coordinates:   model.Coordinates{Lat: p.Coordinates.Lat, Lng: p.Coordinates.Lng},
			Type:          model.PropertyType(lower(p.Type)),
			Status:        model.PropertyStatus(lower(p.Status)),
			TotalUnits:    p.TotalUnits,
			OccupiedUnits: p.OccupiedUnits,
			Images:        images,
			Amenities:     p.Amenities,
			ManagerID:     string(p.ManagerID),
		})
	}
	for _, u := range rc.Units {
		s.Units = append(s.Units, model.Unit{
			ID: string(u.ID), PropertyID: string(u.PropertyID), Number: string(u.Number),
			Bedrooms: u.Bedrooms, Bathrooms: u.Bathrooms, Rent: u.Rent,
		})
	}
	for _, t := range rc.Tenants {
		s.Tenants = append(s.Tenants, model.Tenant{
			ID:               string(t.ID),
			FirstName:        strings.TrimSpace(t.FirstName),
			LastName:         strings.TrimSpace(t.LastName),
			Email:            t.Email,
			Phone:            t.Phone,
			Active:           t.Active == nil || *t.Active,
			UnitID:           string(t.UnitID),
			EmergencyContact: t.EmergencyContact,
			MoveInDate:       t.MoveInDate,
		})
	}
	for _, v := range rc.Vendors {
		specs := make([]model.Specialty, 0, len(v.Specialties))
		for _, sp := range v.Specialties {
			specs = append(specs, model.Specialty(lower(sp)))
		}
		s.Vendors = append(s.Vendors, model.Vendor{
			ID:          string(v.ID),
			Name:        strings.TrimSpace(v.Name),
			ContactName: v.ContactName,
			Email:       v.Email,
			Phone:       v.Phone,
			Specialties: specs,
			Rating:      v.Rating,
			TotalJobs:   v.TotalJobs,
			Active:      v.Active == nil || *v.Active,
		})
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
