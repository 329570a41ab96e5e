package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathResolveRoundTrip(t *testing.T) {
	dests := []Destination{
		Dashboard(), Properties(), PropertyDetail("p1"), PropertyNew(),
		Tenants(), TenantDetail("t 2"), TenantOnboard(), Vendors(), VendorOnboard(),
	}
	for _, d := range dests {
		t.Run(string(d.Screen), func(t *testing.T) {
			got, ok := Resolve(d.Path())
			require.True(t, ok, "path %s", d.Path())
			assert.Equal(t, d, got)
		})
	}
}

func TestPathDetailWithoutIDFallsBackToList(t *testing.T) {
	assert.Equal(t, "/properties", PropertyDetail("").Path())
	assert.Equal(t, "/tenants", TenantDetail("").Path())
	assert.Equal(t, "/tenants/t%202", TenantDetail("t 2").Path())
}

func TestResolveUnknown(t *testing.T) {
	for _, p := range []string{"/reports", "/vendors/v1", "/properties/p1/edit"} {
		d, ok := Resolve(p)
		assert.False(t, ok, p)
		assert.Equal(t, Dashboard(), d)
	}
}

func TestMenuActive(t *testing.T) {
	active := func(items []Item) string {
		for _, it := range items {
			if it.Active {
				return it.Label
			}
		}
		return ""
	}
	assert.Equal(t, "Dashboard", active(Menu("/")))
	assert.Equal(t, "Dashboard", active(Menu("")))
	assert.Equal(t, "Properties", active(Menu("/properties/p1")))
	assert.Equal(t, "Tenants", active(Menu("/tenants/onboard/")))
	assert.Equal(t, "Vendors", active(Menu("/vendors")))
	assert.Equal(t, "", active(Menu("/propertiesx")))
	assert.Len(t, Menu("/"), 4)
}
