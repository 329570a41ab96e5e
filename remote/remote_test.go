package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/property-portal/internal/cache"
	"github.com/yourorg/property-portal/internal/catalog"
	"github.com/yourorg/property-portal/internal/model"
)

const payload = `{
  "data": {
    "managers": [{"id": 7, "name": " Dana Lee ", "email": "dana@example.com", "phone": "555-0100"}],
    "properties": [{
      "id": 101, "name": "Cedar Court",
      "address": {"street": "1 Cedar Ct", "city": "Springfield", "state": "IL", "zip": 62701},
      "coordinates": {"lat": 39.78, "lng": -89.65},
      "type": "Apartment", "status": "ACTIVE", "totalUnits": 4, "occupiedUnits": 3,
      "images": ["https://img.example.com/a.jpg", {"href": "https://img.example.com/b.jpg"}, {"url": ""}],
      "managerId": 7
    }],
    "units": [{"id": "u1", "propertyId": 101, "number": 12, "bedrooms": 2, "bathrooms": 1.5, "rent": 1250}],
    "tenants": [{"id": 9, "firstName": "Ana", "lastName": "Ruiz", "email": "ana@example.com", "phone": "555-0101", "unitId": "u1"}],
    "vendors": [{"id": 3, "name": "FixIt", "email": "fix@example.com", "phone": "555-0102", "specialties": ["HVAC"], "rating": 4.5, "totalJobs": 12, "active": false}]
  }
}`

func TestMapSnapshot(t *testing.T) {
	s, err := MapSnapshot([]byte(payload))
	require.NoError(t, err)

	require.Len(t, s.Properties, 1)
	p := s.Properties[0]
	assert.Equal(t, "101", p.ID)
	assert.Equal(t, "62701", p.Address.Zip)
	assert.Equal(t, model.TypeApartment, p.Type)
	assert.Equal(t, model.StatusActive, p.Status)
	assert.Equal(t, "7", p.ManagerID)
	assert.Equal(t, []string{"https://img.example.com/a.jpg", "https://img.example.com/b.jpg"}, p.Images)

	assert.Equal(t, "Dana Lee", s.Managers[0].Name)
	assert.Equal(t, "101", s.Units[0].PropertyID)
	assert.Equal(t, "12", s.Units[0].Number)
	assert.Equal(t, 1.5, s.Units[0].Bathrooms)
	assert.Equal(t, 1250.0, s.Units[0].Rent)
	assert.True(t, s.Tenants[0].Active)
	assert.False(t, s.Vendors[0].Active)
	assert.True(t, s.Vendors[0].HasSpecialty(model.SpecialtyHVAC))
}

func TestMapSnapshotUnwrapped(t *testing.T) {
	s, err := MapSnapshot([]byte(`{"vendors":[{"id":1,"name":"A","specialties":["other"],"rating":3}]}`))
	require.NoError(t, err)
	require.Len(t, s.Vendors, 1)
	assert.Equal(t, "1", s.Vendors[0].ID)
	assert.True(t, s.Vendors[0].Active)
}

func TestMapSnapshotRejectsInvalid(t *testing.T) {
	_, err := MapSnapshot([]byte(`{"properties":[{"id":1,"name":"X","type":"castle","status":"active","totalUnits":1}]}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrInvalidSnapshot))

	_, err = MapSnapshot([]byte(`not json`))
	assert.Error(t, err)
}

func upstream(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("apikey") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("bad key"))
			return
		}
		if r.URL.Path != "/v1/catalog" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientFetch(t *testing.T) {
	var hits atomic.Int32
	srv := upstream(t, &hits)

	c := NewClient(ClientOptions{BaseURL: srv.URL + "/", APIKey: "secret"})
	raw, err := c.FetchSnapshot(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Cedar Court")

	bad := NewClient(ClientOptions{BaseURL: srv.URL, APIKey: "nope"})
	_, err = bad.FetchSnapshot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestIOReadAllLimit(t *testing.T) {
	_, err := ioReadAllLimit(strings.NewReader("abcdef"), 3)
	assert.Error(t, err)
	b, err := ioReadAllLimit(strings.NewReader("abc"), 3)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(b))
}

func TestSourceWithoutCacheAlwaysFetches(t *testing.T) {
	var hits atomic.Int32
	srv := upstream(t, &hits)
	src := NewSource(NewClient(ClientOptions{BaseURL: srv.URL, APIKey: "secret"}), nil, SourceOptions{}, nil)
	defer src.Close()

	for i := 0; i < 2; i++ {
		_, err := src.Load(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), hits.Load())
}

func TestSourceServesStaleAndRefreshes(t *testing.T) {
	var hits atomic.Int32
	srv := upstream(t, &hits)
	mem := cache.NewMemory()
	src := NewSource(NewClient(ClientOptions{BaseURL: srv.URL, APIKey: "secret"}), mem,
		SourceOptions{StaleAfter: time.Minute, CacheTTL: time.Hour}, nil)
	defer src.Close()

	base := time.Now()
	src.now = func() time.Time { return base }

	s, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, s.Properties, 1)
	assert.Equal(t, int32(1), hits.Load())

	// fresh: served from cache
	_, err = src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	// stale: served from cache, refreshed in the background
	src2 := NewSource(NewClient(ClientOptions{BaseURL: srv.URL, APIKey: "secret"}), mem,
		SourceOptions{StaleAfter: time.Minute, CacheTTL: time.Hour}, nil)
	defer src2.Close()
	src2.now = func() time.Time { return base.Add(2 * time.Minute) }
	s, err = src2.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, s.Properties, 1)
	assert.Eventually(t, func() bool { return hits.Load() == 2 }, 3*time.Second, 10*time.Millisecond)
}

func TestSourceColdCacheLocked(t *testing.T) {
	var hits atomic.Int32
	srv := upstream(t, &hits)
	mem := cache.NewMemory()
	ok, err := mem.SetNX(context.Background(), lockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	src := NewSource(NewClient(ClientOptions{BaseURL: srv.URL, APIKey: "secret"}), mem, SourceOptions{}, nil)
	defer src.Close()
	_, err = src.Load(context.Background())
	assert.ErrorIs(t, err, ErrInProgress)
	assert.Equal(t, int32(0), hits.Load())
}
