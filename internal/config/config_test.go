package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "APP_ENV", "CATALOG_SOURCE", "SUBMIT_DELAY", "CORS_ORIGINS", "AMQP_EXCHANGE"} {
		t.Setenv(k, "")
	}
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4002, c.Port)
	assert.Equal(t, SourceSample, c.Catalog.Source)
	assert.Equal(t, time.Second, c.SubmitDelay)
	assert.Equal(t, []string{"*"}, c.CORSOrigins)
	assert.Equal(t, "portal.events", c.AMQP.Exchange)
	assert.False(t, c.Development())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "development")
	t.Setenv("CATALOG_SOURCE", "Remote")
	t.Setenv("CATALOG_URL", "http://catalog.local")
	t.Setenv("CATALOG_REFRESH", "2m")
	t.Setenv("SUBMIT_DELAY", "0")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, c.Port)
	assert.True(t, c.Development())
	assert.Equal(t, SourceRemote, c.Catalog.Source)
	assert.Equal(t, 2*time.Minute, c.Catalog.Refresh)
	assert.Equal(t, time.Duration(0), c.SubmitDelay)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOrigins)
}

func TestValidateSourceRequirements(t *testing.T) {
	base := Config{Port: 1, RateLimit: 1, RateWindow: time.Second}
	cases := map[string]Catalog{
		"file":     {Source: SourceFile},
		"remote":   {Source: SourceRemote},
		"postgres": {Source: SourcePostgres},
		"unknown":  {Source: "ftp"},
	}
	for name, cat := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			c.Catalog = cat
			assert.Error(t, c.Validate())
		})
	}
	base.Catalog = Catalog{Source: SourceSample}
	assert.NoError(t, base.Validate())
}
