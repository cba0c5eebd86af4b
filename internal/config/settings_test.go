package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/Veraticus/scadenziario/internal/common"
	"github.com/Veraticus/scadenziario/internal/recurrence"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(yaml)))
	return v
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")

	s, err := Load(newViper(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "/data/scadenziario/scadenziario.db", s.DatabasePath)
	assert.Equal(t, "/data/scadenziario/cache.db", s.CachePath)
	assert.Equal(t, ":8080", s.ServerAddr)
	assert.Equal(t, 24*time.Hour, s.CacheTTL)
	assert.True(t, s.CacheEnabled)
	assert.Empty(t, s.Companies)
}

func TestLoad_FromYAML(t *testing.T) {
	t.Setenv("SCAD_TEST_DIR", "/srv")

	s, err := Load(newViper(t, `
database:
  path: $SCAD_TEST_DIR/scadenze.db
cache:
  ttl: 90m
  enabled: false
server:
  addr: 127.0.0.1:9000
logging:
  format: json
companies: [LNC, " GSE ", ""]
`))
	require.NoError(t, err)

	assert.Equal(t, "/srv/scadenze.db", s.DatabasePath)
	assert.Equal(t, 90*time.Minute, s.CacheTTL)
	assert.False(t, s.CacheEnabled)
	assert.Equal(t, "127.0.0.1:9000", s.ServerAddr)
	assert.Equal(t, "json", s.LogFormat)
	assert.Equal(t, []string{"LNC", "GSE"}, s.Companies)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(newViper(t, "logging:\n  format: xml\n"))
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	_, err = Load(newViper(t, "database:\n  path: \"\"\n"))
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestLoadRules(t *testing.T) {
	rules, err := LoadRules(newViper(t, `
rules:
  - keywords: [vigilanza, sorveglianza]
    category: Spese Generali
    subcategory: Sicurezza
  - keywords: [pulizie]
    category: Servizi
`))
	require.NoError(t, err)

	assert.Equal(t, []recurrence.KeywordRule{
		{Keywords: []string{"vigilanza", "sorveglianza"}, Category: "Spese Generali", Subcategory: "Sicurezza"},
		{Keywords: []string{"pulizie"}, Category: "Servizi"},
	}, rules)

	d := recurrence.NewDetector(recurrence.WithExtraRules(rules...))
	assert.Equal(t, "Sicurezza", d.Classify("SORVEGLIANZA NOTTURNA").Subcategory)
}

func TestLoadRules_Missing(t *testing.T) {
	rules, err := LoadRules(newViper(t, ""))
	require.NoError(t, err)
	assert.Nil(t, rules)
}

func TestLoadRules_Invalid(t *testing.T) {
	_, err := LoadRules(newViper(t, "rules:\n  - keywords: [x]\n"))
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	_, err = LoadRules(newViper(t, "rules:\n  - category: Servizi\n"))
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/lnc")
	t.Setenv("SCAD_TEST_VAR", "x")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/home/lnc", ExpandPath("~"))
	assert.Equal(t, "/home/lnc/db.sqlite", ExpandPath("~/db.sqlite"))
	assert.Equal(t, "/tmp/x/db", ExpandPath("/tmp/$SCAD_TEST_VAR/db"))
}
