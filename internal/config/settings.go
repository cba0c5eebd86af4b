package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/scadenziario/internal/common"
	"github.com/Veraticus/scadenziario/internal/recurrence"
	"github.com/spf13/viper"
)

// Settings collects the runtime configuration.
type Settings struct {
	DatabasePath string
	CachePath    string
	ServerAddr   string
	LogLevel     string
	LogFormat    string
	Companies    []string
	CacheTTL     time.Duration
	CacheEnabled bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("database.path", filepath.Join(DataDir(), "scadenziario.db"))
	v.SetDefault("cache.path", filepath.Join(DataDir(), "cache.db"))
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("server.addr", ":8080")
}

// Load reads Settings from v.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		DatabasePath: ExpandPath(v.GetString("database.path")),
		CachePath:    ExpandPath(v.GetString("cache.path")),
		ServerAddr:   v.GetString("server.addr"),
		LogLevel:     v.GetString("logging.level"),
		LogFormat:    v.GetString("logging.format"),
		CacheTTL:     v.GetDuration("cache.ttl"),
		CacheEnabled: v.GetBool("cache.enabled"),
	}

	for _, c := range v.GetStringSlice("companies") {
		if c = strings.TrimSpace(c); c != "" {
			s.Companies = append(s.Companies, c)
		}
	}

	if s.DatabasePath == "" {
		return s, fmt.Errorf("%w: database.path is empty", common.ErrMissingConfig)
	}
	if s.CacheEnabled && s.CacheTTL < 0 {
		return s, fmt.Errorf("%w: cache.ttl must not be negative", common.ErrInvalidConfig)
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return s, fmt.Errorf("%w: logging.format must be text or json, got %q", common.ErrInvalidConfig, s.LogFormat)
	}

	return s, nil
}

// LoadRules reads the extra keyword rules configured under "rules". They are
// appended after the built-in table by the caller.
func LoadRules(v *viper.Viper) ([]recurrence.KeywordRule, error) {
	if !v.IsSet("rules") {
		return nil, nil
	}

	var rules []recurrence.KeywordRule
	if err := v.UnmarshalKey("rules", &rules); err != nil {
		return nil, fmt.Errorf("%w: rules: %v", common.ErrInvalidConfig, err)
	}

	for i, r := range rules {
		if strings.TrimSpace(r.Category) == "" {
			return nil, fmt.Errorf("%w: rules[%d] has no category", common.ErrInvalidConfig, i)
		}
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("%w: rules[%d] has no keywords", common.ErrInvalidConfig, i)
		}
	}

	return rules, nil
}
