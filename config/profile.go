package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/kbukum/sttkit/logger"
)

// Field declares one profile key a provider reads.
type Field struct {
	// Name is the key in the resolved settings map.
	Name string
	// Path is the dotted profile path, e.g. "att-stt.app_key".
	Path string
	// Required fields make provider construction fail when absent.
	Required bool
}

// EngineKey is the profile key naming the default speech provider.
const EngineKey = "stt_engine"

// Profile is a loaded user profile.
type Profile struct {
	v      *viper.Viper
	source string
}

// Source returns the file the profile was read from, empty when none.
func (p *Profile) Source() string { return p.source }

// Get returns the raw value at path, or nil.
func (p *Profile) Get(path string) any {
	return p.v.Get(path)
}

// Resolve returns the values of the declared fields that are present in the
// profile, keyed by Field.Name. Absent fields are omitted rather than set to
// an empty value. Values are not validated.
func (p *Profile) Resolve(fields []Field) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		val := p.v.Get(f.Path)
		if val == nil {
			continue
		}
		out[f.Name] = val
	}
	return out
}

// Engine returns the slug of the configured default provider.
func (p *Profile) Engine() string {
	return strings.TrimSpace(p.v.GetString(EngineKey))
}

// Logging returns the logging section, with defaults applied.
func (p *Profile) Logging() (logger.Config, error) {
	var cfg logger.Config
	if p.v.IsSet("logging") {
		if err := p.v.UnmarshalKey("logging", &cfg); err != nil {
			return cfg, fmt.Errorf("decode logging section: %w", err)
		}
	}
	cfg.ApplyDefaults()
	return cfg, cfg.Validate()
}

// MissingRequired lists the required fields absent from resolved.
func MissingRequired(fields []Field, resolved map[string]any) []string {
	var missing []string
	for _, f := range fields {
		if !f.Required {
			continue
		}
		val, ok := resolved[f.Name]
		if !ok {
			missing = append(missing, f.Name)
			continue
		}
		if s, isStr := val.(string); isStr && strings.TrimSpace(s) == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}
