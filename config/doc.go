// Package config loads the user profile that speech providers read their
// credentials from.
//
// The profile is a YAML (or JSON/TOML) document searched for in standard
// locations, optionally accompanied by a .env file. Any key can be
// overridden from the environment with the STT_ prefix, dots and dashes
// becoming underscores:
//
//	keys.GOOGLE_SPEECH   -> STT_KEYS_GOOGLE_SPEECH
//	att-stt.app_secret   -> STT_ATT_STT_APP_SECRET
//
// Providers describe the keys they need with []Field and receive only the
// ones present in the profile:
//
//	p, err := config.LoadProfile()
//	settings := p.Resolve([]config.Field{{Name: "api_key", Path: "keys.GOOGLE_SPEECH", Required: true}})
package config
