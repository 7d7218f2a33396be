// Package validation validates provider configuration structs with
// go-playground/validator.
//
// Field names in messages come from the mapstructure tag, so they match
// the keys providers declare:
//
//	type Config struct {
//	    APIKey string `mapstructure:"api_key" validate:"required"`
//	}
//	err := validation.Validate(cfg)  // INVALID_INPUT: api_key: is required
package validation
