package stt

import (
	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/sttkit/errors"
	"github.com/kbukum/sttkit/validation"
)

// DecodeConfig decodes cfg into out, a pointer to a struct with mapstructure
// and validate tags, and validates it. Failures are configuration errors for
// slug naming the offending fields.
func DecodeConfig(slug string, cfg Config, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return errors.Internal(err)
	}
	if err := dec.Decode(map[string]any(cfg)); err != nil {
		return errors.Configuration(slug).WithCause(err)
	}
	if err := validation.Validate(out); err != nil {
		return errors.Configuration(slug, validation.Fields(err)...).WithCause(err)
	}
	return nil
}
