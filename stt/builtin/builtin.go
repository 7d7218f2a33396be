// Package builtin registers the speech providers shipped with sttkit.
package builtin

import (
	"github.com/kbukum/sttkit/netprobe"
	"github.com/kbukum/sttkit/stt"
	"github.com/kbukum/sttkit/stt/att"
	"github.com/kbukum/sttkit/stt/google"
	"github.com/kbukum/sttkit/stt/witai"
)

// Providers returns the built-in providers in registration order. Every
// provider answers IsAvailable with probe.
func Providers(probe netprobe.Probe) []stt.Provider {
	return []stt.Provider{
		google.NewProvider(probe),
		att.NewProvider(probe),
		witai.NewProvider(probe),
	}
}

// NewRegistry returns a registry holding the built-in providers.
func NewRegistry(probe netprobe.Probe, opts ...stt.RegistryOption) *stt.Registry {
	reg := stt.NewRegistry(opts...)
	for _, p := range Providers(probe) {
		reg.MustRegister(p)
	}
	return reg
}
