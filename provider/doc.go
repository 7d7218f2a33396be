// Package provider defines the base contract shared by pluggable backends
// and a generic, ordered registry for them.
//
// Names are unique: registering a second provider under an existing name
// fails instead of shadowing the first. Listing returns providers in the
// order they were registered.
//
//	reg := provider.NewRegistry[stt.Provider]()
//	reg.MustRegister(google.New(probe))
//	p, ok := reg.Lookup("google")
package provider
