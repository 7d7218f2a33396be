// Package stt defines the speech-to-text provider contract and the registry
// that selects a provider by slug.
//
// A Provider describes one remote recognition service: its descriptor, the
// profile fields it reads, an optional vocabulary factory and a constructor
// for a ready Engine. Engines never return errors from Transcribe; failures
// are logged and reported as an empty Result.
//
//	reg := builtin.NewRegistry(netprobe.NewDialProbe(log))
//	mgr := stt.NewManager(reg, profile, stt.WithOptions(stt.Options{Logger: log}))
//	engine, err := mgr.Default(ctx)
//	if err != nil {
//	    return err
//	}
//	candidates := engine.Transcribe(ctx, wavFile)
package stt
