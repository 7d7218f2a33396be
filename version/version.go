// Package version reports the sttkit release embedded in the running binary.
//
// Release builds set Version through -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/sttkit/version.Version=1.2.0"
//
// Otherwise the version is taken from the module build info when sttkit is a
// dependency of the main module.
package version

import (
	"runtime/debug"
	"strings"
)

// Module is the sttkit module path.
const Module = "github.com/kbukum/sttkit"

const dev = "dev"

// Version is set at build time using -ldflags.
var Version = dev

var readBuildInfo = debug.ReadBuildInfo

// Get returns the sttkit version, "dev" when unknown.
func Get() string {
	if Version != "" && Version != dev {
		return Version
	}
	info, ok := readBuildInfo()
	if !ok {
		return dev
	}
	if info.Main.Path == Module {
		return clean(info.Main.Version)
	}
	for _, dep := range info.Deps {
		if dep.Path == Module {
			if dep.Replace != nil && dep.Replace.Version != "" {
				return clean(dep.Replace.Version)
			}
			return clean(dep.Version)
		}
	}
	return dev
}

func clean(v string) string {
	if v == "" || v == "(devel)" {
		return dev
	}
	return strings.TrimPrefix(v, "v")
}

// UserAgent returns the User-Agent sent to speech providers.
func UserAgent() string {
	return "sttkit/" + Get()
}
