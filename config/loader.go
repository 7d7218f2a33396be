package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding profile keys.
const EnvPrefix = "STT"

// DefaultProfileName is the file name searched for when no explicit profile is given.
const DefaultProfileName = "profile.yml"

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	HomeDir() (string, error)
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a .env file without overriding variables already set.
func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

func (rfs *RealFileSystem) HomeDir() (string, error) {
	return os.UserHomeDir()
}

// Resolver finds the profile and .env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved profile and env file paths.
type ResolvedFiles struct {
	ProfileFile string
	EnvFile     string
}

// ResolveFiles returns explicit paths when provided, otherwise the first
// existing candidate of each kind.
func (r *Resolver) ResolveFiles(opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ProfileFile: opts.ProfileFile,
		EnvFile:     opts.EnvFile,
	}
	if resolved.ProfileFile == "" {
		resolved.ProfileFile = r.firstExisting(r.profileCandidates(opts.AppDir))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.firstExisting([]string{"./.env", "./config/.env"})
	}
	return resolved
}

func (r *Resolver) profileCandidates(appDir string) []string {
	candidates := []string{
		"./" + DefaultProfileName,
		"./config/" + DefaultProfileName,
	}
	if home, err := r.FileSystem.HomeDir(); err == nil && home != "" {
		candidates = append(candidates, filepath.Join(home, appDir, DefaultProfileName))
	}
	return candidates
}

func (r *Resolver) firstExisting(paths []string) string {
	for _, path := range paths {
		if r.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem  FileSystem
	ProfileFile string // Direct profile path (optional)
	EnvFile     string // Direct env file path (optional)
	AppDir      string // Directory under $HOME searched last, default ".sttkit"
}

// LoaderOption is a functional option for LoadProfile.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithProfileFile sets an explicit profile path.
func WithProfileFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ProfileFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithAppDir sets the directory under the user's home searched for a profile.
func WithAppDir(dir string) LoaderOption {
	return func(lc *LoaderConfig) { lc.AppDir = dir }
}

// LoadProfile locates and reads the profile. A missing profile is not an
// error: the result is an empty profile that still honours environment
// overrides.
func LoadProfile(opts ...LoaderOption) (*Profile, error) {
	lc := LoaderConfig{AppDir: ".sttkit"}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(lc)

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", files.EnvFile, err)
		}
	}

	v := newViper()
	if files.ProfileFile != "" && lc.FileSystem.Exists(files.ProfileFile) {
		v.SetConfigFile(files.ProfileFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read profile %s: %w", files.ProfileFile, err)
		}
	}
	return &Profile{v: v, source: files.ProfileFile}, nil
}

// NewProfile builds a profile from an in-memory map. Environment overrides
// still apply.
func NewProfile(values map[string]any) *Profile {
	v := newViper()
	nested := make(map[string]any, len(values))
	for k, val := range values {
		setPath(nested, strings.Split(k, "."), val)
	}
	// MergeConfigMap only fails on non-map input.
	_ = v.MergeConfigMap(nested)
	return &Profile{v: v}
}

func setPath(m map[string]any, parts []string, val any) {
	if len(parts) == 1 {
		m[parts[0]] = val
		return
	}
	child, ok := m[parts[0]].(map[string]any)
	if !ok {
		child = make(map[string]any)
		m[parts[0]] = child
	}
	setPath(child, parts[1:], val)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// EnvKey returns the environment variable that overrides a profile path.
func EnvKey(path string) string {
	r := strings.NewReplacer(".", "_", "-", "_")
	return EnvPrefix + "_" + strings.ToUpper(r.Replace(path))
}
