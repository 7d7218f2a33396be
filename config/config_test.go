package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

var testFields = []Field{
	{Name: "app_key", Path: "att-stt.app_key", Required: true},
	{Name: "app_secret", Path: "att-stt.app_secret", Required: true},
	{Name: "api_key", Path: "keys.GOOGLE_SPEECH", Required: true},
	{Name: "language", Path: "google-stt.language"},
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadProfileFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "profile.yml", `
stt_engine: att
keys:
  GOOGLE_SPEECH: g-key
att-stt:
  app_key: k
  app_secret: s
logging:
  level: debug
  format: json
`)

	p, err := LoadProfile(WithProfileFile(path))
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if p.Source() != path {
		t.Errorf("Source() = %q, want %q", p.Source(), path)
	}
	if p.Engine() != "att" {
		t.Errorf("Engine() = %q, want att", p.Engine())
	}

	got := p.Resolve(testFields)
	want := map[string]any{"app_key": "k", "app_secret": "s", "api_key": "g-key"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}

	logCfg, err := p.Logging()
	if err != nil {
		t.Fatalf("Logging() error: %v", err)
	}
	if logCfg.Level != "debug" || logCfg.Format != "json" {
		t.Errorf("unexpected logging config %+v", logCfg)
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	p, err := LoadProfile(WithProfileFile("/nonexistent/profile.yml"), WithFileSystem(&mockFS{}))
	if err != nil {
		t.Fatalf("expected missing profile to be tolerated, got %v", err)
	}
	if got := p.Resolve(testFields); len(got) != 0 {
		t.Errorf("expected no fields, got %v", got)
	}
	if p.Engine() != "" {
		t.Errorf("expected empty engine, got %q", p.Engine())
	}
}

func TestLoadProfileInvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "profile.yml", "keys: [unterminated")
	if _, err := LoadProfile(WithProfileFile(path)); err == nil {
		t.Fatal("expected error for malformed profile")
	}
}

func TestEnvOverride(t *testing.T) {
	path := writeFile(t, t.TempDir(), "profile.yml", "att-stt:\n  app_key: from-file\n")
	t.Setenv("STT_ATT_STT_APP_KEY", "from-env")
	t.Setenv("STT_KEYS_GOOGLE_SPEECH", "env-google")

	p, err := LoadProfile(WithProfileFile(path))
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	got := p.Resolve(testFields)
	if got["app_key"] != "from-env" {
		t.Errorf("app_key = %v, want from-env", got["app_key"])
	}
	if got["api_key"] != "env-google" {
		t.Errorf("api_key = %v, want env-google", got["api_key"])
	}
	if _, ok := got["app_secret"]; ok {
		t.Error("app_secret should be absent")
	}
}

func TestLoadProfileReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "STT_WITAI_STT_ACCESS_TOKEN=dotenv-token\n")
	t.Cleanup(func() { os.Unsetenv("STT_WITAI_STT_ACCESS_TOKEN") })

	p, err := LoadProfile(WithEnvFile(envPath), WithProfileFile(filepath.Join(dir, "none.yml")))
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	got := p.Resolve([]Field{{Name: "access_token", Path: "witai-stt.access_token"}})
	if got["access_token"] != "dotenv-token" {
		t.Errorf("access_token = %v, want dotenv-token", got["access_token"])
	}
}

func TestNewProfile(t *testing.T) {
	p := NewProfile(map[string]any{
		"stt_engine":        "google",
		"keys.GOOGLE_SPEECH": "abc",
	})
	if p.Engine() != "google" {
		t.Errorf("Engine() = %q", p.Engine())
	}
	if got := p.Resolve(testFields); got["api_key"] != "abc" || len(got) != 1 {
		t.Errorf("Resolve() = %v", got)
	}
}

func TestProfileLoggingDefaults(t *testing.T) {
	cfg, err := NewProfile(nil).Logging()
	if err != nil {
		t.Fatalf("Logging() error: %v", err)
	}
	if cfg.Level != "info" {
		t.Errorf("expected default level info, got %q", cfg.Level)
	}
}

func TestMissingRequired(t *testing.T) {
	tests := []struct {
		name     string
		resolved map[string]any
		want     []string
	}{
		{"all present", map[string]any{"app_key": "k", "app_secret": "s", "api_key": "a"}, nil},
		{"none present", map[string]any{}, []string{"app_key", "app_secret", "api_key"}},
		{"blank counts as missing", map[string]any{"app_key": " ", "app_secret": "s", "api_key": "a"}, []string{"app_key"}},
		{"optional ignored", map[string]any{"app_key": "k", "app_secret": "s", "api_key": "a", "language": ""}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MissingRequired(testFields, tt.resolved)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MissingRequired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"keys.GOOGLE_SPEECH":     "STT_KEYS_GOOGLE_SPEECH",
		"att-stt.app_secret":     "STT_ATT_STT_APP_SECRET",
		"witai-stt.access_token": "STT_WITAI_STT_ACCESS_TOKEN",
	}
	for path, want := range tests {
		if got := EnvKey(path); got != want {
			t.Errorf("EnvKey(%q) = %q, want %q", path, got, want)
		}
	}
}

type mockFS struct {
	files  map[string]bool
	home   string
	loaded []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}
func (m *mockFS) HomeDir() (string, error) { return m.home, nil }

func TestResolverSearchOrder(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]bool
		want  string
	}{
		{"working dir first", map[string]bool{"./profile.yml": true, "/home/u/.sttkit/profile.yml": true}, "./profile.yml"},
		{"config dir", map[string]bool{"./config/profile.yml": true}, "./config/profile.yml"},
		{"home dir last", map[string]bool{"/home/u/.sttkit/profile.yml": true}, "/home/u/.sttkit/profile.yml"},
		{"nothing found", map[string]bool{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resolver{FileSystem: &mockFS{files: tt.files, home: "/home/u"}}
			got := r.ResolveFiles(LoaderConfig{AppDir: ".sttkit"})
			if got.ProfileFile != tt.want {
				t.Errorf("ProfileFile = %q, want %q", got.ProfileFile, tt.want)
			}
		})
	}
}

func TestLoadProfileUsesFileSystemForEnv(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./.env": true}}
	if _, err := LoadProfile(WithFileSystem(fs)); err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if len(fs.loaded) != 1 || fs.loaded[0] != "./.env" {
		t.Errorf("expected ./.env to be loaded, got %v", fs.loaded)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	WithProfileFile("/p.yml")(&lc)
	WithEnvFile("/.env")(&lc)
	WithAppDir(".jarvis")(&lc)
	if lc.FileSystem == nil || lc.ProfileFile != "/p.yml" || lc.EnvFile != "/.env" || lc.AppDir != ".jarvis" {
		t.Errorf("options not applied: %+v", lc)
	}
}
