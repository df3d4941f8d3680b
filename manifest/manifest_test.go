package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	// Create a temporary directory with a javelin.toml
	dir := t.TempDir()
	tomlContent := `
[classpath]
dirs = ["classes", "build/classes"]

[cache]
path = "tmp/summaries.db"
enabled = true

[output]
visibility = "private"
`
	if err := os.WriteFile(filepath.Join(dir, "javelin.toml"), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(m.Classpath.Dirs) != 2 {
		t.Errorf("classpath dirs count = %d, want 2", len(m.Classpath.Dirs))
	}
	if m.Classpath.Dirs[0] != "classes" {
		t.Errorf("classpath dirs[0] = %q, want classes", m.Classpath.Dirs[0])
	}
	if m.Cache.Path != "tmp/summaries.db" {
		t.Errorf("cache path = %q, want tmp/summaries.db", m.Cache.Path)
	}
	if !m.Cache.Enabled {
		t.Error("cache enabled = false, want true")
	}
	if m.Output.Visibility != "private" {
		t.Errorf("output visibility = %q, want private", m.Output.Visibility)
	}
	if m.Dir == "" {
		t.Error("Dir not set at load time")
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	tomlContent := `
[classpath]
`
	if err := os.WriteFile(filepath.Join(dir, "javelin.toml"), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Default classpath is the manifest directory itself.
	if len(m.Classpath.Dirs) != 1 || m.Classpath.Dirs[0] != "." {
		t.Errorf("default classpath dirs = %v, want [.]", m.Classpath.Dirs)
	}
	if m.Cache.Enabled {
		t.Error("cache enabled by default, want disabled")
	}
	if m.Cache.Path != filepath.Join(".javelin", "cache.db") {
		t.Errorf("default cache path = %q", m.Cache.Path)
	}
	if m.Output.Visibility != "package" {
		t.Errorf("default visibility = %q, want package", m.Output.Visibility)
	}
}

func TestDefault(t *testing.T) {
	m := Default("/work")
	if len(m.ClasspathDirs()) != 1 || m.ClasspathDirs()[0] != "/work" {
		t.Errorf("ClasspathDirs() = %v, want [/work]", m.ClasspathDirs())
	}
	if m.Cache.Enabled {
		t.Error("Default() enables cache, want disabled")
	}
}

func TestFindAndLoad(t *testing.T) {
	// Create nested directory structure
	dir := t.TempDir()
	subDir := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	tomlContent := `[output]
visibility = "public"
`
	if err := os.WriteFile(filepath.Join(dir, "javelin.toml"), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	// Should find manifest when starting from a deep subdirectory
	m, err := FindAndLoad(subDir)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m == nil {
		t.Fatal("FindAndLoad returned nil")
	}
	if m.Output.Visibility != "public" {
		t.Errorf("visibility = %q, want public", m.Output.Visibility)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	m, err := FindAndLoad(dir)
	if err != nil {
		t.Fatalf("FindAndLoad error: %v", err)
	}
	if m != nil {
		t.Error("expected nil manifest when no javelin.toml exists")
	}
}

func TestClasspathDirs(t *testing.T) {
	m := &Manifest{
		Dir: "/app",
		Classpath: Classpath{
			Dirs: []string{"classes", "/opt/java/rt"},
		},
	}
	got := m.ClasspathDirs()
	want := []string{filepath.Join("/app", "classes"), "/opt/java/rt"}
	if len(got) != len(want) {
		t.Fatalf("ClasspathDirs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ClasspathDirs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCachePath(t *testing.T) {
	m := &Manifest{Dir: "/app", Cache: Cache{Path: filepath.Join(".javelin", "cache.db")}}
	if got := m.CachePath(); got != filepath.Join("/app", ".javelin", "cache.db") {
		t.Errorf("CachePath() = %q", got)
	}

	m.Cache.Path = "/var/cache/javelin.db"
	if got := m.CachePath(); got != "/var/cache/javelin.db" {
		t.Errorf("absolute CachePath() = %q", got)
	}
}
