package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, manifestName), []byte(content), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname=\"demo\"\n[check]\nroot=\"main.pc\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest() = (%q,%v,%v), want ok", path, ok, err)
	}
}

func TestLoadRejectsMissingRoot(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname=\"demo\"\n")
	if _, _, err := Load(dir); err == nil {
		t.Fatal("Load() succeeded without [check].root, want an error")
	}
}

func TestLoadRootPath(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname=\"demo\"\n[check]\nroot=\"src/main.pc\"\nmax_diagnostics=50\n")
	m, ok, err := Load(dir)
	if err != nil || !ok {
		t.Fatalf("Load() = (%v,%v,%v)", m, ok, err)
	}
	want := filepath.Join(dir, "src", "main.pc")
	if m.RootPath() != want {
		t.Fatalf("RootPath() = %q, want %q", m.RootPath(), want)
	}
	if m.Config.Check.MaxDiagnostics != 50 {
		t.Fatalf("MaxDiagnostics = %d, want 50", m.Config.Check.MaxDiagnostics)
	}
}
