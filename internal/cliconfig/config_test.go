package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if cfg.ModuleCache.Capacity != 256 {
		t.Errorf("expected default module cache capacity 256, got %d", cfg.ModuleCache.Capacity)
	}

	if cfg.Plugins.Cache.Addr != "redis://127.0.0.1:6379/0" {
		t.Errorf("expected default cache addr, got %s", cfg.Plugins.Cache.Addr)
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	configContent := `
module_cache:
  capacity: 64
import:
  paths:
    - ./vendor/spp
plugins:
  db:
    dsn: postgres://localhost/testdb
  cache:
    addr: redis://cache.internal:6379/1
`
	os.WriteFile("scriptpp.yml", []byte(configContent), 0644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	if cfg.ModuleCache.Capacity != 64 {
		t.Errorf("expected module cache capacity 64, got %d", cfg.ModuleCache.Capacity)
	}

	if len(cfg.Import.Paths) != 1 || cfg.Import.Paths[0] != "./vendor/spp" {
		t.Errorf("expected one import path, got %v", cfg.Import.Paths)
	}

	if cfg.Plugins.DB.DSN != "postgres://localhost/testdb" {
		t.Errorf("expected db dsn from config, got %s", cfg.Plugins.DB.DSN)
	}

	if cfg.Plugins.Cache.Addr != "redis://cache.internal:6379/1" {
		t.Errorf("expected cache addr from config, got %s", cfg.Plugins.Cache.Addr)
	}
}

func TestInProject(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	if InProject() {
		t.Error("expected InProject to return false in an empty directory")
	}

	os.WriteFile("scriptpp.yml", []byte(""), 0644)

	if !InProject() {
		t.Error("expected InProject to return true once scriptpp.yml exists")
	}
}

func TestInProjectDetectsBareScriptFile(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	os.WriteFile("main.spp", []byte("print(1);"), 0644)

	if !InProject() {
		t.Error("expected InProject to return true with a bare .spp file present")
	}
}

func TestFindProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)

	os.WriteFile(filepath.Join(tmpDir, "scriptpp.yml"), []byte(""), 0644)

	subDir := filepath.Join(tmpDir, "src", "deep", "nested")
	os.MkdirAll(subDir, 0755)
	os.Chdir(subDir)

	root, err := FindProjectRoot()
	if err != nil {
		t.Fatalf("expected to find project root, got error: %v", err)
	}

	resolvedRoot, _ := filepath.EvalSymlinks(root)
	resolvedTmpDir, _ := filepath.EvalSymlinks(tmpDir)

	if resolvedRoot != resolvedTmpDir {
		t.Errorf("expected project root to be %s, got %s", resolvedTmpDir, resolvedRoot)
	}
}

func TestFindProjectRootNotInProject(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	_, err := FindProjectRoot()
	if err == nil {
		t.Error("expected error when not in a project, got nil")
	}
}
