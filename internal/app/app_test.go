package app

import (
	"path/filepath"
	"testing"

	"websmith/internal/config"
)

func TestSetup(t *testing.T) {
	cfg := &config.Config{
		Port:     8000,
		SiteDir:  filepath.Join(t.TempDir(), "website"),
		LogLevel: "error",
	}

	a, err := Setup(cfg, "test")
	if err != nil {
		t.Fatalf("Setup(): %v", err)
	}

	if a.Store == nil || a.Engine == nil || a.MCP == nil || a.Logger == nil {
		t.Error("Setup left a component nil")
	}
	if a.Store.Dir() != cfg.SiteDir {
		t.Errorf("store dir = %q, want %q", a.Store.Dir(), cfg.SiteDir)
	}
}
