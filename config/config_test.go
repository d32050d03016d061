package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATA_PATH", "STATIC_PATH", "SITE_TITLE", "OMDB_API_KEY", "OMDB_BASE_URL", "OMDB_TIMEOUT_SECS", "RUN_MODE", "RUN_AT_STARTUP"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DataPath != "./data" {
		t.Errorf("Expected default data path ./data, got %q", cfg.DataPath)
	}
	if cfg.OMDbBaseURL != "http://www.omdbapi.com/" {
		t.Errorf("Unexpected default OMDb URL: %q", cfg.OMDbBaseURL)
	}
	if cfg.OMDbTimeoutSecs != 10 {
		t.Errorf("Expected default timeout 10, got %d", cfg.OMDbTimeoutSecs)
	}
	if cfg.RunMode != ModeInteractive {
		t.Errorf("Expected default run mode %q, got %q", ModeInteractive, cfg.RunMode)
	}
	if cfg.RunAtStartup {
		t.Error("Expected RunAtStartup to default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATA_PATH", "/tmp/shelf")
	t.Setenv("OMDB_API_KEY", "secret")
	t.Setenv("OMDB_TIMEOUT_SECS", "3")
	t.Setenv("RUN_MODE", "export")
	t.Setenv("RUN_AT_STARTUP", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DataPath != "/tmp/shelf" {
		t.Errorf("Expected data path override, got %q", cfg.DataPath)
	}
	if cfg.OMDbAPIKey != "secret" {
		t.Errorf("Expected api key override, got %q", cfg.OMDbAPIKey)
	}
	if cfg.OMDbTimeoutSecs != 3 {
		t.Errorf("Expected timeout 3, got %d", cfg.OMDbTimeoutSecs)
	}
	if cfg.RunMode != ModeExport {
		t.Errorf("Expected run mode export, got %q", cfg.RunMode)
	}
	if !cfg.RunAtStartup {
		t.Error("Expected RunAtStartup true")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("OMDB_TIMEOUT_SECS", "-1")
	if _, err := Load(); err == nil {
		t.Error("Expected error for negative timeout")
	}

	t.Setenv("OMDB_TIMEOUT_SECS", "10")
	t.Setenv("RUN_MODE", "batch")
	if _, err := Load(); err == nil {
		t.Error("Expected error for unknown run mode")
	}
}
