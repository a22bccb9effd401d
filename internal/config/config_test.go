package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Expected 0.0.0.0:8080, got %s", cfg.Server.Addr())
	}
	if cfg.Data.YearColumn != "Year" || cfg.Data.CodeColumn != "Country Code" {
		t.Errorf("Unexpected columns: %+v", cfg.Data)
	}
	want := []string{"DEU", "FRA", "GBR", "BRA", "MEX", "JPN"}
	if len(cfg.Filter.DefaultCountries) != len(want) {
		t.Fatalf("Expected %v, got %v", want, cfg.Filter.DefaultCountries)
	}
	for i := range want {
		if cfg.Filter.DefaultCountries[i] != want[i] {
			t.Errorf("DefaultCountries[%d]: expected %s, got %s", i, want[i], cfg.Filter.DefaultCountries[i])
		}
	}
	if !cfg.Metrics.Enabled {
		t.Error("Expected metrics enabled by default")
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "databrowser.yaml")
	content := []byte(`server:
  port: "9090"
data:
  path: /srv/gdp.csv
filter:
  default_countries: [USA, CAN]
page:
  title: MLB Betting AI
`)
	if err := os.WriteFile(file, content, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DATABROWSER_LOG_LEVEL", "DEBUG")

	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Data.Path != "/srv/gdp.csv" {
		t.Errorf("Expected /srv/gdp.csv, got %s", cfg.Data.Path)
	}
	if len(cfg.Filter.DefaultCountries) != 2 || cfg.Filter.DefaultCountries[1] != "CAN" {
		t.Errorf("Expected [USA CAN], got %v", cfg.Filter.DefaultCountries)
	}
	if cfg.Page.Title != "MLB Betting AI" {
		t.Errorf("Expected title override, got %s", cfg.Page.Title)
	}
	if cfg.Log.Level != "DEBUG" {
		t.Errorf("Expected env override DEBUG, got %s", cfg.Log.Level)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}
