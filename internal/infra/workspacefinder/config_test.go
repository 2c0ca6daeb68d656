package workspacefinder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aalvaropc/inferix/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, "inferix.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return tmp
}

func TestLoadConfig_Defaults(t *testing.T) {
	tmp := writeConfig(t, "inferix: {}\n")

	cfg, err := LoadConfig(tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Defaults.Method != "backdoor.linear_regression" {
		t.Errorf("method = %q", cfg.Defaults.Method)
	}
	if cfg.Paths.TasksDir != "tasks" || cfg.Paths.RunsDir != "runs" {
		t.Errorf("paths = %+v", cfg.Paths)
	}
	if !cfg.Estimation.ProceedWhenUnidentified {
		t.Error("proceed_when_unidentified should default to true")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	tmp := writeConfig(t, `
inferix:
  defaults:
    method: backdoor.difference_in_means
  paths:
    tasks_dir: analyses
    runs_dir: results
  estimation:
    control_value: -1
    treatment_value: 1
    proceed_when_unidentified: false
`)

	cfg, err := LoadConfig(tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Defaults.Method != "backdoor.difference_in_means" {
		t.Errorf("method = %q", cfg.Defaults.Method)
	}
	if cfg.Paths.TasksDir != "analyses" || cfg.Paths.RunsDir != "results" {
		t.Errorf("paths = %+v", cfg.Paths)
	}
	if cfg.Estimation.ControlValue != -1 || cfg.Estimation.TreatmentValue != 1 {
		t.Errorf("estimation = %+v", cfg.Estimation)
	}
	if cfg.Estimation.ProceedWhenUnidentified {
		t.Error("proceed_when_unidentified override lost")
	}
}

func TestLoadConfig_MissingFileStillReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	if cfg.Defaults.Method == "" {
		t.Error("defaults should survive a missing config file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmp := writeConfig(t, "inferix: [broken\n")
	if _, err := LoadConfig(tmp); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}
