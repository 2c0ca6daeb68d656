package workspacefinder

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/inferix/internal/domain"
)

// LoadConfig loads inferix.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, "inferix.yaml")
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	if y.Inferix.Defaults.Method != "" {
		cfg.Defaults.Method = y.Inferix.Defaults.Method
	}
	if y.Inferix.Paths.TasksDir != "" {
		cfg.Paths.TasksDir = y.Inferix.Paths.TasksDir
	}
	if y.Inferix.Paths.DataDir != "" {
		cfg.Paths.DataDir = y.Inferix.Paths.DataDir
	}
	if y.Inferix.Paths.RunsDir != "" {
		cfg.Paths.RunsDir = y.Inferix.Paths.RunsDir
	}
	if y.Inferix.Estimation.ControlValue != nil {
		cfg.Estimation.ControlValue = *y.Inferix.Estimation.ControlValue
	}
	if y.Inferix.Estimation.TreatmentValue != nil {
		cfg.Estimation.TreatmentValue = *y.Inferix.Estimation.TreatmentValue
	}
	if y.Inferix.Estimation.ProceedWhenUnidentified != nil {
		cfg.Estimation.ProceedWhenUnidentified = *y.Inferix.Estimation.ProceedWhenUnidentified
	}

	return cfg, nil
}

type yamlConfig struct {
	Inferix struct {
		Defaults struct {
			Method string `yaml:"method"`
		} `yaml:"defaults"`

		Paths struct {
			TasksDir string `yaml:"tasks_dir"`
			DataDir  string `yaml:"data_dir"`
			RunsDir  string `yaml:"runs_dir"`
		} `yaml:"paths"`

		Estimation struct {
			ControlValue            *float64 `yaml:"control_value"`
			TreatmentValue          *float64 `yaml:"treatment_value"`
			ProceedWhenUnidentified *bool    `yaml:"proceed_when_unidentified"`
		} `yaml:"estimation"`
	} `yaml:"inferix"`
}
