package domain

// Config represents the minimal Inferix configuration loaded from inferix.yaml.
type Config struct {
	Defaults   DefaultsConfig
	Paths      PathsConfig
	Estimation EstimationConfig
}

type DefaultsConfig struct {
	Method string
}

type PathsConfig struct {
	TasksDir string
	DataDir  string
	RunsDir  string
}

// EstimationConfig carries knobs forwarded to the causal engine.
type EstimationConfig struct {
	// ControlValue and TreatmentValue are the two treatment levels an
	// effect is reported between.
	ControlValue   float64
	TreatmentValue float64

	// ProceedWhenUnidentified lets estimation continue when part of the
	// adjustment set is not observed in the dataset. The estimand is
	// flagged as unidentified either way.
	ProceedWhenUnidentified bool
}

// DefaultConfig provides sane defaults if inferix.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Defaults: DefaultsConfig{
			Method: "backdoor.linear_regression",
		},
		Paths: PathsConfig{
			TasksDir: "tasks",
			DataDir:  "data",
			RunsDir:  "runs",
		},
		Estimation: EstimationConfig{
			ControlValue:            0,
			TreatmentValue:          1,
			ProceedWhenUnidentified: true,
		},
	}
}

// WorkspaceSpec describes a workspace location to initialize.
type WorkspaceSpec struct {
	Root string
}
