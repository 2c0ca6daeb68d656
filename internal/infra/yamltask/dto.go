package yamltask

type yamlTask struct {
	Name   string   `yaml:"name"`
	Method string   `yaml:"method"`
	Data   yamlData `yaml:"data"`

	Graph yamlGraph `yaml:"graph"`

	Treatments []string `yaml:"treatments"`
	Outcomes   []string `yaml:"outcomes"`
}

type yamlData struct {
	// File is a CSV path; {{VAR}} placeholders expand from the
	// environment.
	File string `yaml:"file"`

	// Inline holds columns given directly in the task file.
	Inline map[string][]float64 `yaml:"inline"`
}

type yamlGraph struct {
	// Edges are [from, to] pairs.
	Edges [][]string `yaml:"edges"`
}
