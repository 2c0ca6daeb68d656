package domain

// TaskSpec describes one causal analysis task: which dataset to use, the
// assumed causal graph over its variables, the estimation method, and the
// treatment/outcome variables to pair up.
type TaskSpec struct {
	Name string

	Data   DatasetSource
	Graph  GraphSpec
	Method string

	Treatments []string
	Outcomes   []string
}

// TaskRef is a lightweight reference to a task file on disk.
type TaskRef struct {
	Name string
	Path string
}
