package yamltask

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aalvaropc/inferix/internal/domain"
)

const validTask = `
name: engine-temps
method: backdoor.linear_regression
data:
  file: data/engine.csv
graph:
  edges:
    - [engine_load, egt_turbo_inlet]
    - [ambient_temp, egt_turbo_inlet]
treatments: [engine_load]
outcomes: [egt_turbo_inlet]
`

func writeTask(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadTask_Valid(t *testing.T) {
	tmp := t.TempDir()
	p := writeTask(t, tmp, "engine.yaml", validTask)

	l := NewLoader(WithEnv(map[string]string{}))
	spec, err := l.LoadTask(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if spec.Name != "engine-temps" {
		t.Errorf("name = %q", spec.Name)
	}
	if spec.Method != "backdoor.linear_regression" {
		t.Errorf("method = %q", spec.Method)
	}
	if len(spec.Graph) != 2 || spec.Graph[0].From != "engine_load" {
		t.Errorf("graph = %v", spec.Graph)
	}
	if spec.Data.File != "data/engine.csv" {
		t.Errorf("data file = %q", spec.Data.File)
	}
}

func TestLoadTask_EnvExpansion(t *testing.T) {
	tmp := t.TempDir()
	p := writeTask(t, tmp, "env.yaml", `
name: env-task
data:
  file: "{{DATA_DIR}}/engine.csv"
graph:
  edges:
    - [a, b]
treatments: [a]
outcomes: [b]
`)

	l := NewLoader(WithEnv(map[string]string{"DATA_DIR": "/srv/data"}))
	spec, err := l.LoadTask(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Data.File != "/srv/data/engine.csv" {
		t.Errorf("data file = %q", spec.Data.File)
	}
}

func TestLoadTask_MissingEnvVar(t *testing.T) {
	tmp := t.TempDir()
	p := writeTask(t, tmp, "env.yaml", `
name: env-task
data:
  file: "{{NOPE}}/engine.csv"
graph:
  edges:
    - [a, b]
treatments: [a]
outcomes: [b]
`)

	l := NewLoader(WithEnv(map[string]string{}))
	if _, err := l.LoadTask(p); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestLoadTask_InlineData(t *testing.T) {
	tmp := t.TempDir()
	p := writeTask(t, tmp, "inline.yaml", `
name: inline-task
data:
  inline:
    a: [0, 1, 2]
    b: [1, 3, 5]
graph:
  edges:
    - [a, b]
treatments: [a]
outcomes: [b]
`)

	l := NewLoader(WithEnv(map[string]string{}))
	spec, err := l.LoadTask(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spec.Data.Inline["b"]) != 3 {
		t.Errorf("inline data = %v", spec.Data.Inline)
	}
}

func TestLoadTask_Invalid(t *testing.T) {
	tmp := t.TempDir()
	l := NewLoader(WithEnv(map[string]string{}))

	cases := []struct {
		name string
		body string
	}{
		{"missing_name", "data:\n  file: d.csv\ngraph:\n  edges:\n    - [a, b]\ntreatments: [a]\noutcomes: [b]\n"},
		{"no_edges", "name: x\ndata:\n  file: d.csv\ngraph:\n  edges: []\ntreatments: [a]\noutcomes: [b]\n"},
		{"no_treatments", "name: x\ndata:\n  file: d.csv\ngraph:\n  edges:\n    - [a, b]\ntreatments: []\noutcomes: [b]\n"},
		{"no_outcomes", "name: x\ndata:\n  file: d.csv\ngraph:\n  edges:\n    - [a, b]\ntreatments: [a]\noutcomes: []\n"},
		{"no_data", "name: x\ngraph:\n  edges:\n    - [a, b]\ntreatments: [a]\noutcomes: [b]\n"},
		{"bad_edge", "name: x\ndata:\n  file: d.csv\ngraph:\n  edges:\n    - [a, b, c]\ntreatments: [a]\noutcomes: [b]\n"},
	}

	for _, c := range cases {
		p := writeTask(t, tmp, c.name+".yaml", c.body)
		if _, err := l.LoadTask(p); !domain.IsKind(err, domain.KindInvalidConfig) {
			t.Errorf("%s: expected invalid_config, got %v", c.name, err)
		}
	}
}

func TestLoadTask_NotFound(t *testing.T) {
	l := NewLoader(WithEnv(map[string]string{}))
	_, err := l.LoadTask(filepath.Join(t.TempDir(), "missing.yaml"))
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestListTasks(t *testing.T) {
	tmp := t.TempDir()
	tasksDir := filepath.Join(tmp, "tasks")
	if err := os.MkdirAll(tasksDir, 0o755); err != nil {
		t.Fatal(err)
	}

	writeTask(t, tasksDir, "b.yaml", validTask)
	writeTask(t, tasksDir, "a.yaml", "name: alpha\n")
	writeTask(t, tasksDir, "notes.txt", "ignored")

	l := NewLoader(WithEnv(map[string]string{}))
	refs, err := l.ListTasks(tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(refs) != 2 {
		t.Fatalf("refs = %v, want 2 entries", refs)
	}
	if refs[0].Name != "alpha" || refs[1].Name != "engine-temps" {
		t.Errorf("refs sorted by name: %v", refs)
	}
}

func TestListTasks_MissingDir(t *testing.T) {
	l := NewLoader(WithEnv(map[string]string{}))
	if _, err := l.ListTasks(t.TempDir()); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}
