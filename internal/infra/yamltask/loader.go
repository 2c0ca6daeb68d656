// Package yamltask loads analysis task specs from YAML files in a workspace.
package yamltask

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/inferix/internal/domain"
	"github.com/aalvaropc/inferix/internal/ports"
)

type Loader struct {
	tasksDir string
	env      map[string]string
}

type Option func(*Loader)

func WithTasksDir(dir string) Option {
	return func(l *Loader) { l.tasksDir = dir }
}

// WithEnv overrides the variable set used for {{VAR}} expansion in task
// files. Defaults to the process environment.
func WithEnv(env map[string]string) Option {
	return func(l *Loader) { l.env = env }
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{tasksDir: "tasks"}
	for _, opt := range opts {
		opt(l)
	}
	if l.env == nil {
		l.env = environMap()
	}
	return l
}

var _ ports.TaskLoader = (*Loader)(nil)

func (l *Loader) LoadTask(path string) (domain.TaskSpec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.TaskSpec{}, &domain.OpError{
			Op:   "yamltask.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var yt yamlTask
	if err := yaml.Unmarshal(b, &yt); err != nil {
		return domain.TaskSpec{}, &domain.OpError{
			Op:   "yamltask.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return mapAndValidate(path, yt, l.env)
}

func (l *Loader) ListTasks(root string) ([]domain.TaskRef, error) {
	dir := filepath.Join(root, l.tasksDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "yamltask.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.TaskRef
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		p := filepath.Join(dir, name)
		n, _ := readTaskName(p)
		if strings.TrimSpace(n) == "" {
			n = strings.TrimSuffix(name, filepath.Ext(name))
		}
		refs = append(refs, domain.TaskRef{Name: n, Path: p})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// readTaskName peeks at the name field without full validation; list
// output should not fail on one broken file.
func readTaskName(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var header struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(b, &header); err != nil {
		return "", err
	}
	return header.Name, nil
}

func environMap() map[string]string {
	env := map[string]string{}
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	return env
}
