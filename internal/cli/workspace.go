package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/inferix/internal/domain"
	"github.com/aalvaropc/inferix/internal/infra/causal"
	"github.com/aalvaropc/inferix/internal/infra/dataset"
	"github.com/aalvaropc/inferix/internal/infra/runstore"
	"github.com/aalvaropc/inferix/internal/infra/workspacefinder"
	"github.com/aalvaropc/inferix/internal/infra/yamltask"
	"github.com/aalvaropc/inferix/internal/ports"
)

type workspaceCtx struct {
	root string
	cfg  domain.Config

	tasks     ports.TaskLoader
	datasets  ports.DatasetLoader
	estimator ports.EffectEstimator
	store     ports.ArtifactStore
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	taskLoader := yamltask.NewLoader(
		yamltask.WithTasksDir(cfg.Paths.TasksDir),
	)

	datasetLoader := dataset.NewLoader(
		dataset.WithRootDir(root),
	)

	estimator := causal.New(cfg.Estimation)

	store := runstore.NewJSONStore(root, cfg, runstore.WithIndex(true))

	return &workspaceCtx{
		root:      root,
		cfg:       cfg,
		tasks:     taskLoader,
		datasets:  datasetLoader,
		estimator: estimator,
		store:     store,
	}, nil
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `inferix init`): %w", wd, err)
	}
	return root, nil
}

func resolveTaskPath(ws *workspaceCtx, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		return "", fmt.Errorf("task is required (use --task or -t)")
	}

	// A path-looking arg resolves relative to the workspace root.
	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.root, p)
		}
		return filepath.Clean(p), nil
	}

	tasksDir := filepath.Join(ws.root, ws.cfg.Paths.TasksDir)

	if hasYAMLExt(in) {
		p := filepath.Join(tasksDir, in)
		if fileExists(p) {
			return p, nil
		}
	}

	// "demo" tries demo.yaml / demo.yml under the tasks dir.
	p1 := filepath.Join(tasksDir, in+".yaml")
	if fileExists(p1) {
		return p1, nil
	}
	p2 := filepath.Join(tasksDir, in+".yml")
	if fileExists(p2) {
		return p2, nil
	}

	// Last resort: match by the task's "name" field.
	if ws.tasks != nil {
		refs, err := ws.tasks.ListTasks(ws.root)
		if err == nil {
			for _, r := range refs {
				if strings.EqualFold(r.Name, in) {
					return r.Path, nil
				}
			}
		}
	}

	return "", fmt.Errorf("task %q not found in %q", in, tasksDir)
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func hasYAMLExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
