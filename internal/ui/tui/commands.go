package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/inferix/internal/domain"
	"github.com/aalvaropc/inferix/internal/infra/causal"
	"github.com/aalvaropc/inferix/internal/infra/dataset"
	"github.com/aalvaropc/inferix/internal/infra/runstore"
	"github.com/aalvaropc/inferix/internal/infra/workspacefinder"
	"github.com/aalvaropc/inferix/internal/infra/yamltask"
	"github.com/aalvaropc/inferix/internal/usecase"
)

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := os.Getwd()
		if err != nil {
			return workspaceRefreshedMsg{cwd: "", found: false, err: fmt.Errorf("getwd: %w", err)}
		}
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: errors.New("WorkspaceLocator is nil")}
		}

		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr != nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: findErr}
		}

		return workspaceRefreshedMsg{cwd: wd, found: true, root: root, err: nil}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}

		err := deps.WorkspaceInitializer.Init(domain.WorkspaceSpec{Root: root}, true)
		return initWorkspaceDoneMsg{root: root, err: err}
	}
}

func cmdLoadTasks(root string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := workspacefinder.LoadConfig(root)
		if err != nil {
			return tasksLoadedMsg{root: root, err: err}
		}

		loader := yamltask.NewLoader(
			yamltask.WithTasksDir(cfg.Paths.TasksDir),
		)

		refs, err := loader.ListTasks(root)
		return tasksLoadedMsg{root: root, refs: refs, err: err}
	}
}

func cmdLoadRuns(root string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := workspacefinder.LoadConfig(root)
		if err != nil {
			return runsLoadedMsg{root: root, err: err}
		}

		store := runstore.NewJSONStore(root, cfg)
		refs, err := store.ListRuns()
		return runsLoadedMsg{root: root, refs: refs, err: err}
	}
}

func cmdLoadRun(root, id string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := workspacefinder.LoadConfig(root)
		if err != nil {
			return runLoadedMsg{err: err}
		}

		store := runstore.NewJSONStore(root, cfg)
		art, err := store.LoadRun(id)
		return runLoadedMsg{art: art, err: err}
	}
}

func cmdPreviewTask(path string) tea.Cmd {
	return func() tea.Msg {
		p := filepath.Clean(path)

		loader := yamltask.NewLoader()
		task, err := loader.LoadTask(p)
		if err != nil {
			return taskPreviewMsg{path: p, preview: "", err: err}
		}

		var b strings.Builder
		b.WriteString("Task: ")
		b.WriteString(task.Name)
		b.WriteString("\n")
		if task.Method != "" {
			b.WriteString("Method: ")
			b.WriteString(task.Method)
			b.WriteString("\n")
		}
		b.WriteString("\n")

		b.WriteString("Graph:\n")
		for _, e := range task.Graph {
			b.WriteString("  ")
			b.WriteString(e.From)
			b.WriteString(" -> ")
			b.WriteString(e.To)
			b.WriteString("\n")
		}
		b.WriteString("\nTreatments: ")
		b.WriteString(strings.Join(task.Treatments, ", "))
		b.WriteString("\nOutcomes:   ")
		b.WriteString(strings.Join(task.Outcomes, ", "))
		b.WriteString("\n")

		return taskPreviewMsg{path: p, preview: b.String(), err: nil}
	}
}

func listenRunner(ch <-chan runnerDoneMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return runnerDoneMsg{err: errors.New("runner channel closed")}
		}
		return msg
	}
}

func startRunAsync(
	workspaceRoot, taskPath string,
	log *slog.Logger,
	debug bool,
) (chan runnerDoneMsg, tea.Cmd) {
	ch := make(chan runnerDoneMsg, 1)

	if log == nil {
		log = slog.Default()
	}

	go func() {
		defer close(ch)

		log.Info("run.start",
			"workspace", workspaceRoot,
			"task_path", taskPath,
			"debug", debug,
		)

		cfg, err := workspacefinder.LoadConfig(workspaceRoot)
		if err != nil {
			log.Error("run.load_config.failed", "err", err)
			ch <- runnerDoneMsg{err: err}
			return
		}

		taskLoader := yamltask.NewLoader(
			yamltask.WithTasksDir(cfg.Paths.TasksDir),
		)
		datasetLoader := dataset.NewLoader(
			dataset.WithRootDir(workspaceRoot),
		)
		estimator := causal.New(cfg.Estimation)
		store := runstore.NewJSONStore(workspaceRoot, cfg, runstore.WithIndex(true))

		uc := usecase.NewRunAnalysis(taskLoader, datasetLoader, estimator, store,
			usecase.WithDefaultMethod(cfg.Defaults.Method))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		result, id, execErr := uc.Execute(ctx, taskPath)

		if execErr != nil {
			log.Error("run.failed", "err", execErr, "saved_id", id)
		} else {
			log.Info("run.ok", "saved_id", id)
		}

		for _, e := range result.Effects {
			if e.Error != nil {
				log.Warn("pair.error",
					"treatment", e.Treatment,
					"outcome", e.Outcome,
					"kind", string(e.Error.Kind),
					"message", e.Error.Message,
				)
			} else if debug {
				log.Debug("pair.ok",
					"treatment", e.Treatment,
					"outcome", e.Outcome,
					"estimate", *e.Estimate,
					"method", e.Method,
				)
			}
		}

		ch <- runnerDoneMsg{result: result, id: id, err: execErr}
	}()

	return ch, listenRunner(ch)
}
