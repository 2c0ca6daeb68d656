package tui

import "github.com/aalvaropc/inferix/internal/domain"

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	err   error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

type tasksLoadedMsg struct {
	root string
	refs []domain.TaskRef
	err  error
}

type runsLoadedMsg struct {
	root string
	refs []domain.RunRef
	err  error
}

type taskPreviewMsg struct {
	path    string
	preview string
	err     error
}

type runLoadedMsg struct {
	art domain.AnalysisArtifact
	err error
}

type runnerDoneMsg struct {
	result domain.AnalysisResult
	id     string
	err    error
}
