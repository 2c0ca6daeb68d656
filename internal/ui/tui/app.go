package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type screen int

const (
	screenHome screen = iota
	screenTasks
	screenRuns
	screenResult
)

type menuItem struct {
	title string
	desc  string
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

type taskItem struct {
	name string
	path string
}

func (t taskItem) Title() string       { return t.name }
func (t taskItem) Description() string { return t.path }
func (t taskItem) FilterValue() string { return t.name }

type runItem struct {
	id       string
	taskName string
	started  time.Time
}

func (r runItem) Title() string { return r.id }
func (r runItem) Description() string {
	when := ""
	if !r.started.IsZero() {
		when = r.started.Format(time.RFC3339)
	}
	return strings.TrimSpace(r.taskName + "  " + when)
}
func (r runItem) FilterValue() string { return r.id + " " + r.taskName }

type model struct {
	theme Theme
	deps  Deps

	scr   screen
	menu  list.Model
	tasks list.Model
	runs  list.Model

	workspaceFound bool
	workspaceRoot  string

	preview string
	running bool
	spin    spinner.Model
	toast   string

	resultText string
	runCh      chan runnerDoneMsg
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	t := DefaultTheme()

	items := []list.Item{
		menuItem{"Run a task", "Estimate causal effects for every treatment–outcome pair"},
		menuItem{"Browse runs", "Inspect stored analysis artifacts"},
		menuItem{"Init workspace", "Scaffold inferix.yaml with a sample task and dataset"},
		menuItem{"Quit", "Exit Inferix"},
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Inferix"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	tl := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	tl.Title = "Tasks"
	tl.SetShowStatusBar(false)
	tl.SetShowHelp(false)

	rl := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	rl.Title = "Runs"
	rl.SetShowStatusBar(false)
	rl.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := model{
		theme: t,
		deps:  deps,
		scr:   screenHome,
		menu:  l,
		tasks: tl,
		runs:  rl,
		spin:  sp,
	}

	wd, err := os.Getwd()
	if err == nil && deps.WorkspaceLocator != nil {
		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr == nil {
			m.workspaceFound = true
			m.workspaceRoot = root
		}
	}

	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := msg.Width, msg.Height
		m.menu.SetSize(w-4, h-10)
		m.tasks.SetSize(w-4, h-12)
		m.runs.SetSize(w-4, h-12)
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case workspaceRefreshedMsg:
		m.workspaceFound = msg.found
		m.workspaceRoot = msg.root
		if msg.err != nil && !msg.found {
			m.toast = userMessage(msg.err)
		}
		return m, nil

	case initWorkspaceDoneMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.toast = "Workspace initialized at " + msg.root
		return m, cmdRefreshWorkspace(m.deps)

	case tasksLoadedMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.refs))
		for _, r := range msg.refs {
			items = append(items, taskItem{name: r.Name, path: r.Path})
		}
		m.tasks.SetItems(items)
		m.scr = screenTasks
		m.preview = ""
		return m, nil

	case runsLoadedMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.refs))
		for _, r := range msg.refs {
			items = append(items, runItem{id: r.ID, taskName: r.TaskName, started: r.StartedAt})
		}
		m.runs.SetItems(items)
		m.scr = screenRuns
		return m, nil

	case taskPreviewMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.preview = msg.preview
		return m, nil

	case runLoadedMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.resultText = renderResultSummary(m.theme, msg.art.Result, msg.art.ID)
		m.scr = screenResult
		return m, nil

	case runnerDoneMsg:
		m.running = false
		m.runCh = nil
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.resultText = renderResultSummary(m.theme, msg.result, msg.id)
		m.scr = screenResult
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.routeToList(msg)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "q":
		if m.scr == screenHome {
			return m, tea.Quit
		}
		m.scr = screenHome
		m.preview = ""
		return m, nil

	case "esc", "b":
		if m.running {
			return m, nil
		}
		if m.scr != screenHome {
			m.scr = screenHome
			m.preview = ""
			return m, nil
		}

	case "enter":
		switch m.scr {
		case screenHome:
			it, ok := m.menu.SelectedItem().(menuItem)
			if !ok {
				return m, nil
			}
			switch it.title {
			case "Quit":
				return m, tea.Quit
			case "Run a task":
				if !m.workspaceFound {
					m.toast = "No workspace found. Init one first."
					return m, nil
				}
				return m, cmdLoadTasks(m.workspaceRoot)
			case "Browse runs":
				if !m.workspaceFound {
					m.toast = "No workspace found. Init one first."
					return m, nil
				}
				return m, cmdLoadRuns(m.workspaceRoot)
			case "Init workspace":
				wd, err := os.Getwd()
				if err != nil {
					m.toast = "Cannot determine working directory"
					return m, nil
				}
				return m, cmdInitWorkspaceHere(m.deps, wd)
			}
			return m, nil

		case screenTasks:
			if m.running {
				return m, nil
			}
			it, ok := m.tasks.SelectedItem().(taskItem)
			if !ok {
				return m, nil
			}
			m.running = true
			m.toast = ""
			ch, listen := startRunAsync(m.workspaceRoot, it.path, m.deps.Logger, m.deps.Debug)
			m.runCh = ch
			return m, tea.Batch(m.spin.Tick, listen)

		case screenRuns:
			it, ok := m.runs.SelectedItem().(runItem)
			if !ok {
				return m, nil
			}
			return m, cmdLoadRun(m.workspaceRoot, it.id)
		}

	case "p":
		if m.scr == screenTasks && !m.running {
			it, ok := m.tasks.SelectedItem().(taskItem)
			if !ok {
				return m, nil
			}
			return m, cmdPreviewTask(it.path)
		}
	}

	return m.routeToList(msg)
}

func (m model) routeToList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.scr {
	case screenHome:
		m.menu, cmd = m.menu.Update(msg)
	case screenTasks:
		m.tasks, cmd = m.tasks.Update(msg)
	case screenRuns:
		m.runs, cmd = m.runs.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("Inferix") + "\n" +
		m.theme.Subtitle.Render("Causal effect estimation from YAML tasks") + "\n"

	var workspaceBanner string
	if m.workspaceFound {
		workspaceBanner = m.theme.Help.Render(fmt.Sprintf("Workspace: %s", m.workspaceRoot))
	} else {
		workspaceBanner = m.theme.Card.Render(
			"⚠ No workspace found.\n\nUse Init workspace to create one here.",
		)
	}

	toast := ""
	if m.toast != "" {
		toast = "\n" + m.theme.Fail.Render(m.toast)
	}

	switch m.scr {
	case screenHome:
		help := m.theme.Help.Render("↑/↓ navigate • enter open • / search • q quit")
		return wrap.Render(header + "\n" + workspaceBanner + toast + "\n\n" + m.theme.Card.Render(m.menu.View()) + "\n" + help)

	case screenTasks:
		body := m.tasks.View()
		if m.preview != "" {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", m.theme.Card.Render(m.preview))
		}
		status := ""
		if m.running {
			status = "\n" + m.spin.View() + " estimating…"
		}
		help := m.theme.Help.Render("enter run • p preview • esc back • q home")
		return wrap.Render(header + "\n" + workspaceBanner + toast + status + "\n\n" + m.theme.Card.Render(body) + "\n" + help)

	case screenRuns:
		help := m.theme.Help.Render("enter open • esc back • q home")
		return wrap.Render(header + "\n" + workspaceBanner + toast + "\n\n" + m.theme.Card.Render(m.runs.View()) + "\n" + help)

	case screenResult:
		help := m.theme.Help.Render("esc back • q home")
		return wrap.Render(header + "\n" + workspaceBanner + toast + "\n\n" + m.theme.Card.Render(m.resultText) + "\n" + help)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}
