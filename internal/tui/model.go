package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/productaware/ecoselect/internal/recommender"
	"github.com/productaware/ecoselect/internal/scoring"
	"github.com/productaware/ecoselect/internal/wizard"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Client     recommender.Client
	Dimensions scoring.DimensionMap
}

type filtersMsg struct {
	filters *recommender.Filters
	err     error
}

type recommendationsMsg struct {
	token uuid.UUID
	items []recommender.MaterialSummary
	err   error
}

type detailMsg struct {
	token  uuid.UUID
	detail *recommender.MaterialDetail
	err    error
}

type model struct {
	config  Config
	machine *wizard.Machine

	cursor   int
	status   string
	degraded bool
	width    int
	loading  bool
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	return &model{
		config:  config,
		loading: true,
		width:   80,
	}
}

func (m *model) Init() tea.Cmd {
	return loadFilters(m.config.Client)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case filtersMsg:
		m.loading = false
		// A failed catalog load is not fatal: the wizard starts with empty
		// option lists and the user sees a degraded notice.
		m.machine = wizard.New(msg.filters, m.config.Dimensions)
		m.degraded = msg.err != nil
		return m, nil

	case recommendationsMsg:
		if m.machine != nil {
			m.machine.ApplyRecommendations(msg.token, msg.items, msg.err)
			m.cursor = 0
		}
		return m, nil

	case detailMsg:
		if m.machine != nil {
			m.machine.ApplyDetail(msg.token, msg.detail, msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" {
		return m, tea.Quit
	}
	if m.machine == nil {
		return m, nil
	}

	vm := m.machine.ViewModel()
	m.status = ""

	if vm.Detail != nil && key == "esc" {
		return m, m.dispatch(wizard.CloseDetail{})
	}

	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.optionCount(vm)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m, m.selectAtCursor(vm)
	case "n", "right":
		return m, m.dispatch(wizard.Next{})
	case "b", "left", "esc":
		cmd := m.dispatch(wizard.Back{})
		m.cursor = 0
		return m, cmd
	case "s":
		switch vm.Step {
		case wizard.StepMetrics:
			return m, m.dispatch(wizard.SkipMetrics{})
		case wizard.StepEmphasis:
			return m, m.dispatch(wizard.SkipEmphasis{})
		}
	case "c":
		if vm.Step == wizard.StepEmphasis {
			return m, m.dispatch(wizard.ClearEmphasis{})
		}
	case "r":
		if vm.Step == wizard.StepResults {
			cmd := m.dispatch(wizard.Restart{})
			m.cursor = 0
			return m, cmd
		}
	}
	return m, nil
}

func (m *model) selectAtCursor(vm wizard.ViewModel) tea.Cmd {
	switch vm.Step {
	case wizard.StepCategory:
		if m.cursor < len(vm.Categories) {
			return m.dispatch(wizard.SelectCategory{Name: vm.Categories[m.cursor]})
		}
	case wizard.StepMetrics:
		if m.cursor < len(vm.Metrics) {
			return m.dispatch(wizard.ToggleMetric{ID: vm.Metrics[m.cursor].ID})
		}
	case wizard.StepEmphasis:
		if m.cursor < len(vm.RequiredMetrics) {
			return m.dispatch(wizard.SetEmphasis{ID: vm.RequiredMetrics[m.cursor]})
		}
	case wizard.StepResults:
		if m.cursor < len(vm.Results) {
			return m.dispatch(wizard.OpenDetail{MaterialID: vm.Results[m.cursor].ID})
		}
	}
	return nil
}

// dispatch feeds one command into the machine and turns the resulting effect
// into an async fetch.
func (m *model) dispatch(cmd wizard.Command) tea.Cmd {
	effect, err := m.machine.Transition(cmd)
	if err != nil {
		m.status = err.Error()
		return nil
	}
	switch eff := effect.(type) {
	case wizard.FetchRecommendations:
		return fetchRecommendations(m.config.Client, eff)
	case wizard.FetchDetail:
		return fetchDetail(m.config.Client, eff)
	}
	return nil
}

func (m *model) optionCount(vm wizard.ViewModel) int {
	switch vm.Step {
	case wizard.StepCategory:
		return len(vm.Categories)
	case wizard.StepMetrics:
		return len(vm.Metrics)
	case wizard.StepEmphasis:
		return len(vm.RequiredMetrics)
	case wizard.StepResults:
		return len(vm.Results)
	}
	return 0
}
