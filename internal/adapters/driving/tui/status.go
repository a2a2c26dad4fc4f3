// Package tui provides the status dashboard: cache sizes and per-host
// circuit breaker states in a refreshable terminal view.
package tui

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
	"github.com/custodia-labs/pyref-cli/internal/core/ports/driving"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	openStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

// reportMsg carries a freshly loaded status report.
type reportMsg struct {
	report domain.StatusReport
	err    error
}

// StatusModel is the bubbletea model behind `pyref status`.
type StatusModel struct {
	admin   driving.CacheAdmin
	spinner spinner.Model
	table   table.Model

	report domain.StatusReport
	loaded bool
	err    error
	width  int
}

// NewStatusModel creates the dashboard over the admin service.
func NewStatusModel(admin driving.CacheAdmin) *StatusModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	columns := []table.Column{
		{Title: "Host", Width: 36},
		{Title: "State", Width: 10},
		{Title: "Requests", Width: 10},
		{Title: "Failures", Width: 10},
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithHeight(8),
		table.WithFocused(true),
	)

	return &StatusModel{
		admin:   admin,
		spinner: sp,
		table:   tbl,
	}
}

// Init starts the spinner and the first load.
func (m *StatusModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadReport())
}

func (m *StatusModel) loadReport() tea.Cmd {
	return func() tea.Msg {
		report, err := m.admin.Report(context.Background())
		return reportMsg{report: report, err: err}
	}
}

// Update handles key presses, spinner ticks and loaded reports.
func (m *StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.loaded = false
			return m, tea.Batch(m.spinner.Tick, m.loadReport())
		}

	case reportMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.report = msg.report
			m.table.SetRows(breakerRows(msg.report.Breakers))
		}
		return m, nil

	case spinner.TickMsg:
		if m.loaded {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the dashboard.
func (m *StatusModel) View() string {
	title := titleStyle.Render("pyref status")

	if !m.loaded {
		return fmt.Sprintf("%s\n%s loading...\n", title, m.spinner.View())
	}
	if m.err != nil {
		return fmt.Sprintf("%s\n%s\n%s\n", title,
			errStyle.Render("failed to load status: "+m.err.Error()),
			helpStyle.Render("r refresh • q quit"))
	}

	cache := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("Persistent cache  ")+
			valueStyle.Render(fmt.Sprintf("%d files, %d bytes", m.report.Persistent.Files, m.report.Persistent.Bytes)),
		labelStyle.Render("Cache directory   ")+valueStyle.Render(m.report.Persistent.Path),
		labelStyle.Render("Memory entries    ")+valueStyle.Render(fmt.Sprintf("%d", m.report.MemoryEntries)),
	)

	breakers := labelStyle.Render("No breakers active.")
	if len(m.report.Breakers) > 0 {
		breakers = m.table.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		cache,
		"",
		breakers,
		helpStyle.Render("r refresh • q quit"),
	) + "\n"
}

// breakerRows orders breakers by host for a stable display.
func breakerRows(stats map[string]domain.BreakerStats) []table.Row {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]table.Row, 0, len(names))
	for _, name := range names {
		s := stats[name]
		state := s.State.String()
		if s.State == domain.BreakerOpen {
			state = openStyle.Render(state)
		}
		rows = append(rows, table.Row{
			name,
			state,
			fmt.Sprintf("%d", s.TotalRequests),
			fmt.Sprintf("%d", s.TotalFailures),
		})
	}
	return rows
}
