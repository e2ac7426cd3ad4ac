// Package dashboardtui renders the executive summary as a live terminal
// dashboard with periodic refresh.
package dashboardtui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	dashboarduc "pulseboard/internal/usecase/dashboard"
)

type Options struct {
	RefreshInterval time.Duration
}

type model struct {
	ctx             context.Context
	service         *dashboarduc.Service
	refreshInterval time.Duration

	summary     dashboarduc.Summary
	hasSummary  bool
	lastRefresh time.Time
	status      string
}

type summaryLoadedMsg struct {
	summary dashboarduc.Summary
	err     error
}

type tickMsg struct{}

func NewModel(ctx context.Context, service *dashboarduc.Service, options Options) tea.Model {
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &model{
		ctx:             ctx,
		service:         service,
		refreshInterval: interval,
		status:          "loading",
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.loadSummaryCmd(), m.tickCmd())
}

func (m *model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadSummaryCmd(), m.tickCmd())
	case summaryLoadedMsg:
		if msg.err != nil {
			m.status = "unable to load data: " + msg.err.Error()
			return m, nil
		}
		m.summary = msg.summary
		m.hasSummary = true
		m.lastRefresh = time.Now()
		m.status = "ready"
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.status = "refreshing"
			return m, m.loadSummaryCmd()
		}
	}
	return m, nil
}

func (m *model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	alertStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("PulseBoard Executive Dashboard"))
	builder.WriteString("\n")
	refreshed := "-"
	if !m.lastRefresh.IsZero() {
		refreshed = m.lastRefresh.Format("15:04:05")
	}
	builder.WriteString(dimStyle.Render(fmt.Sprintf(
		"window=30d refresh=%s last=%s",
		m.refreshInterval,
		refreshed,
	)))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Key Metrics"))
	builder.WriteString("\n")
	if !m.hasSummary {
		builder.WriteString(dimStyle.Render("- no data yet"))
		builder.WriteString("\n\n")
	} else {
		kpi := m.summary.KPI
		builder.WriteString(fmt.Sprintf("Services: %d  Events: %d\n", m.summary.ServicesCount, kpi.TotalEvents))
		builder.WriteString(fmt.Sprintf(
			"Completion: %.2f%%  Errors: %.2f%%  Pending: %.2f%%  Avg Journey: %.2fs\n",
			kpi.CompletionRate,
			kpi.ErrorRate,
			kpi.PendingRate,
			kpi.AvgJourneyTime,
		))
		builder.WriteString("\n")

		builder.WriteString(sectionStyle.Render("Service Performance"))
		builder.WriteString("\n")
		if len(m.summary.ServicePerf) == 0 {
			builder.WriteString(dimStyle.Render("- no events in window"))
			builder.WriteString("\n")
		} else {
			for _, entry := range m.summary.ServicePerf {
				builder.WriteString(fmt.Sprintf(
					"  %-30s %6.2f%%  (%d events)\n",
					entry.Service,
					entry.CompletionRate,
					entry.TotalEvents,
				))
			}
		}
		builder.WriteString("\n")

		builder.WriteString(sectionStyle.Render("UAT Status"))
		builder.WriteString("\n")
		builder.WriteString(fmt.Sprintf(
			"Test Cases: %d total, %d passed, %d failed (pass rate %.2f%%)\n",
			m.summary.TotalTestCases,
			m.summary.PassedTestCases,
			m.summary.FailedTestCases,
			m.summary.TestPassRate,
		))

		defectLine := fmt.Sprintf(
			"Defects: %d total, %d open, %d critical",
			m.summary.TotalDefects,
			m.summary.OpenDefects,
			m.summary.CriticalDefects,
		)
		if m.summary.CriticalDefects > 0 {
			builder.WriteString(alertStyle.Render(defectLine))
		} else {
			builder.WriteString(defectLine)
		}
		builder.WriteString("\n")
		if len(m.summary.SeverityDist) > 0 {
			parts := make([]string, 0, len(m.summary.SeverityDist))
			for _, entry := range m.summary.SeverityDist {
				parts = append(parts, fmt.Sprintf("%s=%d", entry.Label, entry.Count))
			}
			builder.WriteString(dimStyle.Render("  " + strings.Join(parts, "  ")))
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Status"))
	builder.WriteString("\n")
	builder.WriteString("- " + m.status)
	builder.WriteString("\n\n")

	builder.WriteString(dimStyle.Render("Keys: r refresh  q quit"))
	return builder.String()
}

func (m *model) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *model) loadSummaryCmd() tea.Cmd {
	return func() tea.Msg {
		summary, err := m.service.Summary(m.ctx)
		if err != nil {
			return summaryLoadedMsg{err: err}
		}
		return summaryLoadedMsg{summary: summary}
	}
}
