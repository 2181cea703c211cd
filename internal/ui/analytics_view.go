package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rag-chat/internal/analytics"
)

const chartHeight = 10

// AnalyticsLoaded carries a usage snapshot
type AnalyticsLoaded struct {
	Snapshot analytics.Snapshot
	Err      error
}

type AnalyticsViewModel struct {
	ctx      context.Context
	source   analytics.Source
	snapshot *analytics.Snapshot
	err      error
	width    int
	height   int
}

func NewAnalyticsViewModel(ctx context.Context, source analytics.Source, width, height int) AnalyticsViewModel {
	return AnalyticsViewModel{
		ctx:    ctx,
		source: source,
		width:  width,
		height: height,
	}
}

func (m AnalyticsViewModel) Init() tea.Cmd {
	return m.Load()
}

func (m AnalyticsViewModel) Load() tea.Cmd {
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		snap, err := source.Snapshot(ctx)
		return AnalyticsLoaded{Snapshot: snap, Err: err}
	}
}

func (m AnalyticsViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case AnalyticsLoaded:
		m.err = msg.Err
		if msg.Err == nil {
			snap := msg.Snapshot
			m.snapshot = &snap
		}

	case tea.KeyMsg:
		if msg.String() == "r" {
			return m, m.Load()
		}
	}
	return m, nil
}

func (m AnalyticsViewModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Failed to load analytics: %v", m.err))
	}
	if m.snapshot == nil {
		return MetadataStyle.Render("  Loading analytics...")
	}

	cardWidth := (m.width - 6) / 3
	if cardWidth < 24 {
		cardWidth = 24
	}

	var cards []string
	for _, c := range m.snapshot.Cards() {
		body := lipgloss.JoinVertical(lipgloss.Left,
			CardTitleStyle.Render(c.Title),
			CardValueStyle.Render(c.Value),
			MetadataStyle.Render(c.Trend),
		)
		cards = append(cards, CardStyle.Width(cardWidth-3).Render(body))
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")

	chart := lipgloss.JoinVertical(lipgloss.Left,
		CardTitleStyle.Render("Daily Usage"),
		"",
		analytics.Chart(m.snapshot.Daily, chartHeight),
	)
	b.WriteString(ChartStyle.Render(chart))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("R: Refresh"))

	return b.String()
}
