package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kelderman/listforge/internal/model"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FAFFF"))
	seriesStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#95E1D3"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// row is one selectable line: a catalog item with its series context.
type row struct {
	seriesName string
	item       model.CatalogItem
	firstOf    bool
}

// PickerModel lets the user select catalog items grouped by series.
type PickerModel struct {
	selected map[int64]bool
	title    string
	rows     []row
	keys     KeyMap
	help     help.Model
	cursor   int
	accepted bool
}

// NewPicker builds a picker over the manufacturer's items. Series appear in
// ascending id order so the layout matches the eventual plan's child order.
func NewPicker(title string, series []model.Series, items []model.CatalogItem, preselected []int64) PickerModel {
	sorted := append([]model.Series(nil), series...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	bySeries := make(map[int64][]model.CatalogItem)
	for _, it := range items {
		bySeries[it.SeriesID] = append(bySeries[it.SeriesID], it)
	}

	var rows []row
	for _, s := range sorted {
		group := bySeries[s.ID]
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
		for i, it := range group {
			rows = append(rows, row{item: it, seriesName: s.Name, firstOf: i == 0})
		}
	}

	selected := make(map[int64]bool, len(preselected))
	for _, id := range preselected {
		selected[id] = true
	}

	return PickerModel{
		title:    title,
		rows:     rows,
		selected: selected,
		keys:     DefaultKeyMap(),
		help:     help.New(),
	}
}

// Init implements tea.Model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.accepted = false
			return m, tea.Quit

		case key.Matches(msg, m.keys.Accept):
			m.accepted = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.ToggleSelect):
			if len(m.rows) > 0 {
				id := m.rows[m.cursor].item.ID
				m.selected[id] = !m.selected[id]
			}

		case key.Matches(msg, m.keys.SelectAll):
			for _, r := range m.rows {
				m.selected[r.item.ID] = true
			}

		case key.Matches(msg, m.keys.DeselectAll):
			m.selected = make(map[int64]bool)
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("%d of %d items selected", m.selectedCount(), len(m.rows))))
	b.WriteString("\n\n")

	for i, r := range m.rows {
		if r.firstOf {
			b.WriteString(seriesStyle.Render(r.seriesName))
			b.WriteString("\n")
		}

		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		check := "[ ]"
		line := fmt.Sprintf("%s %s (%s)", check, r.item.Name, r.item.SKU)
		if m.selected[r.item.ID] {
			check = "[x]"
			line = selectedStyle.Render(fmt.Sprintf("%s %s (%s)", check, r.item.Name, r.item.SKU))
		}

		b.WriteString("  " + cursor + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// Accepted reports whether the user confirmed rather than cancelled.
func (m PickerModel) Accepted() bool {
	return m.accepted
}

// SelectedIDs returns the selected item ids in stable (row) order.
func (m PickerModel) SelectedIDs() []int64 {
	var ids []int64
	for _, r := range m.rows {
		if m.selected[r.item.ID] {
			ids = append(ids, r.item.ID)
		}
	}
	return ids
}

func (m PickerModel) selectedCount() int {
	n := 0
	for _, r := range m.rows {
		if m.selected[r.item.ID] {
			n++
		}
	}
	return n
}

// RunPicker runs the picker and returns the confirmed selection. A
// cancelled picker returns ok=false and no ids.
func RunPicker(title string, series []model.Series, items []model.CatalogItem, preselected []int64) (ids []int64, ok bool, err error) {
	program := tea.NewProgram(NewPicker(title, series, items, preselected))
	final, err := program.Run()
	if err != nil {
		return nil, false, fmt.Errorf("item picker failed: %w", err)
	}

	m, isPicker := final.(PickerModel)
	if !isPicker || !m.Accepted() {
		return nil, false, nil
	}
	return m.SelectedIDs(), true, nil
}
