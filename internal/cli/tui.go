package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/droidview/pkg/view"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	containerStyle    = lipgloss.NewStyle().Foreground(colorGreen)
)

// =============================================================================
// TreeModel - Interactive view tree browser
// =============================================================================

type treeRow struct {
	view  *view.View
	depth int
}

// TreeModel is the bubbletea model for browsing a view tree. Containers
// can be collapsed; the selected view's details are shown below the list.
type TreeModel struct {
	Doc       *view.Document
	Collapsed map[string]bool
	Cursor    int
	Height    int
	Offset    int

	rows []treeRow
}

// NewTreeModel creates a tree model with every container expanded.
func NewTreeModel(doc *view.Document) TreeModel {
	m := TreeModel{
		Doc:       doc,
		Collapsed: map[string]bool{},
		Height:    15,
	}
	m.rows = m.flatten()
	return m
}

func (m TreeModel) flatten() []treeRow {
	var rows []treeRow
	m.Doc.Walk(func(v *view.View, depth int) bool {
		rows = append(rows, treeRow{view: v, depth: depth})
		return !m.Collapsed[v.ID]
	})
	return rows
}

// Selected returns the view under the cursor.
func (m TreeModel) Selected() *view.View {
	if m.Cursor < 0 || m.Cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.Cursor].view
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
			}
		case "left", "h":
			m.setCollapsed(true)
		case "right", "l":
			m.setCollapsed(false)
		case "enter", " ":
			if v := m.Selected(); v != nil {
				m.setCollapsed(!m.Collapsed[v.ID])
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height/2 - 4
		if m.Height < 5 {
			m.Height = 5
		}
	}
	m.scroll()
	return m, nil
}

// setCollapsed folds or unfolds the selected container. Collapsing a leaf
// moves the cursor to its parent instead.
func (m *TreeModel) setCollapsed(collapsed bool) {
	v := m.Selected()
	if v == nil {
		return
	}
	if len(v.Children) == 0 {
		if collapsed {
			m.Cursor = m.parentRow(m.Cursor)
		}
		return
	}
	m.Collapsed = maps.Clone(m.Collapsed)
	m.Collapsed[v.ID] = collapsed
	m.rows = m.flatten()
}

func (m TreeModel) parentRow(i int) int {
	depth := m.rows[i].depth
	for j := i - 1; j >= 0; j-- {
		if m.rows[j].depth < depth {
			return j
		}
	}
	return i
}

func (m *TreeModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("View Tree"))
	if m.Doc.URL != "" {
		b.WriteString("  " + listDimStyle.Render(m.Doc.URL))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ←/→ fold  ⏎ toggle  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.rows))
	for i := m.Offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))
	b.WriteString("\n\n")

	if v := m.Selected(); v != nil {
		b.WriteString(detailTable(v))
	}
	return b.String()
}

func (m TreeModel) renderRow(i int) string {
	r := m.rows[i]
	v := r.view

	cursor := "  "
	if i == m.Cursor {
		cursor = "▸ "
	}
	marker := "  "
	if len(v.Children) > 0 {
		marker = "▾ "
		if m.Collapsed[v.ID] {
			marker = "▸ "
		}
	}
	kind := v.Kind.String()
	if v.Container() {
		kind = containerStyle.Render(kind)
	}
	line := fmt.Sprintf("%s%s%s%s %s", cursor, strings.Repeat("  ", r.depth), marker, v.ID, kind)

	if i == m.Cursor {
		return listSelectedStyle.Render(line)
	}
	return listNormalStyle.Render(line)
}

// detailTable renders the attributes of v as a two-column table.
func detailTable(v *view.View) string {
	b := v.Bounds
	rows := [][]string{
		{"kind", v.Kind.String()},
		{"bounds", fmt.Sprintf("%g,%g %gx%g", b.Left, b.Top, b.Width(), b.Height())},
	}
	if v.Alignment != 0 {
		rows = append(rows, []string{"alignment", v.Alignment.String()})
	}
	if v.Tag != "" {
		rows = append(rows, []string{"tag", v.Tag})
	}
	if v.Cell != nil {
		rows = append(rows, []string{"cell", fmt.Sprintf("row %d col %d", v.Cell.Row, v.Cell.Column)})
	}
	for _, c := range v.Constraints {
		target := c.Target
		if c.Kind.Parent() {
			target = "parent"
		}
		rows = append(rows, []string{"constraint", c.Kind.String() + " " + target})
	}
	for _, ch := range v.Chains {
		rows = append(rows, []string{"chain", fmt.Sprintf("%s %s: %s", ch.Axis, ch.Style, strings.Join(ch.Members, ", "))})
	}
	for _, k := range slices.Sorted(maps.Keys(v.Attrs)) {
		rows = append(rows, []string{k, v.Attrs[k]})
	}

	keyStyle := lipgloss.NewStyle().Foreground(colorGray)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return keyStyle
			}
			return StyleHighlight
		})
	return t.Render()
}
