package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gfmlint/internal/locale"
	"gfmlint/internal/validate"
)

var (
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Padding(0, 1)
	descStyle        = lipgloss.NewStyle().Faint(true)
	emptyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	detailStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	labelStyle       = lipgloss.NewStyle().Bold(true)
)

// BrowseModel is an interactive view of one document's results, split into
// category tabs. The general tab lists everything.
type BrowseModel struct {
	title   string
	loc     *locale.Localizer
	tabs    []locale.Tab
	perTab  [][]validate.ValidationResult
	total   int
	active  int
	table   table.Model
	width   int
	height  int
	quitted bool
}

// NewBrowseModel builds the browser for the results of path.
func NewBrowseModel(path string, results []validate.ValidationResult, loc *locale.Localizer) *BrowseModel {
	if loc == nil {
		loc = locale.English
	}
	tabs := loc.Tabs()
	perTab := make([][]validate.ValidationResult, len(tabs))
	for i, tab := range tabs {
		perTab[i] = tabResults(results, tab.Category)
	}
	m := &BrowseModel{
		title:  fmt.Sprintf("%s: %s", loc.Text(locale.TextTitle), path),
		loc:    loc,
		tabs:   tabs,
		perTab: perTab,
		total:  len(results),
		width:  100,
		height: 24,
	}
	m.table = table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
	)
	m.table.SetRows(m.rows())
	return m
}

// tabResults selects what a tab shows; the general tab shows all results.
func tabResults(results []validate.ValidationResult, c validate.Category) []validate.ValidationResult {
	if c == validate.CategoryGeneral {
		return results
	}
	return validate.ResultsByCategory(results, c)
}

func (m *BrowseModel) Init() tea.Cmd {
	return nil
}

func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		if msg.Height > 0 {
			m.height = msg.Height
		}
		m.table.SetColumns(m.columns())
		m.table.SetHeight(m.tableHeight())
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitted = true
			return m, tea.Quit
		case "tab", "right", "l":
			m.selectTab(m.active + 1)
			return m, nil
		case "shift+tab", "left", "h":
			m.selectTab(m.active - 1)
			return m, nil
		}
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(m.tabs) {
			m.selectTab(n - 1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *BrowseModel) selectTab(i int) {
	if len(m.tabs) == 0 {
		return
	}
	m.active = (i%len(m.tabs) + len(m.tabs)) % len(m.tabs)
	m.table.SetRows(m.rows())
	m.table.GotoTop()
}

// ActiveTab returns the category of the selected tab.
func (m *BrowseModel) ActiveTab() validate.Category {
	if len(m.tabs) == 0 {
		return validate.CategoryGeneral
	}
	return m.tabs[m.active].Category
}

// Selected returns the result under the cursor.
func (m *BrowseModel) Selected() (validate.ValidationResult, bool) {
	if len(m.tabs) == 0 {
		return validate.ValidationResult{}, false
	}
	items := m.perTab[m.active]
	i := m.table.Cursor()
	if i < 0 || i >= len(items) {
		return validate.ValidationResult{}, false
	}
	return items[i], true
}

func (m *BrowseModel) columns() []table.Column {
	msgWidth := m.width - 6 - 6 - 10 - 8
	if msgWidth < 20 {
		msgWidth = 20
	}
	return []table.Column{
		{Title: m.loc.Text(locale.TextLine), Width: 6},
		{Title: m.loc.Text(locale.TextColumn), Width: 6},
		{Title: m.loc.Text(locale.TextSeverity), Width: 10},
		{Title: m.loc.Text(locale.TextMessage), Width: msgWidth},
	}
}

func (m *BrowseModel) rows() []table.Row {
	if len(m.tabs) == 0 {
		return nil
	}
	items := m.perTab[m.active]
	rows := make([]table.Row, 0, len(items))
	for _, r := range items {
		rows = append(rows, table.Row{
			strconv.Itoa(r.Line),
			strconv.Itoa(r.Column),
			m.loc.Severity(r.Severity),
			m.loc.Localize(r.Message, r.RuleID),
		})
	}
	return rows
}

// tableHeight leaves room for the title, tabs, description and detail panel.
func (m *BrowseModel) tableHeight() int {
	return max(m.height-14, 3)
}

func (m *BrowseModel) View() string {
	if m.quitted {
		return ""
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render(m.title))
	b.WriteString("\n\n")
	if m.total == 0 {
		b.WriteString(emptyStyle.Render(m.loc.Text(locale.TextNoErrors)))
		b.WriteString("\n")
		return b.String()
	}

	tabs := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		label := fmt.Sprintf("%s (%d)", tab.Label, len(m.perTab[i]))
		if i == m.active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")
	b.WriteString(descStyle.Render(m.tabs[m.active].Description))
	b.WriteString("\n\n")

	if len(m.perTab[m.active]) == 0 {
		b.WriteString(emptyStyle.Render(m.loc.Text(locale.TextNoCategoryErrors)))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(m.table.View())
	b.WriteString("\n")
	if r, ok := m.Selected(); ok {
		b.WriteString(m.detail(r))
		b.WriteString("\n")
	}
	b.WriteString(descStyle.Render("tab/shift+tab: category  ↑/↓: select  q: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *BrowseModel) detail(r validate.ValidationResult) string {
	lines := []string{
		m.loc.Localize(r.Message, r.RuleID),
		labelStyle.Render(m.loc.Text(locale.TextOriginal)+": ") + r.Message,
		labelStyle.Render(m.loc.Text(locale.TextRuleID)+": ") + r.RuleID,
		labelStyle.Render(m.loc.Text(locale.TextCategory)+": ") + m.loc.Category(r.Category),
	}
	return detailStyle.Width(max(m.width-4, 20)).Render(strings.Join(lines, "\n"))
}
