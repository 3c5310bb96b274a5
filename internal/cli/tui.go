package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/zyxir/genealogy-manager/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newBrowseCmd creates the browse command, an interactive terminal
// browser over the people in a document.
func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [file]",
		Short: "Interactively browse a tree in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadTree(args[0])
			if err != nil {
				return err
			}
			model := newBrowseModel(doc.Tree)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// personItem is one row in the browse list.
type personItem struct {
	ID    int
	Name  string
	Layer int
}

// browseModel is the bubbletea model for the tree browser. Typing
// filters the list fuzzily; enter opens a detail card.
type browseModel struct {
	tree     *tree.Tree
	people   []personItem // layer-major order
	filtered []personItem
	query    string
	cursor   int
	offset   int
	height   int
	detail   *personItem // non-nil while showing a card
}

func newBrowseModel(t *tree.Tree) browseModel {
	var people []personItem
	for y := 0; y < t.LayerCount(); y++ {
		for _, id := range t.Layer(y) {
			people = append(people, personItem{ID: id, Name: t.Card(id).Name, Layer: y})
		}
	}
	m := browseModel{tree: t, people: people, height: 15}
	m.applyFilter()
	return m
}

// applyFilter recomputes the visible rows from the current query.
func (m *browseModel) applyFilter() {
	if m.query == "" {
		m.filtered = m.people
	} else {
		names := make([]string, len(m.people))
		for i, p := range m.people {
			names[i] = p.Name
		}
		matches := fuzzy.Find(m.query, names)
		m.filtered = make([]personItem, 0, len(matches))
		for _, match := range matches {
			m.filtered = append(m.filtered, m.people[match.Index])
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.detail != nil {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc", "enter", "q":
				m.detail = nil
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.query == "" {
				return m, tea.Quit
			}
			m.query = ""
			m.applyFilter()
		case "up":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			if m.cursor < len(m.filtered) {
				p := m.filtered[m.cursor]
				m.detail = &p
			}
		case "backspace":
			if m.query != "" {
				m.query = m.query[:len(m.query)-1]
				m.applyFilter()
			}
		default:
			if msg.Type == tea.KeyRunes {
				m.query += string(msg.Runes)
				m.applyFilter()
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	if m.detail != nil {
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Family Tree"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  ⏎ details  esc quit"))
	b.WriteString("\n")
	if m.query != "" {
		b.WriteString(StyleHighlight.Render("/" + m.query))
	}
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.filtered) {
		end = len(m.filtered)
	}

	for i := m.offset; i < end; i++ {
		p := m.filtered[i]
		line := fmt.Sprintf("%s  %s", p.Name, listDimStyle.Render(fmt.Sprintf("gen %d", p.Layer)))
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if len(m.filtered) == 0 {
		b.WriteString(listDimStyle.Render("  no matches"))
		b.WriteString("\n")
	}
	return b.String()
}

// detailView renders the card of the selected person.
func (m browseModel) detailView() string {
	p := *m.detail
	c := m.tree.Card(p.ID)

	var b strings.Builder
	b.WriteString(StyleTitle.Render(c.Name))
	b.WriteString("\n\n")
	if span := formatYears(c); span != "" {
		b.WriteString(listDimStyle.Render("years  ") + StyleValue.Render(span) + "\n")
	}
	b.WriteString(listDimStyle.Render("layer  ") + StyleValue.Render(fmt.Sprintf("%d", p.Layer)) + "\n")
	for i, def := range m.tree.GI.Defs {
		gi := m.tree.ComputeGI(p.ID)[i]
		b.WriteString(listDimStyle.Render(def.Name+"  ") + StyleValue.Render(fmt.Sprintf("%d", gi)) + "\n")
	}
	if pid := m.tree.ParentID(p.ID); pid >= 0 {
		b.WriteString(listDimStyle.Render("parent  ") + StyleValue.Render(m.tree.Card(pid).Name) + "\n")
	}
	if kids := m.tree.ChildIDs(p.ID); len(kids) > 0 {
		names := make([]string, len(kids))
		for i, kid := range kids {
			names[i] = m.tree.Card(kid).Name
		}
		b.WriteString(listDimStyle.Render("children  ") + StyleValue.Render(strings.Join(names, ", ")) + "\n")
	}
	if c.Biography != "" {
		b.WriteString("\n" + StyleDim.Render(c.Biography) + "\n")
	}
	b.WriteString("\n" + listDimStyle.Render("esc back"))
	return b.String()
}
