package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"clusterviz/internal/domain"
	"clusterviz/internal/format"
)

// neighborCount is how many similar entities are listed for a lookup.
const neighborCount = 10

// ClusterPort is the TUI-facing subset of a loaded session.
type ClusterPort interface {
	ClusterIDs() []int
	ClusterOf(entity string) (int, bool)
	ClusterEntities(id int) []string
	Describe(id int) string
	Neighbors(ctx context.Context, entity string, k int) ([]domain.Neighbor, error)
}

// Model is the Bubble Tea model for browsing clusters.
type Model struct {
	session   ClusterPort
	ids       []int
	input     textinput.Model
	viewport  viewport.Model
	summary   string
	status    string
	cursor    int
	ready     bool
	entity    string
	neighbors []domain.Neighbor
}

// New creates a browser over session. summary is shown under the header.
func New(session ClusterPort, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Entity name or #cluster, then Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		session:  session,
		ids:      session.ClusterIDs(),
		input:    ti,
		viewport: vp,
		summary:  summary,
		status:   "Loaded. Up/down cycles clusters.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header, summary, status, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.viewport.SetContent(m.renderCurrent())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m = m.lookup(q)
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		case "down":
			if len(m.ids) > 0 {
				m.cursor = (m.cursor + 1) % len(m.ids)
				m = m.clearEntity()
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		case "up":
			if len(m.ids) > 0 {
				m.cursor = (m.cursor - 1 + len(m.ids)) % len(m.ids)
				m = m.clearEntity()
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the layout and the selected cluster.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Cluster Browser")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	body := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + body + "\n" + input + "\n" + status
}

// lookup selects a cluster by "#id" or by one of its entities.
func (m Model) lookup(q string) Model {
	if rest, ok := strings.CutPrefix(q, "#"); ok {
		id, err := strconv.Atoi(rest)
		if err != nil {
			m.status = fmt.Sprintf("Not a cluster id: %q", rest)
			return m
		}
		if !m.selectCluster(id) {
			m.status = fmt.Sprintf("No cluster #%d", id)
			return m
		}
		m.status = fmt.Sprintf("Cluster #%d", id)
		return m.clearEntity()
	}

	id, ok := m.session.ClusterOf(q)
	if !ok {
		m.status = fmt.Sprintf("%q is not in any cluster", q)
		return m.clearEntity()
	}
	m.selectCluster(id)
	m.entity = q
	res, err := m.session.Neighbors(context.Background(), q, neighborCount)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.neighbors = nil
		return m
	}
	m.neighbors = res
	m.status = fmt.Sprintf("%q is in cluster #%d", q, id)
	return m
}

func (m *Model) selectCluster(id int) bool {
	for i, v := range m.ids {
		if v == id {
			m.cursor = i
			return true
		}
	}
	return false
}

func (m Model) clearEntity() Model {
	m.entity = ""
	m.neighbors = nil
	return m
}

func (m Model) renderCurrent() string {
	if len(m.ids) == 0 {
		return "No clusters loaded."
	}
	id := m.ids[m.cursor]
	entities := m.session.ClusterEntities(id)

	var b strings.Builder
	title := fmt.Sprintf("%s  %d/%d", format.TraceName(id, len(entities)), m.cursor+1, len(m.ids))
	b.WriteString(lipgloss.NewStyle().Foreground(clusterColor(id)).Bold(true).Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.session.Describe(id))
	b.WriteString("\n\n")
	b.WriteString(headingStyle.Render("Entities"))
	b.WriteString("\n")
	for _, e := range entities {
		if e == m.entity {
			b.WriteString(highlightStyle.Render(e))
		} else {
			b.WriteString(e)
		}
		b.WriteString("\n")
	}
	if m.entity != "" {
		b.WriteString("\n")
		b.WriteString(headingStyle.Render(fmt.Sprintf("Closest to %s", m.entity)))
		b.WriteString("\n")
		if len(m.neighbors) == 0 {
			b.WriteString("No neighbors.\n")
		}
		for _, n := range m.neighbors {
			b.WriteString(fmt.Sprintf("%.3f  %s  %s\n", n.Score, n.Tag, clusterLabel(n.ClusterID)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// clusterColor converts the plot color of a cluster to a terminal color.
func clusterColor(id int) lipgloss.Color {
	var r, g, b int
	if _, err := fmt.Sscanf(format.Color(id), "rgb(%d, %d, %d)", &r, &g, &b); err != nil {
		return lipgloss.Color("7")
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}

func clusterLabel(id int) string {
	if id == domain.Unclustered {
		return "(unclustered)"
	}
	return fmt.Sprintf("(#%d)", id)
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	headingStyle   = lipgloss.NewStyle().Underline(true)
)
