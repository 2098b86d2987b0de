// Package tui is the terminal client for interactive document search.
// It drives a highlight.Session: queries run asynchronously, input is
// gated while a search is in flight, and responses carry the session
// request token so stale results are dropped.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docsift/docsift/core"
	"github.com/docsift/docsift/highlight"
)

// SearchPort is the TUI-facing subset of the search service.
type SearchPort interface {
	Search(query string) (*core.SearchResult, error)
}

type searchResultMsg struct {
	token   uint64
	query   string
	matches []core.Match
	err     error
}

// Model is the Bubble Tea model for the search client.
type Model struct {
	svc       SearchPort
	session   *highlight.Session
	input     textinput.Model
	viewport  viewport.Model
	status    string
	searching bool
	ready     bool
}

// New creates a TUI model over an already loaded document.
func New(svc SearchPort, documentText string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type query and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)

	session := highlight.NewSession()
	session.Reset(documentText)

	return Model{
		svc:      svc,
		session:  session,
		input:    ti,
		viewport: vp,
		status:   "Document loaded. Type to search.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and search-result events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := documentBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = maxInt(3, vh-rh)
		m.viewport.SetContent(m.renderDocument())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		// Input is gated while a search is in flight.
		if m.searching {
			return m, nil
		}
		if msg.String() == "enter" {
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				// Keep the document, drop highlights, invalidate in-flight tokens.
				m.session.Reset(m.session.Text())
				m.status = "Document loaded. Type to search."
				m.viewport.SetContent(m.renderDocument())
				return m, nil
			}
			token := m.session.Begin()
			m.searching = true
			m.status = fmt.Sprintf("Searching for %q...", q)
			return m, m.searchCmd(token, q)
		}

	case searchResultMsg:
		m.searching = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		if _, ok := m.session.Update(msg.token, msg.query, msg.matches); !ok {
			return m, nil
		}
		m.status = m.statusForState(msg.query)
		m.viewport.SetContent(m.renderDocument())
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) searchCmd(token uint64, query string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.svc.Search(query)
		if err != nil {
			return searchResultMsg{token: token, query: query, err: err}
		}
		return searchResultMsg{token: token, query: query, matches: result.Matches}
	}
}

func (m Model) statusForState(query string) string {
	switch m.session.State() {
	case highlight.StateHighlighted:
		return fmt.Sprintf("%d match spans for %q", len(m.session.Ranges()), query)
	case highlight.StateHighlightedFallback:
		return fmt.Sprintf("%d fallback spans for %q", len(m.session.Ranges()), query)
	default:
		return fmt.Sprintf("No matches for %q", query)
	}
}

// View renders the layout and the highlighted document.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("docsift")
	document := documentBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + document + "\n" + input + "\n" + status
}

func (m Model) renderDocument() string {
	segments := highlight.Segments(m.session.Text(), m.session.Ranges())
	var sb strings.Builder
	for _, seg := range segments {
		if seg.Highlighted {
			sb.WriteString(highlightStyle.Render(seg.Text))
		} else {
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}

var (
	documentBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
