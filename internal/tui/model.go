// Package tui is the terminal chat front-end.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docqa/internal/domain"
	"docqa/internal/service"
)

type answerMsg struct {
	text string
	err  error
}

type loadedMsg struct {
	dir string
	n   int
	err error
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	ctx      context.Context
	port     ChatPort
	libDir   string
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	status   string
	pending  string // query awaiting an answer
	loading  bool
	showDocs bool
	ready    bool
	width    int
	height   int
}

// New creates a chat model. libDir is what /load scans when given no argument.
func New(ctx context.Context, port ChatPort, libDir string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your documents, or /load, /docs, /quit"
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	vp := viewport.New(0, 0)
	m := Model{
		ctx:      ctx,
		port:     port,
		libDir:   libDir,
		input:    ti,
		viewport: vp,
		spinner:  sp,
		showDocs: true,
		status:   fmt.Sprintf("%d documents loaded.", len(port.Corpus())),
	}
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) busy() bool { return m.pending != "" || m.loading }

// Update handles key, window and completion events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	case answerMsg:
		m.pending = ""
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = "Ready."
		}
		m.refresh()
		return m, nil
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading %s: %v", msg.dir, msg.err)
		} else {
			m.status = service.ProcessedMessage(msg.n)
		}
		m.layout()
		return m, nil
	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.busy() {
				return m, nil
			}
			m.input.SetValue("")
			if strings.HasPrefix(q, "/") {
				return m.command(q)
			}
			m.pending = q
			m.status = "Thinking..."
			m.refresh()
			return m, tea.Batch(m.spinner.Tick, ask(m.ctx, m.port, q))
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) command(line string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return m, tea.Quit
	case "/docs":
		m.showDocs = !m.showDocs
		m.layout()
		return m, nil
	case "/load":
		dir := m.libDir
		if len(fields) > 1 {
			dir = strings.Join(fields[1:], " ")
		}
		m.loading = true
		m.status = "Processing PDFs in " + dir + "..."
		return m, tea.Batch(m.spinner.Tick, load(m.port, dir))
	default:
		m.status = fmt.Sprintf("Unknown command %s. Try /load [dir], /docs or /quit.", fields[0])
		return m, nil
	}
}

func ask(ctx context.Context, port ChatPort, q string) tea.Cmd {
	return func() tea.Msg {
		text, err := port.Ask(ctx, q)
		return answerMsg{text: text, err: err}
	}
}

func load(port ChatPort, dir string) tea.Cmd {
	return func() tea.Msg {
		n, err := port.Load(dir)
		return loadedMsg{dir: dir, n: n, err: err}
	}
}

func (m *Model) layout() {
	_, th := transcriptBoxStyle.GetFrameSize()
	_, ih := inputBoxStyle.GetFrameSize()
	reserved := 1 + 1 + ih + 1 // header, status, input, spacer
	if m.showDocs {
		reserved += lipgloss.Height(m.renderDocs())
	}
	m.viewport.Width = max(20, m.width-2)
	m.viewport.Height = max(3, m.height-reserved-th)
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// View renders the document list, transcript, input and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render("PDF Document Assistant"))
	b.WriteString("\n")
	if m.showDocs {
		b.WriteString(m.renderDocs())
		b.WriteString("\n")
	}
	b.WriteString(transcriptBoxStyle.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(inputBoxStyle.Render(m.input.View()))
	b.WriteString("\n")
	status := m.status
	if m.busy() {
		status = m.spinner.View() + " " + status
	}
	b.WriteString(statusStyle.Render(status))
	return b.String()
}

func (m Model) renderDocs() string {
	corpus := m.port.Corpus()
	if len(corpus) == 0 {
		return dimStyle.Render("No documents. Use /load [dir] to process PDFs.")
	}
	lines := make([]string, 0, len(corpus))
	for i, d := range corpus {
		title := titleStyle.Render(fmt.Sprintf("%d. %s", i+1, d.Title))
		if d.Failed() {
			title += " " + errorStyle.Render("(failed)")
		}
		lines = append(lines, title+" "+dimStyle.Render(d.Summary))
	}
	return docsBoxStyle.Width(max(20, m.width-2)).Render(strings.Join(lines, "\n"))
}

func (m Model) renderTranscript() string {
	history := m.port.History()
	if m.pending != "" {
		// the session records the turn once the answer arrives
		if n := len(history); n == 0 || history[n-1].Role != domain.RoleUser || history[n-1].Text != m.pending {
			history = append(history, domain.Turn{Role: domain.RoleUser, Text: m.pending})
		}
	}
	if len(history) == 0 {
		return dimStyle.Render("No messages yet.")
	}
	wrap := lipgloss.NewStyle().Width(max(20, m.viewport.Width-2))
	parts := make([]string, 0, len(history))
	for _, t := range history {
		label := assistantStyle.Render("Assistant")
		if t.Role == domain.RoleUser {
			label = userStyle.Render("You")
		}
		parts = append(parts, label+"\n"+wrap.Render(t.Text))
	}
	return strings.Join(parts, "\n\n")
}

var (
	headerStyle        = lipgloss.NewStyle().Bold(true)
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	docsBoxStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle         = lipgloss.NewStyle().Bold(true)
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)
