package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"docqa/internal/domain"
)

type stubPort struct {
	corpus  domain.Corpus
	history []domain.Turn
	answer  string
	err     error
	asked   []string
	loaded  []string
}

func (p *stubPort) Ask(_ context.Context, q string) (string, error) {
	p.asked = append(p.asked, q)
	p.history = append(p.history, domain.Turn{Role: domain.RoleUser, Text: q})
	if p.err != nil {
		return "", p.err
	}
	p.history = append(p.history, domain.Turn{Role: domain.RoleAssistant, Text: p.answer})
	return p.answer, nil
}

func (p *stubPort) Load(dir string) (int, error) {
	p.loaded = append(p.loaded, dir)
	p.corpus = domain.Corpus{{Title: "loaded.pdf", Summary: "fresh"}}
	return len(p.corpus), nil
}

func (p *stubPort) Corpus() domain.Corpus  { return p.corpus }
func (p *stubPort) History() []domain.Turn { return p.history }

func sized(t *testing.T, port ChatPort) Model {
	t.Helper()
	m := New(context.Background(), port, "/lib")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func submit(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(line)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

// run executes cmd and returns the first message that is not a spinner tick.
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("nil command")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			switch inner := c().(type) {
			case answerMsg, loadedMsg:
				return inner
			}
		}
		t.Fatal("batch has no result message")
	}
	return msg
}

func TestAsk_roundTrip(t *testing.T) {
	port := &stubPort{corpus: domain.Corpus{{Title: "a.pdf", Summary: "s"}}, answer: "Document 1 is relevant."}
	m := sized(t, port)

	m, cmd := submit(t, m, "  crop rotation  ")
	if m.pending != "crop rotation" {
		t.Fatalf("pending = %q", m.pending)
	}
	if !strings.Contains(m.View(), "crop rotation") {
		t.Error("pending question not shown")
	}
	msg := run(t, cmd)
	next, _ := m.Update(msg)
	m = next.(Model)

	if len(port.asked) != 1 || port.asked[0] != "crop rotation" {
		t.Errorf("asked = %v", port.asked)
	}
	if m.pending != "" {
		t.Error("still pending")
	}
	if !strings.Contains(m.View(), "Document 1 is relevant.") {
		t.Error("answer not rendered")
	}
}

func TestAsk_errorShownInStatus(t *testing.T) {
	port := &stubPort{corpus: domain.Corpus{{Title: "a.pdf"}}, err: errors.New("timeout")}
	m, cmd := submit(t, sized(t, port), "q")
	next, _ := m.Update(run(t, cmd))
	m = next.(Model)
	if !strings.Contains(m.status, "timeout") {
		t.Errorf("status = %q", m.status)
	}
}

func TestEnter_ignoredWhileBusy(t *testing.T) {
	port := &stubPort{answer: "x"}
	m, _ := submit(t, sized(t, port), "first")
	_, cmd := submit(t, m, "second")
	if cmd != nil {
		t.Error("second question accepted while first is pending")
	}
}

func TestCommand_load(t *testing.T) {
	port := &stubPort{}
	m, cmd := submit(t, sized(t, port), "/load")
	next, _ := m.Update(run(t, cmd))
	m = next.(Model)
	if len(port.loaded) != 1 || port.loaded[0] != "/lib" {
		t.Errorf("loaded = %v", port.loaded)
	}
	if m.status != "Processed 1 PDF documents!" {
		t.Errorf("status = %q", m.status)
	}
	if !strings.Contains(m.View(), "loaded.pdf") {
		t.Error("document list not refreshed")
	}

	_, cmd = submit(t, m, "/load /other dir")
	run(t, cmd)
	if port.loaded[1] != "/other dir" {
		t.Errorf("loaded = %v", port.loaded)
	}
}

func TestCommand_docsToggle(t *testing.T) {
	port := &stubPort{corpus: domain.Corpus{{Title: "paper.pdf", Summary: "about soil"}}}
	m := sized(t, port)
	if !strings.Contains(m.View(), "paper.pdf") {
		t.Fatal("documents hidden by default")
	}
	m, _ = submit(t, m, "/docs")
	if strings.Contains(m.View(), "paper.pdf") {
		t.Error("documents still shown after /docs")
	}
}

func TestCommand_quit(t *testing.T) {
	_, cmd := submit(t, sized(t, &stubPort{}), "/quit")
	if _, ok := run(t, cmd).(tea.QuitMsg); !ok {
		t.Error("expected quit")
	}
}

func TestCommand_unknown(t *testing.T) {
	m, cmd := submit(t, sized(t, &stubPort{}), "/nope")
	if cmd != nil {
		t.Error("unexpected command")
	}
	if !strings.Contains(m.status, "Unknown command /nope") {
		t.Errorf("status = %q", m.status)
	}
}

func TestLayout_narrowWindowKeepsMinimumSize(t *testing.T) {
	m := New(context.Background(), &stubPort{}, "/lib")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 5, Height: 4})
	m = next.(Model)
	if m.viewport.Width != 20 || m.viewport.Height != 3 {
		t.Errorf("viewport = %dx%d, want 20x3", m.viewport.Width, m.viewport.Height)
	}
}
