package main

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/imjasonh/chesslink/chess"
	"github.com/imjasonh/chesslink/token"
)

func testModel(tok string, p *Player, h *Hub) model {
	return newModel(tok, "https://chesslink.dev/", newStyles(lipgloss.NewRenderer(io.Discard)), p, h)
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m model, keys ...string) model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(model)
	}
	return m
}

func square(t *testing.T, s string) chess.Square {
	t.Helper()
	sq, err := chess.ParseSquare(s)
	if err != nil {
		t.Fatal(err)
	}
	return sq
}

func TestModelPlaysMove(t *testing.T) {
	m := testModel(token.Empty, nil, nil)
	if got := m.cursor(); got != square(t, "e2") {
		t.Fatalf("cursor starts on %s", got)
	}

	m = press(m, "enter")
	if m.match.Selected() != square(t, "e2") || len(m.dests.Legal) != 2 {
		t.Fatalf("selected %s with %v", m.match.Selected(), m.dests.Legal)
	}

	m = press(m, "k", "up", " ")
	if mv, ok := m.match.Proposed(); !ok || mv.String() != "e2e4" {
		t.Fatalf("proposed %v %v", mv, ok)
	}
	if !strings.Contains(m.link, "state=0k.") {
		t.Fatalf("pending link %q", m.link)
	}
	if m.match.Token() != token.Empty {
		t.Fatalf("proposal should not change the token, got %q", m.match.Token())
	}

	m = press(m, "u")
	if _, ok := m.match.Proposed(); ok {
		t.Fatal("proposal survived undo")
	}

	m = press(m, "j", "j", "enter", "k", "k", "enter", "c")
	if got := m.match.Token(); got != "0k." {
		t.Fatalf("token after confirm: %q", got)
	}
	if !strings.Contains(m.link, "state=0k.") {
		t.Fatalf("link %q", m.link)
	}
}

func TestModelFlip(t *testing.T) {
	m := testModel("0k.", nil, nil)
	if !m.flipped {
		t.Fatal("Black to move should see a flipped board")
	}
	before := m.cursor()
	m = press(m, "f")
	if m.flipped || m.cursor() != before {
		t.Fatalf("flip moved cursor from %s to %s", before, m.cursor())
	}
}

func TestModelExplainsIllegalMove(t *testing.T) {
	// e2e4 f7f6 d1h5: Black is in check along h5-e8.
	m := testModel("0kNV7f.", nil, nil)
	m.choose(square(t, "g7"))
	if !m.dests.IsIllegal(square(t, "g5")) {
		t.Fatalf("g5 should be flagged, got %+v", m.dests)
	}
	m.choose(square(t, "g5"))
	if !strings.Contains(m.message, chess.ReasonSelfCheck) {
		t.Fatalf("message %q", m.message)
	}
	if _, ok := m.match.Proposed(); ok {
		t.Fatal("illegal move was proposed")
	}
}

func TestModelBadLink(t *testing.T) {
	m := testModel("0k", nil, nil)
	if m.loadErr == nil {
		t.Fatal("truncated token accepted")
	}
	m = press(m, "enter", "j")
	if !strings.Contains(m.View(), "could not be read") {
		t.Fatalf("view:\n%s", m.View())
	}
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
}

func TestModelBadLinkReleasesPlayer(t *testing.T) {
	h := testHub()
	p := NewPlayer("p")
	h.Join(p)
	m := testModel("AB", p, h)
	if cmd := m.Init(); cmd != nil {
		t.Fatal("a game that failed to load should not wait for relay updates")
	}
	h.Leave(p.ID)
	if _, ok := <-p.Updates; ok {
		t.Fatal("updates channel left open")
	}
}

func TestModelView(t *testing.T) {
	m := testModel("1tMc2mDn.", nil, nil)
	v := m.View()
	for _, want := range []string{"CHECKMATE", "BLACK WINS", "Last move: d8h4"} {
		if !strings.Contains(v, want) {
			t.Errorf("view lacks %q:\n%s", want, v)
		}
	}
}

func TestModelReceivesRelayedMove(t *testing.T) {
	h := testHub()
	alice, bob := NewPlayer("alice"), NewPlayer("bob")
	a := testModel(token.Empty, alice, h)
	b := testModel(token.Empty, bob, h)
	if b.others != 1 {
		t.Fatalf("bob sees %d others", b.others)
	}

	a = press(a, "enter", "k", "k", "enter", "enter")
	if a.match.Token() != "0k." {
		t.Fatalf("alice token %q", a.match.Token())
	}

	next, _ := b.Update(<-bob.Updates)
	b = next.(model)
	if b.pending == nil || b.pending.Token != "0k." {
		t.Fatalf("pending %+v", b.pending)
	}
	if !strings.Contains(b.View(), "alice played e2e4") {
		t.Fatalf("view:\n%s", b.View())
	}

	b = press(b, "n")
	if b.match.Token() != "0k." || b.pending != nil {
		t.Fatalf("bob token %q", b.match.Token())
	}
	if got := h.Watchers("0k."); got != 2 {
		t.Fatalf("watchers %d", got)
	}
}
