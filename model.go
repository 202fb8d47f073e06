package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imjasonh/chesslink/chess"
	"github.com/imjasonh/chesslink/match"
	"github.com/imjasonh/chesslink/token"
)

type model struct {
	// Game state
	match     *match.Match
	loadErr   error  // the token could not be read; nothing else is shown
	warning   string // the token replays, but not as a legal game
	cursorRow int    // screen coordinates, row 0 at the top
	cursorCol int
	flipped   bool
	dests     chess.Destinations
	message   string
	link      string // link to send after a confirmed move

	// Relay state
	player  *Player
	hub     *Hub
	pending *LinkUpdate // a newer link for this game arrived from the hub
	others  int

	baseURL string
	styles  styles
}

func newModel(tok, baseURL string, st styles, player *Player, hub *Hub) model {
	m := model{
		baseURL: baseURL,
		styles:  st,
		player:  player,
		hub:     hub,
		dests:   chess.Destinations{From: chess.NoSquare},
	}
	m.load(tok)
	return m
}

// load replaces the game with the one in tok, resetting all selection state.
func (m *model) load(tok string) {
	m.match, m.loadErr, m.warning = nil, nil, ""
	m.dests = chess.Destinations{From: chess.NoSquare}
	m.message, m.link, m.pending = "", "", nil

	mt, err := match.New(tok)
	if err != nil {
		m.loadErr = err
		return
	}
	m.match = mt
	if err := mt.Validate(); err != nil {
		m.warning = err.Error()
	}
	m.flipped = mt.Turn() == chess.Black
	m.cursorRow, m.cursorCol = 6, 4
	if m.hub != nil && m.player != nil {
		m.hub.Watch(m.player, tok)
		m.others = m.hub.Watchers(tok) - 1
	}
}

func (m model) Init() tea.Cmd {
	return m.listenForUpdates()
}

func (m model) listenForUpdates() tea.Cmd {
	if m.match == nil || m.player == nil || m.player.Updates == nil {
		return nil
	}
	updates := m.player.Updates
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return nil
		}
		return u
	}
}

func (m model) cursor() chess.Square {
	return chess.ViewIndex(m.cursorRow, m.cursorCol, m.flipped)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		if m.match == nil {
			return m, nil
		}
		m.message = ""

		switch msg.String() {
		case "up", "k":
			if m.cursorRow > 0 {
				m.cursorRow--
			}
		case "down", "j":
			if m.cursorRow < 7 {
				m.cursorRow++
			}
		case "left", "h":
			if m.cursorCol > 0 {
				m.cursorCol--
			}
		case "right", "l":
			if m.cursorCol < 7 {
				m.cursorCol++
			}
		case "f":
			m.flipped = !m.flipped
			m.cursorRow, m.cursorCol = 7-m.cursorRow, 7-m.cursorCol
		case "enter", " ":
			if _, ok := m.match.Proposed(); ok {
				m.confirm()
			} else {
				m.choose(m.cursor())
			}
		case "c":
			m.confirm()
		case "esc", "u":
			if _, ok := m.match.Proposed(); ok {
				m.match.UndoProposal()
				m.link = ""
			} else {
				m.match.Deselect()
				m.dests = chess.Destinations{From: chess.NoSquare}
			}
		case "n":
			if m.pending != nil {
				m.load(m.pending.Token)
			}
		}

	case LinkUpdate:
		return m.handleLinkUpdate(msg)
	}
	return m, nil
}

// choose selects the piece on sq, or proposes a move there from the
// selected piece.
func (m *model) choose(sq chess.Square) {
	pos := m.match.Position()
	if pc := pos.Board.At(sq); !pc.IsEmpty() && pc.Color == pos.Turn() {
		if err := m.match.Select(sq); err != nil {
			m.message = err.Error()
			return
		}
		m.dests = chess.Destinations{From: chess.NoSquare}
		if m.match.Selected() != chess.NoSquare {
			m.dests = m.match.LegalMovesFrom(sq)
		}
		return
	}

	from := m.match.Selected()
	if from == chess.NoSquare {
		return
	}
	if err := m.match.Propose(from, sq); err != nil {
		if r := m.dests.Reason(sq); r != "" {
			m.message = fmt.Sprintf("%s to %s %s", pos.Board.At(from).Name(), sq, r)
		} else {
			m.message = err.Error()
		}
		return
	}
	m.dests = chess.Destinations{From: chess.NoSquare}
	if tok, err := m.match.PendingToken(); err == nil {
		m.link = token.Link(m.baseURL, tok)
	}
}

func (m *model) confirm() {
	mv, ok := m.match.Proposed()
	if !ok {
		return
	}
	prev := m.match.Token()
	tok, err := m.match.Confirm()
	if errors.Is(err, match.ErrNoProposal) {
		return
	}
	m.link = token.Link(m.baseURL, tok)
	m.message = "Move sent. Share the link with your opponent."
	if m.hub != nil && m.player != nil {
		m.hub.Moved(m.player, prev, tok, mv.String())
		m.others = m.hub.Watchers(tok) - 1
	}
}

func (m model) handleLinkUpdate(u LinkUpdate) (tea.Model, tea.Cmd) {
	if m.player != nil && u.FromPlayer == m.player.ID {
		return m, m.listenForUpdates()
	}

	switch u.Type {
	case "moved":
		m.pending = &u
	case "joined":
		m.others++
	case "left":
		if m.others > 0 {
			m.others--
		}
	}
	return m, m.listenForUpdates()
}
