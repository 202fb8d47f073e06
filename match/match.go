// Package match drives one player's turn over a game read from a token. It
// holds the history and whatever the player has selected or proposed, and
// recomputes the position from the history on every query.
package match

import (
	"errors"
	"fmt"

	"github.com/imjasonh/chesslink/chess"
	"github.com/imjasonh/chesslink/token"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrNoProposal  = errors.New("no move proposed")
	ErrGameOver    = errors.New("game is over")
	ErrNotYourMove = errors.New("not your piece")
)

type Match struct {
	history  chess.Game
	selected chess.Square
	proposed *chess.Move

	// last replay, valid while its Ply equals len(history)
	cached   chess.Position
	hasCache bool
}

// New starts from a decoded token. Decode errors are returned unchanged so
// callers can tell token.ErrTruncated from token.ErrInvalidSquare.
func New(tok string) (*Match, error) {
	moves, err := token.Decode(tok)
	if err != nil {
		return nil, err
	}
	return FromHistory(moves), nil
}

func FromHistory(moves []chess.Move) *Match {
	return &Match{
		history:  append(chess.Game(nil), moves...),
		selected: chess.NoSquare,
	}
}

// Position replays the history. The proposal, if any, is not included.
func (m *Match) Position() chess.Position {
	if !m.hasCache || m.cached.Ply != len(m.history) {
		m.cached = m.history.Position()
		m.hasCache = true
	}
	return m.cached.Clone()
}

// History returns a copy of the moves played so far.
func (m *Match) History() chess.Game {
	return append(chess.Game(nil), m.history...)
}

// Captured lists the pieces of color c taken so far.
func (m *Match) Captured(c chess.Color) []chess.Piece {
	return m.Position().CapturedFrom(c)
}

func (m *Match) Turn() chess.Color {
	return m.Position().Turn()
}

func (m *Match) Status() chess.Status {
	return chess.GameStatus(m.Position())
}

func (m *Match) IsInCheck() bool {
	p := m.Position()
	return chess.InCheck(p, p.Turn())
}

func (m *Match) IsInCheckmate() bool {
	p := m.Position()
	return chess.InCheckmate(p, p.Turn())
}

// Validate reports the first ply the rules would have rejected, or a board
// without both kings. Tokens are replayed regardless.
func (m *Match) Validate() error {
	p, err := chess.ReplayChecked(m.history)
	if err != nil {
		return err
	}
	return p.Validate()
}

// LegalMovesFrom returns the legal and self-check destinations of the piece
// on sq in the current position.
func (m *Match) LegalMovesFrom(sq chess.Square) chess.Destinations {
	return chess.LegalMoves(m.Position(), sq)
}

func (m *Match) Token() string {
	return token.Encode(m.history)
}

// TokenForHistory encodes any history, such as the current one extended by
// a proposal.
func TokenForHistory(history []chess.Move) string {
	return token.Encode(history)
}

func (m *Match) Selected() chess.Square {
	return m.selected
}

// Select marks sq as the piece to move. Selecting the selected square again
// clears the selection. Only pieces of the side to move can be selected.
func (m *Match) Select(sq chess.Square) error {
	if m.proposed != nil {
		return fmt.Errorf("%s already proposed", m.proposed)
	}
	if sq == m.selected {
		m.selected = chess.NoSquare
		return nil
	}
	p := m.Position()
	pc := p.Board.At(sq)
	if pc.IsEmpty() || pc.Color != p.Turn() {
		return fmt.Errorf("%s: %w", sq, ErrNotYourMove)
	}
	m.selected = sq
	return nil
}

func (m *Match) Deselect() {
	m.selected = chess.NoSquare
}

// Propose stages a move without adding it to the history. The move must be
// legal for the side to move.
func (m *Match) Propose(from, to chess.Square) error {
	p := m.Position()
	if chess.GameStatus(p).Over() {
		return ErrGameOver
	}
	mv := chess.Move{From: from, To: to}
	if !chess.IsLegal(p, mv) {
		if r := chess.LegalMoves(p, from).Reason(to); r != "" {
			return fmt.Errorf("%s: %w: %s", mv, ErrIllegalMove, r)
		}
		return fmt.Errorf("%s: %w", mv, ErrIllegalMove)
	}
	m.proposed = &mv
	m.selected = chess.NoSquare
	return nil
}

// Proposed returns the staged move.
func (m *Match) Proposed() (chess.Move, bool) {
	if m.proposed == nil {
		return chess.Move{}, false
	}
	return *m.proposed, true
}

// Preview is the position after the proposed move, or the current one.
func (m *Match) Preview() chess.Position {
	p := m.Position()
	if m.proposed != nil {
		p = chess.ApplyMove(p, *m.proposed)
	}
	return p
}

// PendingToken is the token that confirming the proposal would produce.
func (m *Match) PendingToken() (string, error) {
	if m.proposed == nil {
		return "", ErrNoProposal
	}
	return TokenForHistory(m.history.Append(*m.proposed)), nil
}

// UndoProposal drops the staged move.
func (m *Match) UndoProposal() {
	m.proposed = nil
}

// Confirm appends the proposal to the history and returns the new token.
func (m *Match) Confirm() (string, error) {
	if m.proposed == nil {
		return "", ErrNoProposal
	}
	m.history = m.history.Append(*m.proposed)
	m.proposed = nil
	m.selected = chess.NoSquare
	return m.Token(), nil
}
