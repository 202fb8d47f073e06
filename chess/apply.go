package chess

import (
	"fmt"
	"strings"
)

// Move is a pair of squares. Castling is a two-file king move, promotion and
// en passant are implied by the position it is played in.
type Move struct {
	From, To Square
}

func (m Move) String() string {
	return m.From.String() + m.To.String()
}

// ParseMove reads coordinate notation such as "e2e4". A trailing promotion
// letter is accepted and ignored since pawns always become queens.
func ParseMove(v string) (Move, error) {
	v = strings.TrimSpace(v)
	if len(v) != 4 && len(v) != 5 {
		return Move{}, fmt.Errorf("invalid move %q", v)
	}
	from, err := ParseSquare(v[:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(v[2:4])
	if err != nil {
		return Move{}, err
	}
	return Move{From: from, To: to}, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ApplyMove returns the position after m. It does not check legality, so a
// malformed history is replayed as given. p is left untouched.
func ApplyMove(p Position, m Move) Position {
	next := p.Clone()
	next.Ply++
	next.EnPassant = NoSquare
	if !m.From.Valid() || !m.To.Valid() {
		return next
	}

	b := &next.Board
	piece := b[m.From]
	fromRow, fromCol := m.From.RowCol()
	toRow, toCol := m.To.RowCol()

	if piece.Kind == King && fromRow == toRow && abs(toCol-fromCol) == 2 {
		side := Queenside
		if toCol > fromCol {
			side = Kingside
		}
		if cs := castleFor(piece.Color, side); m.From == cs.king {
			b[cs.rookTo] = b[cs.rook]
			b[cs.rook] = NoPiece
		}
	}

	if target := b[m.To]; !target.IsEmpty() {
		next.Captured = append(next.Captured, target)
	} else if piece.Kind == Pawn && m.To == p.EnPassant {
		victim := SquareIndex(toRow-forward(piece.Color), toCol)
		if v := b.At(victim); !v.IsEmpty() {
			next.Captured = append(next.Captured, v)
			b[victim] = NoPiece
		}
	}

	b[m.To] = piece
	b[m.From] = NoPiece

	if piece.Kind == Pawn && fromCol == toCol && abs(toRow-fromRow) == 2 {
		next.EnPassant = SquareIndex((fromRow+toRow)/2, fromCol)
	}

	if piece.Kind == Pawn && toRow == homeRow(piece.Color.Other()) {
		b[m.To] = Piece{Kind: Queen, Color: piece.Color}
	}

	for _, c := range []Color{White, Black} {
		for _, s := range []Side{Kingside, Queenside} {
			cs := castleFor(c, s)
			if m.From == cs.king || m.From == cs.rook || m.To == cs.rook {
				next.Castling[c][s] = false
			}
		}
	}
	return next
}

// Game is the ordered list of moves played from the standard opening array.
type Game []Move

// Replay folds ApplyMove over the moves from the starting position. It is the
// only way a current position is produced.
func Replay(moves []Move) Position {
	p := NewPosition()
	for _, m := range moves {
		p = ApplyMove(p, m)
	}
	return p
}

func (g Game) Position() Position {
	return Replay(g)
}

// Append returns a new game with m added; g is not modified.
func (g Game) Append(m Move) Game {
	out := make(Game, len(g), len(g)+1)
	copy(out, g)
	return append(out, m)
}

// IllegalMoveError names the first ply of a history that the rules reject.
type IllegalMoveError struct {
	Ply    int
	Move   Move
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("ply %d (%s): %s", e.Ply+1, e.Move, e.Reason)
}

// ReplayChecked replays moves like Replay but stops at the first move that is
// not legal in the position it is played from. The position reached so far is
// returned with the error.
func ReplayChecked(moves []Move) (Position, error) {
	p := NewPosition()
	for i, m := range moves {
		if reason := illegalReason(p, m); reason != "" {
			return p, &IllegalMoveError{Ply: i, Move: m, Reason: reason}
		}
		p = ApplyMove(p, m)
	}
	return p, nil
}

func illegalReason(p Position, m Move) string {
	pc := p.Board.At(m.From)
	switch {
	case !m.From.Valid() || !m.To.Valid():
		return "square out of range"
	case pc.IsEmpty():
		return "no piece on " + m.From.String()
	case pc.Color != p.Turn():
		return "not " + pc.Color.String() + "'s turn"
	}
	d := LegalMoves(p, m.From)
	if d.IsLegal(m.To) {
		return ""
	}
	if r := d.Reason(m.To); r != "" {
		return r
	}
	return pc.Kind.String() + " cannot reach " + m.To.String()
}
