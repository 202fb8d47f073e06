package chess

import (
	"errors"
	"fmt"
	"strings"
)

type Side int

const (
	Kingside Side = iota
	Queenside
)

// CastlingRights is indexed by color then side. Rights are only ever cleared.
type CastlingRights [2][2]bool

func AllCastlingRights() CastlingRights {
	return CastlingRights{{true, true}, {true, true}}
}

func (r CastlingRights) Has(c Color, s Side) bool {
	return r[c][s]
}

func (r CastlingRights) String() string {
	var s strings.Builder
	for _, f := range []struct {
		c Color
		s Side
		l byte
	}{{White, Kingside, 'K'}, {White, Queenside, 'Q'}, {Black, Kingside, 'k'}, {Black, Queenside, 'q'}} {
		if r[f.c][f.s] {
			s.WriteByte(f.l)
		}
	}
	if s.Len() == 0 {
		return "-"
	}
	return s.String()
}

// castle describes the fixed squares involved in one castling move.
type castle struct {
	king, kingTo, rook, rookTo Square
	between                    []Square
	transit                    Square
}

func homeRow(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

func castleFor(c Color, s Side) castle {
	row := homeRow(c)
	if s == Kingside {
		return castle{
			king:    SquareIndex(row, 4),
			kingTo:  SquareIndex(row, 6),
			rook:    SquareIndex(row, 7),
			rookTo:  SquareIndex(row, 5),
			between: []Square{SquareIndex(row, 5), SquareIndex(row, 6)},
			transit: SquareIndex(row, 5),
		}
	}
	return castle{
		king:    SquareIndex(row, 4),
		kingTo:  SquareIndex(row, 2),
		rook:    SquareIndex(row, 0),
		rookTo:  SquareIndex(row, 3),
		between: []Square{SquareIndex(row, 1), SquareIndex(row, 2), SquareIndex(row, 3)},
		transit: SquareIndex(row, 3),
	}
}

// Position is the full state needed to continue a game. It is a value: copy it
// with Clone before changing anything.
type Position struct {
	Board     Board
	Castling  CastlingRights
	EnPassant Square
	Captured  []Piece
	// Ply counts the moves replayed to reach this position.
	Ply int
}

func NewPosition() Position {
	return Position{
		Board:     ParseInitialPosition(),
		Castling:  AllCastlingRights(),
		EnPassant: NoSquare,
	}
}

// Clone returns a deep copy that shares nothing with p.
func (p Position) Clone() Position {
	c := p
	if p.Captured != nil {
		c.Captured = append([]Piece(nil), p.Captured...)
	}
	return c
}

// Turn is the side to move, derived from the number of moves played.
func (p Position) Turn() Color {
	if p.Ply%2 == 0 {
		return White
	}
	return Black
}

// CapturedFrom lists the pieces of color c that have been taken, in order.
func (p Position) CapturedFrom(c Color) []Piece {
	var out []Piece
	for _, pc := range p.Captured {
		if pc.Color == c {
			out = append(out, pc)
		}
	}
	return out
}

// FEN exports the position. Halfmove clocks are not tracked and always 0.
func (p Position) FEN() string {
	turn := "w"
	if p.Turn() == Black {
		turn = "b"
	}
	ep := "-"
	if p.EnPassant.Valid() {
		ep = p.EnPassant.String()
	}
	return fmt.Sprintf("%s %s %s %s 0 %d", p.Board.Placement(), turn, p.Castling, ep, p.Ply/2+1)
}

var ErrMissingKing = errors.New("missing king")

// Validate checks that each side has exactly one king. Malformed tokens can
// replay into positions where that no longer holds.
func (p Position) Validate() error {
	for _, c := range []Color{White, Black} {
		n := 0
		for _, pc := range p.Board {
			if pc.Is(c, King) {
				n++
			}
		}
		switch {
		case n == 0:
			return fmt.Errorf("%s: %w", c, ErrMissingKing)
		case n > 1:
			return fmt.Errorf("%s has %d kings", c, n)
		}
	}
	return nil
}

// ParseFEN reads a position from Forsyth-Edwards Notation. The halfmove clock
// is ignored; the side to move and move number set Ply.
func ParseFEN(fen string) (Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return Position{}, fmt.Errorf("fen %q: want at least 4 fields", fen)
	}
	board, err := ParsePlacement(fields[0])
	if err != nil {
		return Position{}, fmt.Errorf("fen %q: %w", fen, err)
	}
	p := Position{Board: board, EnPassant: NoSquare}

	switch fields[1] {
	case "w":
	case "b":
		p.Ply = 1
	default:
		return Position{}, fmt.Errorf("fen %q: bad side to move %q", fen, fields[1])
	}

	for _, l := range fields[2] {
		switch l {
		case 'K':
			p.Castling[White][Kingside] = true
		case 'Q':
			p.Castling[White][Queenside] = true
		case 'k':
			p.Castling[Black][Kingside] = true
		case 'q':
			p.Castling[Black][Queenside] = true
		case '-':
		default:
			return Position{}, fmt.Errorf("fen %q: bad castling field %q", fen, fields[2])
		}
	}

	if fields[3] != "-" {
		if p.EnPassant, err = ParseSquare(fields[3]); err != nil {
			return Position{}, fmt.Errorf("fen %q: %w", fen, err)
		}
	}

	if len(fields) >= 6 {
		var n int
		if _, err := fmt.Sscanf(fields[5], "%d", &n); err == nil && n > 1 {
			p.Ply += (n - 1) * 2
		}
	}
	return p, nil
}
