package chess

import (
	"fmt"
	"strings"
)

// Square indexes the board row-major from a8 (0) to h1 (63). Row 0 is the
// eighth rank, as seen by White.
type Square int

const NoSquare Square = -1

func SquareIndex(row, col int) Square {
	if row < 0 || row > 7 || col < 0 || col > 7 {
		return NoSquare
	}
	return Square(row*8 + col)
}

func (s Square) Valid() bool {
	return s >= 0 && s < 64
}

func (s Square) RowCol() (row, col int) {
	return int(s) / 8, int(s) % 8
}

// Flip maps a square to the one shown at the same place when the board is
// turned around for Black.
func (s Square) Flip() Square {
	if !s.Valid() {
		return NoSquare
	}
	return s ^ 63
}

// ViewIndex converts a screen cell to a board square, flipping for Black's
// point of view. Only presentation code should care about flipped boards.
func ViewIndex(row, col int, flipped bool) Square {
	sq := SquareIndex(row, col)
	if flipped {
		return sq.Flip()
	}
	return sq
}

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	row, col := s.RowCol()
	return fmt.Sprintf("%c%d", 'a'+col, 8-row)
}

// ParseSquare reads algebraic notation such as "e2".
func ParseSquare(v string) (Square, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if len(v) != 2 || v[0] < 'a' || v[0] > 'h' || v[1] < '1' || v[1] > '8' {
		return NoSquare, fmt.Errorf("invalid square %q", v)
	}
	return SquareIndex(int('8'-v[1]), int(v[0]-'a')), nil
}

type Board [64]Piece

// StartFEN is the standard opening array.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParsePlacement builds a board from the placement field of a FEN string.
// Anything after the first space is ignored.
func ParsePlacement(fen string) (Board, error) {
	var b Board
	if i := strings.IndexByte(fen, ' '); i >= 0 {
		fen = fen[:i]
	}
	sq := 0
	for _, c := range fen {
		switch {
		case c == '/':
			if sq%8 != 0 {
				return b, fmt.Errorf("rank %d has %d files", sq/8+1, sq%8)
			}
		case c >= '1' && c <= '8':
			sq += int(c - '0')
		default:
			p, ok := pieceFromLetter(c)
			if !ok {
				return b, fmt.Errorf("unexpected %q in placement", c)
			}
			if sq >= 64 {
				return b, fmt.Errorf("placement overflows the board")
			}
			b[sq] = p
			sq++
		}
		if sq > 64 {
			return b, fmt.Errorf("placement overflows the board")
		}
	}
	if sq != 64 {
		return b, fmt.Errorf("placement covers %d squares", sq)
	}
	return b, nil
}

// ParseInitialPosition returns the board of a new game.
func ParseInitialPosition() Board {
	b, err := ParsePlacement(StartFEN)
	if err != nil {
		panic(err)
	}
	return b
}

func (b Board) At(s Square) Piece {
	if !s.Valid() {
		return NoPiece
	}
	return b[s]
}

// Find returns the first square holding p, or NoSquare.
func (b Board) Find(p Piece) Square {
	for i, q := range b {
		if q == p {
			return Square(i)
		}
	}
	return NoSquare
}

// Placement renders the FEN placement field.
func (b Board) Placement() string {
	var s strings.Builder
	for row := range 8 {
		if row > 0 {
			s.WriteByte('/')
		}
		empty := 0
		for col := range 8 {
			p := b[row*8+col]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				s.WriteByte(byte('0' + empty))
				empty = 0
			}
			s.WriteByte(p.Letter())
		}
		if empty > 0 {
			s.WriteByte(byte('0' + empty))
		}
	}
	return s.String()
}
