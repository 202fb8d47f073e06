// Package chess implements the rules of the game over a square-indexed board:
// move generation, legality, check detection and move application. Positions
// are values; every function returns a new Position instead of mutating one.
package chess

type Color int

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Other returns the opposing color.
func (c Color) Other() Color {
	return 1 - c
}

type Kind int

const (
	Empty Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{"Empty", "Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}

func (k Kind) String() string {
	if k < Empty || k > King {
		return "Unknown"
	}
	return kindNames[k]
}

type Piece struct {
	Kind  Kind
	Color Color
}

// NoPiece is the content of an empty square.
var NoPiece = Piece{}

func (p Piece) IsEmpty() bool {
	return p.Kind == Empty
}

// Is reports whether p is a piece of the given color and kind.
func (p Piece) Is(c Color, k Kind) bool {
	return p.Kind == k && p.Color == c
}

func (p Piece) String() string {
	return p.Symbol()
}

var (
	whiteSymbols = [...]string{" ", "♙", "♘", "♗", "♖", "♕", "♔"}
	blackSymbols = [...]string{" ", "♟", "♞", "♝", "♜", "♛", "♚"}
	pieceLetters = [...]byte{' ', 'p', 'n', 'b', 'r', 'q', 'k'}
)

func (p Piece) Symbol() string {
	if p.Color == White {
		return whiteSymbols[p.Kind]
	}
	return blackSymbols[p.Kind]
}

// Letter returns the FEN letter of the piece, upper case for White.
func (p Piece) Letter() byte {
	l := pieceLetters[p.Kind]
	if p.Color == White && p.Kind != Empty {
		l -= 'a' - 'A'
	}
	return l
}

func (p Piece) Name() string {
	if p.IsEmpty() {
		return "Empty"
	}
	return p.Color.String() + " " + p.Kind.String()
}

// The packed form keeps the kind in the low three bits and the color in the
// fourth, so zero is an empty square.
const colorBit = 8

func (p Piece) Pack() uint8 {
	if p.IsEmpty() {
		return 0
	}
	return uint8(p.Kind) | uint8(p.Color)*colorBit
}

func Unpack(b uint8) Piece {
	k := Kind(b & 7)
	if k == Empty || k > King {
		return NoPiece
	}
	return Piece{Kind: k, Color: Color(b / colorBit & 1)}
}

func pieceFromLetter(l rune) (Piece, bool) {
	if l > 'z' {
		return NoPiece, false
	}
	for k := Pawn; k <= King; k++ {
		switch byte(l) {
		case pieceLetters[k]:
			return Piece{Kind: k, Color: Black}, true
		case pieceLetters[k] - ('a' - 'A'):
			return Piece{Kind: k, Color: White}, true
		}
	}
	return NoPiece, false
}
