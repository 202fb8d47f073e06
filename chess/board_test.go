package chess

import (
	"errors"
	"strings"
	"testing"
)

func sq(t *testing.T, v string) Square {
	t.Helper()
	s, err := ParseSquare(v)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", v, err)
	}
	return s
}

func fromFEN(t *testing.T, fen string) Position {
	t.Helper()
	p, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	return p
}

// play replays space separated coordinate moves, failing on the first one
// the rules reject.
func play(t *testing.T, text string) Position {
	t.Helper()
	var moves []Move
	for _, f := range strings.Fields(text) {
		m, err := ParseMove(f)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", f, err)
		}
		moves = append(moves, m)
	}
	p, err := ReplayChecked(moves)
	if err != nil {
		t.Fatalf("replay %q: %v", text, err)
	}
	return p
}

func TestSquares(t *testing.T) {
	for _, tt := range []struct {
		name     string
		want     Square
		row, col int
	}{
		{"a8", 0, 0, 0},
		{"h8", 7, 0, 7},
		{"e2", 52, 6, 4},
		{"a1", 56, 7, 0},
		{"h1", 63, 7, 7},
	} {
		got := sq(t, tt.name)
		if got != tt.want {
			t.Errorf("ParseSquare(%q): got %d want %d", tt.name, got, tt.want)
		}
		if row, col := got.RowCol(); row != tt.row || col != tt.col {
			t.Errorf("%s.RowCol(): got (%d,%d) want (%d,%d)", tt.name, row, col, tt.row, tt.col)
		}
		if got.String() != tt.name {
			t.Errorf("String(): got %q want %q", got.String(), tt.name)
		}
		if SquareIndex(tt.row, tt.col) != tt.want {
			t.Errorf("SquareIndex(%d,%d): got %d want %d", tt.row, tt.col, SquareIndex(tt.row, tt.col), tt.want)
		}
	}

	if got := SquareIndex(8, 0); got != NoSquare {
		t.Errorf("SquareIndex(8,0): got %d want NoSquare", got)
	}
	for _, bad := range []string{"", "i1", "a9", "e", "e22"} {
		if _, err := ParseSquare(bad); err == nil {
			t.Errorf("ParseSquare(%q): expected error", bad)
		}
	}
}

func TestViewIndexFlipped(t *testing.T) {
	if got := ViewIndex(0, 0, false); got != sq(t, "a8") {
		t.Errorf("unflipped top-left: got %s", got)
	}
	if got := ViewIndex(0, 0, true); got != sq(t, "h1") {
		t.Errorf("flipped top-left: got %s", got)
	}
	if got := ViewIndex(7, 3, true); got != sq(t, "e8") {
		t.Errorf("flipped (7,3): got %s", got)
	}
}

func TestInitialPosition(t *testing.T) {
	p := NewPosition()
	if got := p.FEN(); got != StartFEN {
		t.Fatalf("FEN: got %q want %q", got, StartFEN)
	}
	if p.Turn() != White {
		t.Fatalf("turn: got %s", p.Turn())
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := p.Board.At(sq(t, "e1")); got != (Piece{King, White}) {
		t.Errorf("e1: got %s", got.Name())
	}
	if got := p.Board.At(sq(t, "d8")); got != (Piece{Queen, Black}) {
		t.Errorf("d8: got %s", got.Name())
	}
}

func TestBoardQueriesOnReturnedPositions(t *testing.T) {
	e2, e4 := sq(t, "e2"), sq(t, "e4")
	if got := ApplyMove(NewPosition(), Move{From: e2, To: e4}).Board.At(e4); got != (Piece{Pawn, White}) {
		t.Errorf("e4 after e2e4: got %s", got.Name())
	}
	if got := NewPosition().Board.Find(Piece{King, Black}); got != sq(t, "e8") {
		t.Errorf("black king: got %s", got)
	}
	if got := NewPosition().Board.At(NoSquare); !got.IsEmpty() {
		t.Errorf("off board: got %s", got.Name())
	}
}

func TestParseFENRoundTrip(t *testing.T) {
	for _, fen := range []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
		"8/8/8/8/8/8/8/k6K b - - 0 40",
	} {
		p := fromFEN(t, fen)
		if got := p.FEN(); got != fen {
			t.Errorf("round trip: got %q want %q", got, fen)
		}
	}

	for _, bad := range []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
	} {
		if _, err := ParseFEN(bad); err == nil {
			t.Errorf("ParseFEN(%q): expected error", bad)
		}
	}
}

func TestPackedPieces(t *testing.T) {
	if NoPiece.Pack() != 0 {
		t.Fatalf("empty packs to %d", NoPiece.Pack())
	}
	for _, c := range []Color{White, Black} {
		for k := Pawn; k <= King; k++ {
			p := Piece{k, c}
			if got := Unpack(p.Pack()); got != p {
				t.Errorf("Unpack(Pack(%s)): got %s", p.Name(), got.Name())
			}
		}
	}
}

func TestValidateMissingKing(t *testing.T) {
	p := fromFEN(t, "8/8/8/8/8/8/8/4K3 w - - 0 1")
	if err := p.Validate(); !errors.Is(err, ErrMissingKing) {
		t.Fatalf("Validate: got %v want ErrMissingKing", err)
	}
	if InCheck(p, Black) {
		t.Fatalf("a side without a king cannot be in check")
	}
}

func TestCapturedFrom(t *testing.T) {
	p := play(t, "e2e4 d7d5 e4d5 d8d5 b1c3 d5a2 a1a2")
	if got := len(p.Captured); got != 4 {
		t.Fatalf("captured: got %d want 4", got)
	}
	if got := p.CapturedFrom(Black); len(got) != 2 || got[0] != (Piece{Pawn, Black}) || got[1] != (Piece{Queen, Black}) {
		t.Errorf("black losses: got %v", got)
	}
	if got := p.CapturedFrom(White); len(got) != 2 || got[1] != (Piece{Pawn, White}) {
		t.Errorf("white losses: got %v", got)
	}
}
