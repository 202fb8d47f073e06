package match

import (
	"errors"
	"testing"

	"github.com/imjasonh/chesslink/chess"
	"github.com/imjasonh/chesslink/token"
)

func mustSquare(t *testing.T, v string) chess.Square {
	t.Helper()
	s, err := chess.ParseSquare(v)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewRejectsBadTokens(t *testing.T) {
	if _, err := New("0kMc"); !errors.Is(err, token.ErrTruncated) {
		t.Fatalf("got %v want ErrTruncated", err)
	}
	if _, err := New("0k*c."); !errors.Is(err, token.ErrInvalidSquare) {
		t.Fatalf("got %v want ErrInvalidSquare", err)
	}
}

func TestProposeConfirm(t *testing.T) {
	m, err := New(token.Empty)
	if err != nil {
		t.Fatal(err)
	}
	e2, e4 := mustSquare(t, "e2"), mustSquare(t, "e4")

	if err := m.Select(mustSquare(t, "e7")); !errors.Is(err, ErrNotYourMove) {
		t.Fatalf("selecting a black pawn on white's turn: got %v", err)
	}
	if err := m.Select(e2); err != nil {
		t.Fatalf("Select(e2): %v", err)
	}
	if got := len(m.LegalMovesFrom(m.Selected()).Legal); got != 2 {
		t.Fatalf("e2 pawn: got %d legal moves want 2", got)
	}
	if _, err := m.Confirm(); !errors.Is(err, ErrNoProposal) {
		t.Fatalf("Confirm without proposal: got %v", err)
	}
	if err := m.Propose(e2, mustSquare(t, "e5")); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("Propose(e2e5): got %v", err)
	}
	if err := m.Propose(e2, e4); err != nil {
		t.Fatalf("Propose(e2e4): %v", err)
	}
	if m.Selected() != chess.NoSquare {
		t.Fatalf("selection kept after proposal")
	}

	pending, err := m.PendingToken()
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Preview().Board.At(e4); got != (chess.Piece{Kind: chess.Pawn, Color: chess.White}) {
		t.Fatalf("preview e4: %s", got.Name())
	}
	if got := m.Position().Board.At(e4); !got.IsEmpty() {
		t.Fatalf("proposal leaked into the position")
	}

	m.UndoProposal()
	if _, ok := m.Proposed(); ok {
		t.Fatalf("proposal survived undo")
	}
	if err := m.Propose(e2, e4); err != nil {
		t.Fatal(err)
	}
	tok, err := m.Confirm()
	if err != nil {
		t.Fatal(err)
	}
	if tok != pending || tok != "0k." {
		t.Fatalf("Confirm: got %q, pending was %q", tok, pending)
	}
	if m.Turn() != chess.Black {
		t.Fatalf("turn after confirm: %s", m.Turn())
	}
}

func TestSelfCheckReason(t *testing.T) {
	// 1. e4 f6 2. Qh5+ opens the h5-e8 diagonal.
	var moves []chess.Move
	for _, v := range []string{"e2e4", "f7f6", "d1h5"} {
		mv, err := chess.ParseMove(v)
		if err != nil {
			t.Fatal(err)
		}
		moves = append(moves, mv)
	}
	m := FromHistory(moves)
	if !m.IsInCheck() {
		t.Fatalf("black should be in check")
	}
	err := m.Propose(mustSquare(t, "a7"), mustSquare(t, "a6"))
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("ignoring check: got %v", err)
	}
	if err := m.Propose(mustSquare(t, "g7"), mustSquare(t, "g6")); err != nil {
		t.Fatalf("blocking with g6: %v", err)
	}
}

func TestCheckmateEndsGame(t *testing.T) {
	m, err := New("1tMc2mDn.")
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsInCheckmate() {
		t.Fatalf("fool's mate token not mate: %s", m.Position().FEN())
	}
	if m.Status() != chess.Checkmate {
		t.Fatalf("status: %s", m.Status())
	}
	if err := m.Propose(mustSquare(t, "e1"), mustSquare(t, "f2")); !errors.Is(err, ErrGameOver) {
		t.Fatalf("move after mate: got %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateFlagsForgedHistory(t *testing.T) {
	m := FromHistory([]chess.Move{{From: 52, To: 28}})
	var ime *chess.IllegalMoveError
	if err := m.Validate(); !errors.As(err, &ime) {
		t.Fatalf("Validate: got %v", err)
	}
	// The forged move is still replayed.
	if got := m.Position().Board.At(28); got.Kind != chess.Pawn {
		t.Fatalf("e5: %s", got.Name())
	}
}

func TestPositionIsRecomputed(t *testing.T) {
	m, err := New("0kMc.")
	if err != nil {
		t.Fatal(err)
	}
	p := m.Position()
	p.Board[0] = chess.NoPiece
	if m.Position().Board[0].IsEmpty() {
		t.Fatalf("caller edits reached the match")
	}
	if got := m.Position().Ply; got != 2 {
		t.Fatalf("ply: got %d", got)
	}
	if got := m.Captured(chess.White); len(got) != 0 {
		t.Fatalf("captured: %v", got)
	}
}
