package chess

import "slices"

// ReasonSelfCheck explains why a pseudo-legal destination was filtered out.
const ReasonSelfCheck = "would leave king in check"

// Destinations splits the pseudo-legal destinations of one piece into those
// it may play and those that would expose its own king.
type Destinations struct {
	From    Square
	Legal   []Square
	Illegal []Square
}

func (d Destinations) IsLegal(to Square) bool {
	return slices.Contains(d.Legal, to)
}

func (d Destinations) IsIllegal(to Square) bool {
	return slices.Contains(d.Illegal, to)
}

// Reason explains why to is not playable, or returns "" if it is legal or
// not reachable at all.
func (d Destinations) Reason(to Square) string {
	if d.IsIllegal(to) {
		return ReasonSelfCheck
	}
	return ""
}

// LegalMoves plays every pseudo-move of the piece on from on a copy of p and
// keeps those after which the mover's king is not attacked.
func LegalMoves(p Position, from Square) Destinations {
	d := Destinations{From: from}
	piece := p.Board.At(from)
	if piece.IsEmpty() {
		return d
	}
	for _, to := range pseudoMoves(&p, from, true) {
		trial := ApplyMove(p, Move{From: from, To: to})
		if InCheck(trial, piece.Color) {
			d.Illegal = append(d.Illegal, to)
		} else {
			d.Legal = append(d.Legal, to)
		}
	}
	return d
}

// AllLegalMoves lists the legal moves of the side to move in square order.
func AllLegalMoves(p Position) []Move {
	var moves []Move
	turn := p.Turn()
	for i, pc := range p.Board {
		if pc.IsEmpty() || pc.Color != turn {
			continue
		}
		for _, to := range LegalMoves(p, Square(i)).Legal {
			moves = append(moves, Move{From: Square(i), To: to})
		}
	}
	return moves
}

// IsLegal reports whether m is a legal move for the side to move.
func IsLegal(p Position, m Move) bool {
	pc := p.Board.At(m.From)
	if pc.IsEmpty() || pc.Color != p.Turn() {
		return false
	}
	return LegalMoves(p, m.From).IsLegal(m.To)
}
