package chess

// Attacked reports whether any piece of color by could move onto sq. Castling
// is never considered, so the scan cannot recurse into itself.
func Attacked(p Position, sq Square, by Color) bool {
	return attacked(&p, sq, by)
}

func attacked(p *Position, sq Square, by Color) bool {
	for i, pc := range p.Board {
		if pc.IsEmpty() || pc.Color != by {
			continue
		}
		for _, to := range pseudoMoves(p, Square(i), false) {
			if to == sq {
				return true
			}
		}
	}
	return false
}

// InCheck reports whether the king of color c is attacked. A board without
// that king, which only a malformed history can produce, is never in check.
func InCheck(p Position, c Color) bool {
	king := p.Board.Find(Piece{Kind: King, Color: c})
	if !king.Valid() {
		return false
	}
	return attacked(&p, king, c.Other())
}

func hasLegalMove(p Position, c Color) bool {
	for i, pc := range p.Board {
		if pc.IsEmpty() || pc.Color != c {
			continue
		}
		if len(LegalMoves(p, Square(i)).Legal) > 0 {
			return true
		}
	}
	return false
}

// InCheckmate reports whether c is in check with no legal reply.
func InCheckmate(p Position, c Color) bool {
	return InCheck(p, c) && !hasLegalMove(p, c)
}

// InStalemate reports whether c has no legal move while not in check.
func InStalemate(p Position, c Color) bool {
	return !InCheck(p, c) && !hasLegalMove(p, c)
}

type Status int

const (
	Playing Status = iota
	Check
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "playing"
	}
}

// Over reports whether no further move can be played.
func (s Status) Over() bool {
	return s == Checkmate || s == Stalemate
}

// GameStatus evaluates the position for the side to move.
func GameStatus(p Position) Status {
	c := p.Turn()
	check, legal := InCheck(p, c), hasLegalMove(p, c)
	switch {
	case legal && check:
		return Check
	case legal:
		return Playing
	case check:
		return Checkmate
	default:
		return Stalemate
	}
}
