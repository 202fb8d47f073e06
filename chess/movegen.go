package chess

type offset struct{ dr, dc int }

var (
	knightOffsets = []offset{
		{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
		{1, -2}, {1, 2}, {2, -1}, {2, 1},
	}
	bishopDirs = []offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	rookDirs   = []offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	royalDirs  = append(append([]offset{}, rookDirs...), bishopDirs...)
)

// forward is the row step of a pawn of color c.
func forward(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func pawnHomeRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

// PseudoMoves returns the destinations the piece on from can reach by its
// movement rules, without regard to leaving its own king in check. Castling
// destinations are included when every castling condition holds.
func PseudoMoves(p Position, from Square) []Square {
	return pseudoMoves(&p, from, true)
}

func pseudoMoves(p *Position, from Square, castling bool) []Square {
	piece := p.Board.At(from)
	if piece.IsEmpty() {
		return nil
	}
	row, col := from.RowCol()

	var moves []Square
	add := func(to Square) {
		if !to.Valid() {
			return
		}
		if t := p.Board[to]; !t.IsEmpty() && t.Color == piece.Color {
			return
		}
		moves = append(moves, to)
	}

	switch piece.Kind {
	case Pawn:
		dr := forward(piece.Color)
		one := SquareIndex(row+dr, col)
		if one.Valid() && p.Board[one].IsEmpty() {
			add(one)
			two := SquareIndex(row+2*dr, col)
			if row == pawnHomeRow(piece.Color) && two.Valid() && p.Board[two].IsEmpty() {
				add(two)
			}
		}
		for _, dc := range []int{-1, 1} {
			to := SquareIndex(row+dr, col+dc)
			if !to.Valid() {
				continue
			}
			target := p.Board[to]
			switch {
			case !target.IsEmpty() && target.Color != piece.Color:
				add(to)
			case target.IsEmpty() && to == p.EnPassant:
				if p.Board.At(SquareIndex(row, col+dc)).Is(piece.Color.Other(), Pawn) {
					add(to)
				}
			}
		}
	case Knight:
		for _, o := range knightOffsets {
			add(SquareIndex(row+o.dr, col+o.dc))
		}
	case Bishop:
		moves = slide(p, piece.Color, row, col, bishopDirs, moves)
	case Rook:
		moves = slide(p, piece.Color, row, col, rookDirs, moves)
	case Queen:
		moves = slide(p, piece.Color, row, col, royalDirs, moves)
	case King:
		for _, o := range royalDirs {
			add(SquareIndex(row+o.dr, col+o.dc))
		}
		if castling {
			for _, s := range []Side{Kingside, Queenside} {
				if canCastle(p, piece.Color, from, s) {
					moves = append(moves, castleFor(piece.Color, s).kingTo)
				}
			}
		}
	}
	return moves
}

// slide casts rays until the edge or the first occupied square, which is
// included only when it holds an opposing piece.
func slide(p *Position, c Color, row, col int, dirs []offset, moves []Square) []Square {
	for _, d := range dirs {
		for r, cl := row+d.dr, col+d.dc; ; r, cl = r+d.dr, cl+d.dc {
			to := SquareIndex(r, cl)
			if !to.Valid() {
				break
			}
			t := p.Board[to]
			if t.IsEmpty() {
				moves = append(moves, to)
				continue
			}
			if t.Color != c {
				moves = append(moves, to)
			}
			break
		}
	}
	return moves
}

func canCastle(p *Position, c Color, from Square, s Side) bool {
	cs := castleFor(c, s)
	if !p.Castling.Has(c, s) || from != cs.king || !p.Board[cs.rook].Is(c, Rook) {
		return false
	}
	for _, sq := range cs.between {
		if !p.Board[sq].IsEmpty() {
			return false
		}
	}
	if InCheck(*p, c) {
		return false
	}

	// The king may not pass through an attacked square: try it one step over.
	trial := p.Clone()
	trial.Board[cs.transit] = trial.Board[cs.king]
	trial.Board[cs.king] = NoPiece
	trial.EnPassant = NoSquare
	return !InCheck(trial, c)
}
