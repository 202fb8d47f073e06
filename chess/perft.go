package chess

// Perft counts the leaf nodes of the legal move tree to the given depth.
// Promotions count once since only queens are ever promoted to.
func Perft(p Position, depth int) int {
	if depth <= 0 {
		return 1
	}
	moves := AllLegalMoves(p)
	if depth == 1 {
		return len(moves)
	}
	n := 0
	for _, m := range moves {
		n += Perft(ApplyMove(p, m), depth-1)
	}
	return n
}
