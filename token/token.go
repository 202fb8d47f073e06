// Package token turns a game history into the short string carried by a
// shared link, and back. Each move is two characters, one per square, taken
// from a URL-safe 64 character alphabet; a terminator marks the end so a
// link cut short by a mail client is detected rather than replayed.
package token

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/imjasonh/chesslink/chess"
)

const (
	Alphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	Terminator = '.'
)

// QueryKey is the link parameter holding the token.
const QueryKey = "state"

var (
	ErrTruncated     = errors.New("truncated token")
	ErrInvalidSquare = errors.New("invalid square character")
)

var inverse = func() (t [256]int8) {
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		t[Alphabet[i]] = int8(i)
	}
	return t
}()

// Empty is the token of a game with no moves.
var Empty = string(Terminator)

// Encode writes the moves in order followed by the terminator. It panics on
// a square off the board: such a move never comes out of Decode or the
// legality filter.
func Encode(moves []chess.Move) string {
	var s strings.Builder
	s.Grow(2*len(moves) + 1)
	for i, m := range moves {
		if !m.From.Valid() || !m.To.Valid() {
			panic(fmt.Sprintf("token: move %d has a square off the board: %d-%d", i, m.From, m.To))
		}
		s.WriteByte(Alphabet[m.From])
		s.WriteByte(Alphabet[m.To])
	}
	s.WriteByte(Terminator)
	return s.String()
}

// Decode reverses Encode. A missing terminator or an odd number of square
// characters yields ErrTruncated, and a character outside the alphabet
// yields ErrInvalidSquare. No partial history is ever returned.
func Decode(tok string) ([]chess.Move, error) {
	if len(tok) == 0 || tok[len(tok)-1] != Terminator || len(tok)%2 == 0 {
		return nil, fmt.Errorf("%w: %d characters", ErrTruncated, len(tok))
	}
	body := tok[:len(tok)-1]
	moves := make([]chess.Move, 0, len(body)/2)
	for i := 0; i < len(body); i += 2 {
		from, to := inverse[body[i]], inverse[body[i+1]]
		if from < 0 {
			return nil, fmt.Errorf("%w %q at offset %d", ErrInvalidSquare, body[i], i)
		}
		if to < 0 {
			return nil, fmt.Errorf("%w %q at offset %d", ErrInvalidSquare, body[i+1], i+1)
		}
		moves = append(moves, chess.Move{From: chess.Square(from), To: chess.Square(to)})
	}
	return moves, nil
}

// Append returns the token for tok's history extended by m.
func Append(tok string, m chess.Move) (string, error) {
	moves, err := Decode(tok)
	if err != nil {
		return "", err
	}
	return Encode(append(moves, m)), nil
}

// Link builds the shareable URL for tok under base.
func Link(base, tok string) string {
	u, err := url.Parse(base)
	if err != nil || base == "" {
		return "?" + QueryKey + "=" + tok
	}
	q := u.Query()
	q.Set(QueryKey, tok)
	u.RawQuery = q.Encode()
	return u.String()
}

// FromLink extracts a token from a full link, a bare query string such as
// "state=...", or a token on its own.
func FromLink(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[i+1:]
	}
	if strings.Contains(s, "=") {
		if q, err := url.ParseQuery(s); err == nil && q.Has(QueryKey) {
			return q.Get(QueryKey)
		}
	}
	return s
}
