// Command inspect prints the game held by a chesslink token or link.
//
//	inspect [-perft N] [-moves] <token-or-link>
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/imjasonh/chesslink/chess"
	"github.com/imjasonh/chesslink/match"
	"github.com/imjasonh/chesslink/token"
)

var (
	lightSquare = color.New(color.FgBlack, color.BgHiWhite)
	darkSquare  = color.New(color.FgBlack, color.BgWhite)
	lastSquare  = color.New(color.FgBlack, color.BgYellow)
	alert       = color.New(color.FgRed, color.Bold)
	faint       = color.New(color.Faint)
)

func printBoard(w io.Writer, pos chess.Position, last *chess.Move) {
	for row := range 8 {
		fmt.Fprintf(w, "%d ", 8-row)
		for col := range 8 {
			sq := chess.SquareIndex(row, col)
			c := darkSquare
			switch {
			case last != nil && (sq == last.From || sq == last.To):
				c = lastSquare
			case (row+col)%2 == 0:
				c = lightSquare
			}
			fmt.Fprint(w, c.Sprintf(" %s ", pos.Board[sq].Symbol()))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "   a  b  c  d  e  f  g  h")
}

func symbols(ps []chess.Piece) string {
	if len(ps) == 0 {
		return "-"
	}
	var s strings.Builder
	for _, p := range ps {
		s.WriteString(p.Symbol())
	}
	return s.String()
}

func inspect(w io.Writer, arg string, showMoves bool, perft int) error {
	mt, err := match.New(token.FromLink(arg))
	if err != nil {
		return err
	}
	pos := mt.Position()
	hist := mt.History()

	var last *chess.Move
	if len(hist) > 0 {
		last = &hist[len(hist)-1]
	}
	printBoard(w, pos, last)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "FEN:      %s\n", pos.FEN())
	fmt.Fprintf(w, "Moves:    %d\n", len(hist))
	fmt.Fprintf(w, "To move:  %s\n", pos.Turn())
	status := mt.Status()
	if status == chess.Playing {
		fmt.Fprintf(w, "Status:   %s\n", status)
	} else {
		fmt.Fprintf(w, "Status:   %s\n", alert.Sprint(status))
	}
	fmt.Fprintf(w, "Captured: White %s  Black %s\n", symbols(mt.Captured(chess.White)), symbols(mt.Captured(chess.Black)))
	if err := mt.Validate(); err != nil {
		fmt.Fprintf(w, "%s %v\n", alert.Sprint("Warning:"), err)
	}

	if showMoves {
		var moves []string
		for _, m := range chess.AllLegalMoves(pos) {
			moves = append(moves, m.String())
		}
		fmt.Fprintf(w, "Legal:    %s\n", strings.Join(moves, " "))
	}
	if perft > 0 {
		start := time.Now()
		n := chess.Perft(pos, perft)
		fmt.Fprintf(w, "Perft(%d): %d %s\n", perft, n, faint.Sprint(time.Since(start).Round(time.Millisecond)))
	}
	return nil
}

func main() {
	perft := flag.Int("perft", 0, "count leaf nodes to this depth")
	moves := flag.Bool("moves", false, "list the legal moves of the side to move")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-perft N] [-moves] <token-or-link>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "inspect"})
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}

	if err := inspect(os.Stdout, flag.Arg(0), *moves, *perft); err != nil {
		logger.Fatal("cannot read game", "arg", flag.Arg(0), "err", err)
	}
}
