package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imjasonh/chesslink/chess"
)

type styles struct {
	light, dark       lipgloss.Style
	cursor, selected  lipgloss.Style
	legal, illegal    lipgloss.Style
	proposed          lipgloss.Style
	title, warn, help lipgloss.Style
	panel             lipgloss.Style
}

// newStyles builds styles against the session's renderer so colors match
// the remote terminal rather than the server's.
func newStyles(r *lipgloss.Renderer) styles {
	cell := r.NewStyle().Foreground(lipgloss.Color("16"))
	return styles{
		light:    cell.Background(lipgloss.Color("250")),
		dark:     cell.Background(lipgloss.Color("244")),
		cursor:   cell.Background(lipgloss.Color("160")),
		selected: cell.Background(lipgloss.Color("178")),
		legal:    cell.Background(lipgloss.Color("71")),
		illegal:  cell.Background(lipgloss.Color("131")),
		proposed: cell.Background(lipgloss.Color("74")),
		title:    r.NewStyle().Bold(true),
		warn:     r.NewStyle().Foreground(lipgloss.Color("203")),
		help:     r.NewStyle().Faint(true),
		panel:    r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(30),
	}
}

func (m model) View() string {
	var s strings.Builder
	s.WriteString(m.styles.title.Render("chesslink"))
	s.WriteString("\n")

	if m.loadErr != nil {
		s.WriteString(m.styles.warn.Render("This game link could not be read: " + m.loadErr.Error()))
		s.WriteString("\n\nAsk your opponent to send the whole link again. Press Q to quit.\n")
		return s.String()
	}

	pos := m.match.Preview()
	status := m.match.Status()
	switch {
	case status == chess.Checkmate:
		s.WriteString(fmt.Sprintf("*** CHECKMATE; %s WINS ***\n", strings.ToUpper(m.match.Turn().Other().String())))
	case status == chess.Stalemate:
		s.WriteString("*** STALEMATE; DRAW ***\n")
	case status == chess.Check:
		s.WriteString(fmt.Sprintf("*** %s is in check ***\n", m.match.Turn()))
	default:
		s.WriteString("\n")
	}
	if m.warning != "" {
		s.WriteString(m.styles.warn.Render("This link does not replay as a legal game: "+m.warning) + "\n")
	}
	s.WriteString("\n")

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderBoard(pos), "   ", m.renderInfo(pos)))
	s.WriteString("\n\n")

	if m.message != "" {
		s.WriteString(m.message + "\n")
	}
	if m.link != "" {
		s.WriteString("Send the following link to your opponent:\n" + m.link + "\n")
	}
	if m.pending != nil {
		s.WriteString(fmt.Sprintf("%s played %s. Press N to load the new position.\n", m.pending.Name, m.pending.Move))
	}
	s.WriteString(m.styles.help.Render("arrows/hjkl move, ENTER select/move/confirm, C confirm, U/ESC undo, F flip, Q quit"))
	s.WriteString("\n")
	return s.String()
}

func (m model) fileLabels() string {
	var s strings.Builder
	s.WriteString(" ")
	for col := range 8 {
		f := byte('a' + col)
		if m.flipped {
			f = byte('h' - col)
		}
		s.WriteString(fmt.Sprintf(" %c ", f))
	}
	return s.String()
}

func (m model) renderBoard(pos chess.Position) string {
	proposed, hasProposal := m.match.Proposed()

	var lines []string
	lines = append(lines, m.fileLabels())
	for row := range 8 {
		var line strings.Builder
		rank := 8 - row
		if m.flipped {
			rank = row + 1
		}
		line.WriteString(fmt.Sprintf("%d", rank))
		for col := range 8 {
			sq := chess.ViewIndex(row, col, m.flipped)
			st := m.styles.dark
			switch {
			case row == m.cursorRow && col == m.cursorCol:
				st = m.styles.cursor
			case sq == m.match.Selected():
				st = m.styles.selected
			case hasProposal && (sq == proposed.From || sq == proposed.To):
				st = m.styles.proposed
			case m.dests.IsLegal(sq):
				st = m.styles.legal
			case m.dests.IsIllegal(sq):
				st = m.styles.illegal
			case (row+col)%2 == 0:
				st = m.styles.light
			}
			line.WriteString(st.Render(" " + pos.Board[sq].Symbol() + " "))
		}
		line.WriteString(fmt.Sprintf("%d", rank))
		lines = append(lines, line.String())
	}
	lines = append(lines, m.fileLabels())
	return strings.Join(lines, "\n")
}

func pieceList(ps []chess.Piece) string {
	if len(ps) == 0 {
		return "-"
	}
	var s strings.Builder
	for _, p := range ps {
		s.WriteString(p.Symbol())
	}
	return s.String()
}

func (m model) renderInfo(pos chess.Position) string {
	var lines []string
	turn := m.match.Turn()
	lines = append(lines, fmt.Sprintf("Move %d, %s to play", len(m.match.History())/2+1, turn))
	if m.others > 0 {
		lines = append(lines, fmt.Sprintf("%d other player(s) viewing", m.others))
	}
	lines = append(lines, "")

	cur := m.cursor()
	lines = append(lines, fmt.Sprintf("Cursor: %s", cur))
	lines = append(lines, fmt.Sprintf("Piece:  %s", pos.Board[cur].Name()))
	if r := m.dests.Reason(cur); r != "" {
		lines = append(lines, m.styles.warn.Render("Blocked: "+r))
	}

	if sel := m.match.Selected(); sel != chess.NoSquare {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("Selected: %s at %s", pos.Board[sel].Name(), sel))
		if len(m.dests.Legal) == 0 {
			lines = append(lines, "No legal moves")
		} else {
			var to []string
			for _, d := range m.dests.Legal {
				to = append(to, d.String())
			}
			lines = append(lines, "Moves: "+strings.Join(to, " "))
		}
	}

	if mv, ok := m.match.Proposed(); ok {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("Proposed: %s %s to %s", pos.Board[mv.To].Symbol(), mv.From, mv.To))
		lines = append(lines, "ENTER/C confirm, U undo")
	}

	hist := m.match.History()
	if len(hist) > 0 {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("Last move: %s", hist[len(hist)-1]))
	}

	lines = append(lines, "")
	lines = append(lines, "Lost by White: "+pieceList(pos.CapturedFrom(chess.White)))
	lines = append(lines, "Lost by Black: "+pieceList(pos.CapturedFrom(chess.Black)))
	return m.styles.panel.Render(strings.Join(lines, "\n"))
}
