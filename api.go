package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/imjasonh/chesslink/chess"
	"github.com/imjasonh/chesslink/match"
	"github.com/imjasonh/chesslink/token"
)

// api serves read-only views of a token and validated move submission over
// HTTP. Like the SSH front end it keeps no games: every request carries its
// token.
type api struct {
	baseURL string
	log     *log.Logger
}

type gameResponse struct {
	Token      string              `json:"token"`
	Link       string              `json:"link"`
	FEN        string              `json:"fen"`
	Board      []string            `json:"board"` // 64 glyphs, a8 first
	Turn       string              `json:"turn"`
	Status     string              `json:"status"`
	Check      bool                `json:"check"`
	Checkmate  bool                `json:"checkmate"`
	Captured   map[string][]string `json:"captured"`
	LegalMoves []string            `json:"legalMoves"`
	Warning    string              `json:"warning,omitempty"`
}

type illegalDest struct {
	To     string `json:"to"`
	Reason string `json:"reason"`
}

type movesResponse struct {
	From    string        `json:"from"`
	Legal   []string      `json:"legal"`
	Illegal []illegalDest `json:"illegal"`
}

type moveResponse struct {
	Move  string `json:"move"`
	Token string `json:"token"`
	Link  string `json:"link"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *api) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/game", a.game)
	mux.HandleFunc("GET /api/moves", a.moves)
	mux.HandleFunc("POST /api/move", a.move)
}

func (a *api) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Warn("writing response", "err", err)
	}
}

func (a *api) fail(w http.ResponseWriter, code int, err error) {
	a.writeJSON(w, code, errorResponse{Error: err.Error()})
}

// load reads the state parameter, answering 400 itself when it can't.
func (a *api) load(w http.ResponseWriter, r *http.Request) (*match.Match, bool) {
	mt, err := match.New(token.FromLink(r.URL.Query().Get(token.QueryKey)))
	if err != nil {
		a.fail(w, http.StatusBadRequest, err)
		return nil, false
	}
	return mt, true
}

func pieceNames(ps []chess.Piece) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Symbol())
	}
	return out
}

func (a *api) game(w http.ResponseWriter, r *http.Request) {
	mt, ok := a.load(w, r)
	if !ok {
		return
	}
	pos := mt.Position()
	resp := gameResponse{
		Token:     mt.Token(),
		Link:      token.Link(a.baseURL, mt.Token()),
		FEN:       pos.FEN(),
		Board:     make([]string, 0, 64),
		Turn:      pos.Turn().String(),
		Status:    mt.Status().String(),
		Check:     mt.IsInCheck(),
		Checkmate: mt.IsInCheckmate(),
		Captured: map[string][]string{
			chess.White.String(): pieceNames(mt.Captured(chess.White)),
			chess.Black.String(): pieceNames(mt.Captured(chess.Black)),
		},
		LegalMoves: []string{},
	}
	for _, pc := range pos.Board {
		resp.Board = append(resp.Board, pc.Symbol())
	}
	for _, m := range chess.AllLegalMoves(pos) {
		resp.LegalMoves = append(resp.LegalMoves, m.String())
	}
	if err := mt.Validate(); err != nil {
		resp.Warning = err.Error()
	}
	a.writeJSON(w, http.StatusOK, resp)
}

func (a *api) moves(w http.ResponseWriter, r *http.Request) {
	mt, ok := a.load(w, r)
	if !ok {
		return
	}
	from, err := chess.ParseSquare(r.URL.Query().Get("from"))
	if err != nil {
		a.fail(w, http.StatusBadRequest, err)
		return
	}
	d := mt.LegalMovesFrom(from)
	resp := movesResponse{From: from.String(), Legal: []string{}, Illegal: []illegalDest{}}
	for _, to := range d.Legal {
		resp.Legal = append(resp.Legal, to.String())
	}
	for _, to := range d.Illegal {
		resp.Illegal = append(resp.Illegal, illegalDest{To: to.String(), Reason: d.Reason(to)})
	}
	a.writeJSON(w, http.StatusOK, resp)
}

func (a *api) move(w http.ResponseWriter, r *http.Request) {
	mt, ok := a.load(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	from, err := chess.ParseSquare(q.Get("from"))
	if err != nil {
		a.fail(w, http.StatusBadRequest, err)
		return
	}
	to, err := chess.ParseSquare(q.Get("to"))
	if err != nil {
		a.fail(w, http.StatusBadRequest, err)
		return
	}

	if err := mt.Propose(from, to); err != nil {
		if errors.Is(err, match.ErrIllegalMove) || errors.Is(err, match.ErrGameOver) {
			a.fail(w, http.StatusUnprocessableEntity, err)
			return
		}
		a.fail(w, http.StatusBadRequest, err)
		return
	}
	tok, err := mt.Confirm()
	if err != nil {
		a.fail(w, http.StatusInternalServerError, err)
		return
	}
	a.writeJSON(w, http.StatusOK, moveResponse{
		Move:  chess.Move{From: from, To: to}.String(),
		Token: tok,
		Link:  token.Link(a.baseURL, tok),
	})
}

// statusRecorder captures the status code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("http request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "took", time.Since(start))
	})
}
