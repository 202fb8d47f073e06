package main

import (
	"sync"

	"github.com/charmbracelet/log"
	petname "github.com/dustinkirkland/golang-petname"
)

// Player is one connected SSH session looking at a game.
type Player struct {
	ID      string
	Name    string
	Token   string          // game the player is looking at
	Updates chan LinkUpdate // read by the player's model

	left bool // guarded by Hub.mu; Updates is closed
}

// LinkUpdate tells a player about activity on the game they are viewing.
type LinkUpdate struct {
	Type       string // "joined", "left", "moved"
	Token      string // for "moved", the token after the move
	Move       string
	FromPlayer string
	Name       string
}

func NewPlayer(name string) *Player {
	id := petname.Generate(3, "-")
	if name == "" {
		name = petname.Generate(2, " ")
	}
	return &Player{
		ID:      id,
		Name:    name,
		Updates: make(chan LinkUpdate, 10),
	}
}

// Hub relays moves between sessions viewing the same token. It holds who is
// watching what and nothing else: the token is still the whole game.
type Hub struct {
	mu       sync.RWMutex
	watchers map[string]map[string]*Player // token -> player ID -> player
	players  map[string]*Player
	log      *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		watchers: make(map[string]map[string]*Player),
		players:  make(map[string]*Player),
		log:      logger,
	}
}

// Join registers p before it watches anything, so Leave always closes its
// channel even if the session never opened a readable game.
func (h *Hub) Join(p *Player) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !p.left {
		h.players[p.ID] = p
	}
}

// Watch registers p as viewing tok, moving it off whatever it watched before.
// Players that have left are ignored.
func (h *Hub) Watch(p *Player, tok string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if p.left {
		return
	}
	h.unwatch(p)
	p.Token = tok
	h.players[p.ID] = p
	if h.watchers[tok] == nil {
		h.watchers[tok] = make(map[string]*Player)
	}
	h.watchers[tok][p.ID] = p
	h.broadcast(tok, p.ID, LinkUpdate{Type: "joined", FromPlayer: p.ID, Name: p.Name})
	h.log.Debug("watching", "player", p.ID, "token", tok, "watchers", len(h.watchers[tok]))
}

// unwatch must be called with mu held.
func (h *Hub) unwatch(p *Player) {
	if p.Token == "" {
		return
	}
	if w, ok := h.watchers[p.Token]; ok {
		delete(w, p.ID)
		if len(w) == 0 {
			delete(h.watchers, p.Token)
		} else {
			h.broadcast(p.Token, p.ID, LinkUpdate{Type: "left", FromPlayer: p.ID, Name: p.Name})
		}
	}
}

// Moved tells everyone else viewing from that the game continues at to, then
// moves p over to the new token.
func (h *Hub) Moved(p *Player, from, to, move string) {
	h.mu.Lock()
	h.broadcast(from, p.ID, LinkUpdate{Type: "moved", Token: to, Move: move, FromPlayer: p.ID, Name: p.Name})
	h.mu.Unlock()
	h.log.Info("move relayed", "player", p.ID, "move", move, "token", to)

	h.Watch(p, to)
}

// broadcast must be called with mu held. Slow readers lose updates rather
// than block the hub.
func (h *Hub) broadcast(tok, except string, u LinkUpdate) {
	for id, w := range h.watchers[tok] {
		if id == except {
			continue
		}
		select {
		case w.Updates <- u:
		default:
			h.log.Warn("dropping update", "player", id, "type", u.Type)
		}
	}
}

// Leave forgets p and closes its update channel.
func (h *Hub) Leave(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.players[id]
	if !ok {
		return
	}
	h.unwatch(p)
	delete(h.players, id)
	p.left = true
	close(p.Updates)
}

// Watchers counts the sessions viewing tok.
func (h *Hub) Watchers(tok string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers[tok])
}
