package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/gorilla/websocket"
	sshproxy "github.com/imjasonh/ssh-proxy"

	"github.com/imjasonh/chesslink/token"
)

type server struct {
	cfg config
	hub *Hub
	log *log.Logger
}

// teaHandler starts one game view per SSH session. The first command
// argument is the link or token to open; with none, a new game starts.
func (s *server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	player := NewPlayer(sess.User())
	tok := token.Empty
	if args := sess.Command(); len(args) > 0 {
		tok = token.FromLink(args[0])
	}
	s.log.Info("session started", "player", player.ID, "user", player.Name, "token", tok)
	s.hub.Join(player)

	m := newModel(tok, s.cfg.baseURL, newStyles(bubbletea.MakeRenderer(sess)), player, s.hub)

	go func() {
		<-sess.Context().Done()
		s.hub.Leave(player.ID)
		s.log.Info("session ended", "player", player.ID)
	}()

	return m, []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *server) httpHandler() http.Handler {
	mux := http.NewServeMux()
	(&api{baseURL: s.cfg.baseURL, log: s.log}).register(mux)

	root := http.NewServeMux()
	root.Handle("/api/", logRequests(s.log, mux))
	root.HandleFunc("/ssh", sshproxy.ProxyWebSocketToSSH(fmt.Sprintf(":%d", s.cfg.sshPort), websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // Allow connections from any origin for now
		},
	}))
	return root
}

func run(ctx context.Context, cfg config, logger *log.Logger) error {
	hostKey, err := hostKeyOption(ctx, cfg, logger)
	if err != nil {
		return err
	}

	srv := &server{cfg: cfg, hub: NewHub(logger.WithPrefix("relay")), log: logger}
	s, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort("", fmt.Sprint(cfg.sshPort))),
		hostKey,
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			logging.MiddlewareWithLogger(logger.WithPrefix("ssh")),
		),
	)
	if err != nil {
		return err
	}

	errc := make(chan error, 2)
	go func() {
		logger.Info("starting SSH server", "port", cfg.sshPort)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	var hs *http.Server
	if cfg.httpPort != "" {
		hs = &http.Server{
			Addr:              net.JoinHostPort("", cfg.httpPort),
			Handler:           srv.httpHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("starting HTTP API and WebSocket to SSH proxy", "port", cfg.httpPort)
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errc:
		return err
	}
	logger.Info("stopping servers")

	tctx, tcancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer tcancel()
	if hs != nil {
		if err := hs.Shutdown(tctx); err != nil {
			logger.Warn("HTTP shutdown", "err", err)
		}
	}
	return s.Shutdown(tctx)
}

func main() {
	cfg, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "chesslink",
	})
	lvl, err := log.ParseLevel(cfg.logLevel)
	if err != nil {
		logger.Fatal("bad log level", "level", cfg.logLevel, "err", err)
	}
	logger.SetLevel(lvl)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server failed", "err", err)
	}
}
