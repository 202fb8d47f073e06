package main

import (
	"flag"
	"os"
	"path/filepath"
)

type config struct {
	sshPort     int
	local       bool
	hostKeyPath string
	baseURL     string
	logLevel    string

	// From the environment only, as set by the hosting platform.
	httpPort      string
	hostKeySecret string
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseConfig(fs *flag.FlagSet, args []string) (config, error) {
	var cfg config
	defaultKey := filepath.Join(".chesslink", "host_key")
	if home, err := os.UserHomeDir(); err == nil {
		defaultKey = filepath.Join(home, defaultKey)
	}

	fs.IntVar(&cfg.sshPort, "port", 2222, "SSH server port")
	fs.BoolVar(&cfg.local, "local", false, "run in local mode (generates/uses local host key instead of Secret Manager)")
	fs.StringVar(&cfg.hostKeyPath, "host-key", defaultKey, "host key path in local mode")
	fs.StringVar(&cfg.baseURL, "base-url", envOr("LINK_BASE_URL", "https://chesslink.dev/"), "base URL of shared game links")
	fs.StringVar(&cfg.logLevel, "log-level", envOr("LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.httpPort = os.Getenv("PORT")
	cfg.hostKeySecret = os.Getenv("SSH_HOST_KEY_SECRET")
	return cfg, nil
}
