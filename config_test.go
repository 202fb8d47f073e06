package main

import (
	"flag"
	"io"
	"testing"
)

func TestParseConfig(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LINK_BASE_URL", "https://example.com/play")
	t.Setenv("SSH_HOST_KEY_SECRET", "projects/p/secrets/s/versions/1")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg, err := parseConfig(fs, []string{"-port", "2022", "-local", "-log-level", "debug"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.sshPort != 2022 || !cfg.local || cfg.logLevel != "debug" {
		t.Errorf("flags: got %+v", cfg)
	}
	if cfg.baseURL != "https://example.com/play" {
		t.Errorf("base url: got %q", cfg.baseURL)
	}
	if cfg.httpPort != "8080" || cfg.hostKeySecret != "projects/p/secrets/s/versions/1" {
		t.Errorf("env: got %+v", cfg)
	}
}

func TestParseConfigBadFlag(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := parseConfig(fs, []string{"-port", "ssh"}); err == nil {
		t.Fatal("expected an error for a non-numeric port")
	}
}
