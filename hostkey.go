package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/charmbracelet/keygen"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
)

var errNoSecret = errors.New("SSH_HOST_KEY_SECRET is not set; use -local to run with a local host key")

// hostKeyOption picks the server's host key: a key file generated on first
// use in local mode, otherwise the PEM stored in Secret Manager.
func hostKeyOption(ctx context.Context, cfg config, logger *log.Logger) (ssh.Option, error) {
	if cfg.local {
		if err := ensureHostKey(cfg.hostKeyPath, logger); err != nil {
			return nil, err
		}
		logger.Info("running in local mode", "host_key", cfg.hostKeyPath)
		return wish.WithHostKeyPath(cfg.hostKeyPath), nil
	}

	if cfg.hostKeySecret == "" {
		return nil, errNoSecret
	}
	pem, err := secretHostKey(ctx, cfg.hostKeySecret)
	if err != nil {
		return nil, err
	}
	logger.Info("running in cloud mode with Secret Manager")
	return wish.WithHostKeyPEM(pem), nil
}

func ensureHostKey(path string, logger *log.Logger) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking host key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	if _, err := keygen.New(path, keygen.WithKeyType(keygen.Ed25519), keygen.WithWrite()); err != nil {
		return fmt.Errorf("failed to generate host key: %w", err)
	}
	logger.Info("generated new SSH host key", "path", path)
	return nil
}

func secretHostKey(ctx context.Context, name string) ([]byte, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	defer client.Close()
	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to access secret version: %w", err)
	}
	return resp.GetPayload().GetData(), nil
}
