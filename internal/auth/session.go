// Package auth manages the login session with the todo-lists service.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/hy4ri/todolists-tui/internal/api"
	"github.com/hy4ri/todolists-tui/internal/config"
	"github.com/hy4ri/todolists-tui/internal/ops"
)

// LoginPageURL is the web login, used when the service demands a captcha.
const LoginPageURL = "https://social-network.samuraijs.com/login"

// CredentialStore persists remembered login credentials.
type CredentialStore interface {
	GetCredentials() (*config.Credentials, error)
	SaveCredentials(creds config.Credentials) error
	ClearCredentials() error
}

type keyringStore struct{}

func (keyringStore) GetCredentials() (*config.Credentials, error) { return config.GetCredentials() }
func (keyringStore) SaveCredentials(c config.Credentials) error   { return config.SaveCredentials(c) }
func (keyringStore) ClearCredentials() error                      { return config.ClearCredentials() }

// KeyringStore returns a CredentialStore backed by the system keyring.
func KeyringStore() CredentialStore {
	return keyringStore{}
}

// Session restores, starts and ends the login session.
type Session struct {
	ops    *ops.Operations
	creds  CredentialStore
	logger *log.Logger
}

// ErrNotRemembered is returned by Login when the session started but the
// credentials could not be kept for the next start.
var ErrNotRemembered = errors.New("logged in, but the login could not be remembered")

// NewSession creates a session manager.
func NewSession(o *ops.Operations, creds CredentialStore, logger *log.Logger) *Session {
	return &Session{ops: o, creds: creds, logger: logger}
}

// Restore checks for an existing session and, when there is none, logs in
// with remembered credentials.
func (s *Session) Restore(ctx context.Context) error {
	if err := s.ops.Initialize(ctx); err != nil {
		return err
	}
	if s.ops.Store().GetState().Auth.IsLoggedIn {
		return nil
	}

	creds, err := s.creds.GetCredentials()
	if err != nil {
		s.logger.Warn("failed to read remembered credentials", "err", err)
		return nil
	}
	if creds == nil {
		return nil
	}

	s.logger.Info("logging in with remembered credentials", "email", creds.Email)
	err = s.ops.Login(ctx, api.LoginRequest{
		Email:      creds.Email,
		Password:   creds.Password,
		RememberMe: true,
	})
	if err != nil {
		// Rejected credentials are stale; forget them.
		if _, ok := api.IsResultError(err); ok {
			if cerr := s.creds.ClearCredentials(); cerr != nil {
				s.logger.Warn("failed to clear credentials", "err", cerr)
			}
		}
		return fmt.Errorf("failed to restore session: %w", err)
	}
	return nil
}

// Login starts a session. With remember set the credentials are kept in the
// keyring for the next start, otherwise any stored ones are removed.
func (s *Session) Login(ctx context.Context, email, password string, remember bool) error {
	err := s.ops.Login(ctx, api.LoginRequest{
		Email:      email,
		Password:   password,
		RememberMe: remember,
	})
	if err != nil {
		return err
	}

	if !remember {
		if err := s.creds.ClearCredentials(); err != nil {
			s.logger.Warn("failed to clear credentials", "err", err)
		}
		return nil
	}

	if err := s.creds.SaveCredentials(config.Credentials{Email: email, Password: password}); err != nil {
		s.logger.Warn("failed to remember credentials", "err", err)
		return fmt.Errorf("%w: %v", ErrNotRemembered, err)
	}
	return nil
}

// Logout ends the session and forgets remembered credentials.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.ops.Logout(ctx); err != nil {
		return err
	}
	if err := s.creds.ClearCredentials(); err != nil {
		s.logger.Warn("failed to clear credentials", "err", err)
	}
	return nil
}

// OpenLoginPage opens the web login in the default browser.
func OpenLoginPage() error {
	return openBrowser(LoginPageURL)
}

// openBrowser opens the default browser to the given URL.
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default: // Linux and others
		cmd = exec.Command("xdg-open", url)
	}

	return cmd.Start()
}
