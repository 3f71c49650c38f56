// Package cli implements the marketplace terminal client.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rentwheels/marketplace/internal/client/api"
	"github.com/rentwheels/marketplace/internal/client/session"
	"github.com/rentwheels/marketplace/internal/client/storage"
	"github.com/rentwheels/marketplace/internal/client/storage/boltdb"
)

const (
	defaultAPIURL      = "http://localhost:8080"
	defaultSessionFile = ".marketplace-session.db"
	passwordEnv        = "MARKETPLACE_PASSWORD"
)

// Client is the API surface the commands use.
type Client interface {
	session.LoginAPI
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	Me(ctx context.Context, token string) (*api.User, error)
}

// App holds the wiring for the commands. The function fields are swapped in
// tests.
type App struct {
	apiURL      string
	sessionFile string
	verbose     bool

	out io.Writer
	log zerolog.Logger

	NewClient    func(baseURL string) Client
	OpenStorage  func(path string) (storage.SessionStorage, func() error, error)
	ReadPassword func(prompt string) (string, error)
}

func NewApp(out io.Writer) *App {
	return &App{
		out: out,
		NewClient: func(baseURL string) Client {
			return api.NewClient(baseURL)
		},
		OpenStorage: func(path string) (storage.SessionStorage, func() error, error) {
			s, err := boltdb.New(path)
			if err != nil {
				return nil, nil, err
			}
			return s, s.Close, nil
		},
		ReadPassword: readPassword,
	}
}

// RootCommand builds the command tree.
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "marketplace",
		Short:         "Rental marketplace command line client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if a.verbose {
				level = zerolog.DebugLevel
			}
			a.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
		},
	}
	root.SetOut(a.out)

	root.PersistentFlags().StringVar(&a.apiURL, "api", envOr("MARKETPLACE_API", defaultAPIURL), "API base URL")
	root.PersistentFlags().StringVar(&a.sessionFile, "session-file", defaultSessionPath(), "path to the local session database")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
	)
	return root
}

// withStore opens the session storage, rehydrates the store and runs fn.
func (a *App) withStore(ctx context.Context, fn func(*session.Store, Client) error) error {
	st, closeFn, err := a.OpenStorage(a.sessionFile)
	if err != nil {
		return fmt.Errorf("open session file: %w", err)
	}
	defer func() {
		if closeFn == nil {
			return
		}
		if err := closeFn(); err != nil {
			a.log.Warn().Err(err).Msg("close session file")
		}
	}()

	client := a.NewClient(a.apiURL)
	store := session.NewStore(client, st, a.log)
	store.Init(ctx)
	return fn(store, client)
}

// password picks the password from the flag, the environment or a prompt.
func (a *App) password(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(passwordEnv); env != "" {
		return env, nil
	}
	pw, err := a.ReadPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if pw == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return pw, nil
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultSessionPath() string {
	if p := os.Getenv("MARKETPLACE_SESSION_FILE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultSessionFile
	}
	return filepath.Join(home, defaultSessionFile)
}
