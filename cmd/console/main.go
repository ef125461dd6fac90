package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Greenheart/hathora/cmd/console/config"
	"github.com/Greenheart/hathora/cmd/console/ui"
	"github.com/Greenheart/hathora/internal/game"
	"github.com/Greenheart/hathora/internal/logging"
	"github.com/Greenheart/hathora/internal/refcache"
	"github.com/Greenheart/hathora/internal/replay"
	"github.com/Greenheart/hathora/internal/transport"
	"github.com/Greenheart/hathora/internal/transport/mockserver"
)

// Version is stamped by the release build.
var Version = "dev"

var (
	// Global flags
	verbose    bool
	serverURL  string
	userID     string
	replayPath string
	themeName  string
	mockAddr   string

	cfg    config.Config
	logger *zap.Logger
	flush  func()
)

// rootCmd launches the interactive console.
var rootCmd = &cobra.Command{
	Use:   "console",
	Short: "Terminal debug console for the quest game backend",
	Long: `An interactive inspector and editor for the quest game's server state.

Connects to a running backend over websocket, renders every pushed state
snapshot as a collapsible tree, and stages one editable request payload per
operation. A snapshot file can be replayed instead of a live connection.

Run without arguments to connect to the configured server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: config not loaded: %v\n", err)
		}
		if serverURL != "" {
			cfg.ServerURL = serverURL
		}
		if userID != "" {
			cfg.UserID = userID
		}
		if themeName != "" {
			cfg.Theme = themeName
		}
		if verbose {
			cfg.Verbose = true
		}

		dir := cfg.LogDir
		if dir == "" {
			dir = logging.DefaultDir()
		}
		logger, flush, err = logging.Open(dir, cfg.Verbose)
		if err != nil {
			return fmt.Errorf("initialize logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if flush != nil {
			flush()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole()
	},
}

// mockCmd serves an in-process backend for local development.
var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Serve a mock backend with sample game state",
	Long: `Starts a websocket backend on --addr speaking the console protocol,
seeded with a three-player sample game. Point the console at it:

  console mock &
  console --server ws://localhost:4000/ws`,
	RunE: runMock,
}

// versionCmd prints build and protocol versions.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("console %s\n", Version)
		fmt.Printf("protocol %s\n", transport.ProtocolConstraint())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&serverURL, "server", "s", "", "Backend websocket URL (overrides config)")
	rootCmd.Flags().StringVarP(&userID, "user", "u", "", "User identity to connect as")
	rootCmd.Flags().StringVar(&replayPath, "replay", "", "Replay a JSON snapshot file instead of connecting")
	rootCmd.Flags().StringVar(&themeName, "theme", "", "Color theme: light or dark")

	mockCmd.Flags().StringVar(&mockAddr, "addr", ":4000", "Listen address")

	rootCmd.AddCommand(mockCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runConsole opens the backend and hands control to the TUI.
func runConsole() error {
	backend, err := openBackend()
	if err != nil {
		return err
	}
	defer backend.Close()

	styles := ui.NewStyles(ui.ThemeByName(cfg.Theme))
	m := ui.New(backend, logger, styles)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run console: %w", err)
	}
	return nil
}

func openBackend() (ui.Backend, error) {
	if replayPath != "" {
		src, err := replay.Open(replayPath, logging.For(logger, logging.CategoryReplay))
		if err != nil {
			return nil, fmt.Errorf("open replay file: %w", err)
		}
		return ui.ReplayBackend{Src: src}, nil
	}

	endpoint, err := withUser(cfg.ServerURL, cfg.UserID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := transport.Dial(ctx, transport.Config{
		URL:    endpoint,
		Logger: logging.For(logger, logging.CategoryTransport),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.ServerURL, err)
	}
	return client, nil
}

// withUser appends the identity query parameter when one is configured.
func withUser(rawURL, user string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse server url %q: %w", rawURL, err)
	}
	if user != "" {
		q := u.Query()
		q.Set("user", user)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// runMock serves the sample game until interrupted.
func runMock(cmd *cobra.Command, args []string) error {
	reducer := game.NewReducer(game.SampleState())

	users := make(map[string]*refcache.Descriptor)
	for id, u := range game.Users() {
		users[id] = &refcache.Descriptor{ID: id, Type: u.Type}
	}

	srv := mockserver.New(mockserver.Config{
		InitialState: reducer.State(),
		Users:        users,
		OnSubmit:     reducer.Apply,
		Logger:       logging.For(logger, logging.CategoryServer),
	})

	httpSrv := &http.Server{Addr: mockAddr, Handler: srv.Handler()}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down mock server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(ctx)
	}()

	fmt.Printf("mock backend listening on %s (protocol %s)\n", mockAddr, mockserver.ProtocolVersion)
	logger.Info("mock server started", zap.String("addr", mockAddr))
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
