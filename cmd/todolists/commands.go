package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hy4ri/todolists-tui/internal/api"
	"github.com/hy4ri/todolists-tui/internal/auth"
	"github.com/hy4ri/todolists-tui/internal/config"
	"github.com/hy4ri/todolists-tui/internal/logging"
	"github.com/hy4ri/todolists-tui/internal/ops"
	"github.com/hy4ri/todolists-tui/internal/store"
	"github.com/hy4ri/todolists-tui/internal/tui"
)

const version = "0.1.0"

// rootOptions are the flags of the root command.
type rootOptions struct {
	Demo       bool
	ConfigPath string
	LogLevel   string
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "todolists",
		Short: "Terminal client for todo lists",
		Long: `todolists - terminal client for the todo lists service.

Lists are shown side by side; each has its own filter and progress bar.
Press ? inside the app for every key binding.`,
		Example: `
todolists
todolists --demo
todolists init
`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd.Context(), o, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&o.Demo, "demo", false,
		"Run against built-in sample lists without touching the network.")
	cmd.PersistentFlags().StringVar(&o.ConfigPath, "config", "",
		"Path to the config file (default ~/.config/todolists-tui/config.yaml).")
	cmd.Flags().StringVar(&o.LogLevel, "log-level", "",
		"Override the log level (debug, info, warn, error).")

	cmd.AddCommand(newInitCmd(o), newVersionCmd(), newLogoutCmd())
	return cmd
}

func newInitCmd(o *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a template config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return createConfigTemplate(o.ConfigPath, force, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file without asking.")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "todolists version %s\n", version)
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored API key and remembered login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ClearAll(); err != nil {
				return fmt.Errorf("failed to clear credentials: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Stored credentials removed.")
			return nil
		},
	}
}

// createConfigTemplate writes the template config to path, or to the default
// location when path is empty.
func createConfigTemplate(path string, force bool, in io.Reader, out io.Writer) error {
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(out, "Config file already exists: %s\n", path)
		fmt.Fprint(out, "Overwrite? [y/N]: ")

		response, _ := readLine(in)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if err := os.WriteFile(path, []byte(config.Template), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(out, "Config file created: %s\n", path)
	return nil
}

func readLine(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// apiKey returns the configured API key, asking for one and storing it in
// the keyring when none is set.
func apiKey(cfg *config.Config, in io.Reader, out io.Writer) (string, error) {
	key, err := cfg.APIKey()
	if err == nil && key != "" {
		return key, nil
	}

	fmt.Fprintln(out, "No API key configured.")
	fmt.Fprintln(out, "Get one from https://social-network.samuraijs.com/account")
	fmt.Fprint(out, "API key: ")

	key, err = readLine(in)
	if err != nil || key == "" {
		return "", fmt.Errorf("an API key is required (or run with --demo)")
	}
	if err := config.SaveAPIKey(key); err != nil {
		fmt.Fprintf(out, "Warning: failed to store API key: %v\n", err)
	}
	return key, nil
}

// runApp starts the main TUI application.
func runApp(ctx context.Context, o *rootOptions, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}

	logger, closer, err := logging.Open(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return err
	}
	defer closer.Close()

	var backend ops.API
	if o.Demo {
		backend = api.NewDemoMemory()
	} else {
		key, err := apiKey(cfg, in, out)
		if err != nil {
			return err
		}
		backend = api.NewClient(cfg.API.BaseURL, key)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	operations := ops.New(backend, store.New(store.InitialState()), logger)
	var notifier ops.Notifier
	if cfg.UI.DesktopNotifications {
		notifier = ops.DesktopNotifier{}
		operations.SetNotifier(notifier)
	}

	runner := ops.NewRunner(ctx, logger)
	app := tui.NewApp(tui.Options{
		Config:   cfg,
		Ops:      operations,
		Session:  auth.NewSession(operations, auth.KeyringStore(), logger),
		Runner:   runner,
		Logger:   logger,
		Demo:     o.Demo,
		Notifier: notifier,
		Context:  ctx,
	})

	logger.Info("starting", "version", version, "demo", o.Demo)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()

	app.Close()
	stop()
	runner.Wait()

	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
