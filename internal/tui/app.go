package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/hy4ri/todolists-tui/internal/auth"
	"github.com/hy4ri/todolists-tui/internal/config"
	"github.com/hy4ri/todolists-tui/internal/logging"
	"github.com/hy4ri/todolists-tui/internal/ops"
	"github.com/hy4ri/todolists-tui/internal/store"
	"github.com/hy4ri/todolists-tui/internal/tui/components"
	"github.com/hy4ri/todolists-tui/internal/tui/styles"
	"github.com/hy4ri/todolists-tui/internal/view"
)

// Routes of the application.
const (
	RouteLists = "/"
	RouteLogin = view.LoginPath
)

// inputMode is what the keyboard currently drives.
type inputMode int

const (
	modeNormal inputMode = iota
	modeAddTask
	modeAddList
	modeEditTask
	modeRenameList
	modeEditDescription
	modeEditDeadline
	modeConfirmDelete
)

// Options are the dependencies of the App.
type Options struct {
	Config  *config.Config
	Ops     *ops.Operations
	Session *auth.Session
	Runner  ops.Runner
	Logger  *log.Logger
	Demo    bool
	// Notifier announces due tasks when desktop notifications are enabled.
	Notifier ops.Notifier
	// Context bounds every operation started by the App.
	Context context.Context
}

// App is the main Bubble Tea model for the application.
type App struct {
	// Dependencies
	ctx     context.Context
	cfg     *config.Config
	ops     *ops.Operations
	session *auth.Session
	runner  ops.Runner
	logger  *log.Logger
	demo    bool

	store       *store.Store
	collection  *view.Collection
	out         view.Output
	route       string
	changes     chan struct{}
	done        chan struct{}
	unsubscribe func()

	// Focus
	focusPanel int
	focusRow   int

	// Input state
	mode      inputMode
	span      *components.EditableSpan
	addForm   *components.AddItemForm
	loginForm *components.LoginForm
	showHelp  bool
	// pendingDelete is the id of the list awaiting delete confirmation.
	pendingDelete string

	// UI state
	width     int
	height    int
	statusMsg string

	// Components
	spinner   spinner.Model
	board     viewport.Model
	help      *components.HelpModel
	keyState  KeyState
	keymap    Keymap
	reminders *Reminders
}

// NewApp creates a new App instance and subscribes it to the store.
func NewApp(opts Options) *App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	app := &App{
		ctx:       ctx,
		cfg:       cfg,
		ops:       opts.Ops,
		session:   opts.Session,
		runner:    opts.Runner,
		logger:    logger,
		demo:      opts.Demo,
		store:     opts.Ops.Store(),
		route:     RouteLists,
		changes:   make(chan struct{}, 1),
		done:      make(chan struct{}),
		loginForm: components.NewLoginForm(),
		spinner:   s,
		board:     viewport.New(0, 0),
		help:      components.NewHelp(helpLeftSections...),
		keymap:    DefaultKeymap(),
	}
	app.collection = view.NewCollection(app.store, app.ops, app.runner)
	if cfg.UI.DesktopNotifications && opts.Notifier != nil {
		app.reminders = NewReminders(opts.Notifier)
	}
	app.help.SetKeymap(app.keymap.HelpItems(cfg.UI.VimMode))

	app.unsubscribe = app.store.Subscribe(func() {
		select {
		case app.changes <- struct{}{}:
		default:
		}
	})

	return app
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		a.spinner.Tick,
		a.loadSession(),
		a.waitForChange(),
	}
	if a.reminders != nil {
		cmds = append(cmds, checkDueCmd())
	}
	return tea.Batch(cmds...)
}

// Close stops every running operation of the screen and detaches from the
// store. It is safe to call more than once.
func (a *App) Close() {
	select {
	case <-a.done:
		return
	default:
	}
	close(a.done)
	a.unsubscribe()
	a.collection.Close()
}

// loadSession checks the session at startup. Demo mode loads every list
// right away since mounted panels do not fetch there.
func (a *App) loadSession() tea.Cmd {
	return func() tea.Msg {
		if a.demo {
			if err := a.ops.Initialize(a.ctx); err != nil {
				return sessionMsg{err: err}
			}
			return sessionMsg{err: a.ops.RefreshAll(a.ctx)}
		}
		return sessionMsg{err: a.session.Restore(a.ctx)}
	}
}

// waitForChange blocks until the store changes or the app closes.
func (a *App) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-a.changes:
			return stateChangedMsg{}
		case <-a.done:
			return nil
		}
	}
}

// Message types
type stateChangedMsg struct{}
type statusMsg struct{ msg string }
type sessionMsg struct{ err error }
type loginResultMsg struct{ err error }
type logoutResultMsg struct{ err error }
