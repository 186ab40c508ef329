package devserver

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/muurk/devterm/internal/config"
	"github.com/muurk/devterm/internal/logging"
	"github.com/muurk/devterm/internal/terminal"
	"github.com/muurk/devterm/internal/ui"
	"go.uber.org/zap"
)

// Options configures a Controller
type Options struct {
	// ProjectDir is the root of the project being served
	ProjectDir string

	// Input is the terminal input session the controller takes over
	Input *terminal.Session

	// Console receives all output
	Console *ui.Console

	Ops Ops

	// Interrupt is called for Ctrl-C and Ctrl-D. Defaults to sending
	// os.Interrupt to the current process.
	Interrupt func()

	// Advertised is the mDNS instance name shown in the server-info banner
	Advertised string
}

// Controller routes terminal input to commands
type Controller struct {
	dir        string
	input      *terminal.Session
	console    *ui.Console
	ops        Ops
	interrupt  func()
	advertised string
	commands   map[string]Command

	ctx     context.Context
	started bool
	fatal   error
	prompt  *promptSession

	// events carries completions of asynchronous work back to the loop
	events chan func() error
	// pending counts completions not yet run; owned by the loop
	pending  int
	done     chan struct{}
	stopOnce sync.Once
	// detached tracks fire-and-forget tasks. Stop does not wait for them;
	// tests use it to settle.
	detached sync.WaitGroup
}

// New creates a controller. It does not touch the terminal until Start.
func New(opts Options) *Controller {
	interrupt := opts.Interrupt
	if interrupt == nil {
		interrupt = interruptSelf
	}
	return &Controller{
		dir:        opts.ProjectDir,
		input:      opts.Input,
		console:    opts.Console,
		ops:        opts.Ops,
		interrupt:  interrupt,
		advertised: opts.Advertised,
		commands:   newCommandTable(),
		ctx:        context.Background(),
		events:     make(chan func() error),
		done:       make(chan struct{}),
	}
}

// Run starts the controller and processes input and completions until ctx
// is done, the input closes or settings cannot be read or written. The
// input session is closed when Run returns.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.Start(ctx); err != nil {
		if !errors.Is(err, ErrAlreadyStarted) {
			c.Stop()
		}
		return err
	}
	defer c.Stop()

	tokens := c.input.Tokens()
	for c.fatal == nil {
		select {
		case <-ctx.Done():
			return nil
		case tok, ok := <-tokens:
			if !ok {
				logging.Debug("Terminal input closed")
				return nil
			}
			c.handleToken(tok)
		case fn := <-c.events:
			c.complete(fn)
		}
	}
	return c.fatal
}

// Start enters raw command mode and renders the server-info banner.
// Calling Start twice is a misuse and returns ErrAlreadyStarted.
func (c *Controller) Start(ctx context.Context) error {
	if c.started {
		return ErrAlreadyStarted
	}
	c.started = true
	c.ctx = ctx

	if err := c.input.EnterRaw(c.onCommand); err != nil {
		return err
	}
	if err := c.printServerInfo(); err != nil {
		return err
	}

	openDevTools, err := c.ops.Settings.Bool(config.KeyOpenDevToolsAtStartup, true)
	if err != nil {
		return settingsErr("read "+config.KeyOpenDevToolsAtStartup, err)
	}
	if !openDevTools {
		return nil
	}
	url, err := c.devToolsURL()
	if err != nil {
		return err
	}
	if url == "" {
		logging.Debug("Skipping DevTools at startup, bundler not running")
		return nil
	}
	c.launchBrowser(url)
	return nil
}

// Stop closes the input session. Work still in flight is abandoned and its
// completion dropped. Stop must be called from the goroutine running the
// loop or after Run has returned.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		if c.pending > 0 {
			logging.Debug("Abandoning pending operations", zap.Int("pending", c.pending))
		}
		close(c.done)
		if err := c.input.Close(); err != nil {
			logging.Warn("Failed to close terminal input", zap.Error(err))
		}
	})
}

// Mode returns the current listening mode
func (c *Controller) Mode() terminal.Mode {
	return c.input.Mode()
}

// handleToken forwards interrupts and hands everything else to whichever
// handler is subscribed.
func (c *Controller) handleToken(tok terminal.Token) {
	if terminal.Classify(tok) == terminal.ClassInterrupt {
		logging.Debug("Interrupt key received", zap.String("key", tok.String()))
		c.interrupt()
		return
	}
	c.input.Deliver(tok)
}

// onCommand is the raw-mode handler
func (c *Controller) onCommand(tok terminal.Token) {
	if tok.Key == terminal.KeyCtrlL {
		c.console.Clear()
		return
	}

	cmd, ok := c.commands[tok.String()]
	if !ok {
		return
	}
	logging.LogCommand(cmd.Token, cmd.Name)

	if cmd.Clear {
		c.console.Clear()
	}
	if cmd.Announce != "" {
		c.console.Status(cmd.Announce)
	}
	if err := cmd.Run(c); err != nil {
		c.fail(err)
		return
	}
	if cmd.Help == helpAfterRun {
		c.console.PrintHelp()
	}
}

// async runs work on its own goroutine. The function work returns is run
// on the loop once work finishes.
func (c *Controller) async(name string, work func(ctx context.Context) func() error) {
	c.pending++
	ctx := c.ctx
	go func() {
		completion := work(ctx)
		select {
		case c.events <- completion:
		case <-c.done:
			logging.Debug("Dropped completion after stop", zap.String("operation", name))
		}
	}()
}

// complete runs a completion on the loop
func (c *Controller) complete(fn func() error) {
	c.pending--
	if err := fn(); err != nil {
		c.fail(err)
	}
}

// detach runs a task whose outcome nobody waits for. Failures are logged.
func (c *Controller) detach(name string, task func(ctx context.Context) error) {
	c.detached.Add(1)
	ctx := c.ctx
	go func() {
		defer c.detached.Done()
		logging.LogDetached(name, task(ctx))
	}()
}

func (c *Controller) fail(err error) {
	if c.fatal == nil {
		logging.Error("Session ended", zap.Error(err))
		c.fatal = err
	}
}

// enterRaw resubscribes the command handler
func (c *Controller) enterRaw() error {
	return c.input.EnterRaw(c.onCommand)
}

func (c *Controller) usageState() (ui.UsageState, error) {
	project, err := c.ops.Projects.ReadProjectSettings(c.dir)
	if err != nil {
		return ui.UsageState{}, settingsErr("read project settings", err)
	}
	openDevTools, err := c.ops.Settings.Bool(config.KeyOpenDevToolsAtStartup, true)
	if err != nil {
		return ui.UsageState{}, settingsErr("read "+config.KeyOpenDevToolsAtStartup, err)
	}
	return ui.UsageState{
		DevMode:               project.Dev,
		OpenDevToolsAtStartup: openDevTools,
		Username:              c.ops.Auth.CurrentUsername(),
	}, nil
}

func (c *Controller) printServerInfo() error {
	state, err := c.usageState()
	if err != nil {
		return err
	}
	info := ui.ServerInfo{Advertised: c.advertised, Usage: state}
	url, err := c.ops.URLs.ShareableURL(c.dir, "")
	if err != nil {
		info.URLError = err.Error()
	} else {
		info.URL = url
	}
	c.console.PrintServerInfo(info)
	return nil
}

func interruptSelf() {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return
	}
	if err := p.Signal(os.Interrupt); err != nil {
		logging.Warn("Failed to interrupt process", zap.Error(err))
	}
}
