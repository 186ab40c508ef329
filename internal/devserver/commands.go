package devserver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/muurk/devterm/internal/config"
	"github.com/muurk/devterm/internal/devices"
	"github.com/muurk/devterm/internal/logging"
	"github.com/muurk/devterm/internal/platform"
	"github.com/muurk/devterm/internal/terminal"
	"github.com/muurk/devterm/internal/ui"
	"go.uber.org/zap"
)

// helpPolicy says who prints the short help after a command
type helpPolicy int

const (
	// helpAfterRun: the router prints it as soon as Run returns
	helpAfterRun helpPolicy = iota
	// helpOnCompletion: the command prints it when its asynchronous work completes
	helpOnCompletion
	// helpNever: the command renders a full banner instead
	helpNever
)

// Command binds a key to what it does
type Command struct {
	Token    string
	Name     string
	Clear    bool   // clear the screen first
	Announce string // status line printed before Run
	Help     helpPolicy
	Run      func(c *Controller) error
}

func newCommandTable() map[string]Command {
	commands := []Command{
		{Token: "?", Name: "show usage", Help: helpNever, Run: (*Controller).showUsage},
		{
			Token: "a", Name: "open android", Clear: true, Help: helpOnCompletion,
			Announce: "Trying to open the project on Android...",
			Run: func(c *Controller) error {
				return c.openOnDevice("Android", c.ops.Devices.OpenAndroid)
			},
		},
		{
			Token: "i", Name: "open ios simulator", Clear: true, Help: helpOnCompletion,
			Announce: "Trying to open the project in iOS simulator...",
			Run: func(c *Controller) error {
				return c.openOnDevice("iOS simulator", c.ops.Devices.OpenIOSSimulator)
			},
		},
		{Token: "c", Name: "show server info", Clear: true, Help: helpNever, Run: (*Controller).printServerInfo},
		{
			Token: "d", Name: "open devtools",
			Announce: "Opening DevTools in the browser...",
			Run:      (*Controller).openDevTools,
		},
		{Token: "D", Name: "toggle devtools at startup", Clear: true, Run: (*Controller).toggleDevToolsAtStartup},
		{Token: "e", Name: "send link", Help: helpOnCompletion, Run: (*Controller).startSendLink},
		{Token: "p", Name: "toggle production mode", Clear: true, Run: (*Controller).toggleDevMode},
		{
			Token: "r", Name: "restart bundler", Clear: true,
			Announce: "Restarting bundler...",
			Run: func(c *Controller) error {
				return c.restartBundler(false)
			},
		},
		{
			Token: "R", Name: "restart bundler and clear cache", Clear: true,
			Announce: "Restarting bundler and clearing cache...",
			Run: func(c *Controller) error {
				return c.restartBundler(true)
			},
		},
		{Token: "s", Name: "sign in or out", Help: helpOnCompletion, Run: (*Controller).toggleSession},
	}

	table := make(map[string]Command, len(commands))
	for _, cmd := range commands {
		table[cmd.Token] = cmd
	}
	return table
}

func (c *Controller) showUsage() error {
	state, err := c.usageState()
	if err != nil {
		return err
	}
	c.console.PrintUsage(state)
	return nil
}

func (c *Controller) openOnDevice(target string, open func(ctx context.Context, projectDir string) devices.Result) error {
	c.async("open "+target, func(ctx context.Context) func() error {
		res := open(ctx, c.dir)
		return func() error {
			if !res.Success {
				msg := res.Message()
				if msg == "" {
					msg = "Failed to open the project on " + target + "."
				}
				c.console.Error(msg)
			}
			c.console.PrintHelp()
			return nil
		}
	})
	return nil
}

func (c *Controller) openDevTools() error {
	url, err := c.devToolsURL()
	if err != nil {
		return err
	}
	if url == "" {
		c.console.Error("DevTools are not available: the bundler is not running.")
		return nil
	}
	c.launchBrowser(url)
	return nil
}

// devToolsURL returns "" when no DevTools port has been recorded
func (c *Controller) devToolsURL() (string, error) {
	info, err := c.ops.Projects.ReadPackagerInfo(c.dir)
	if err != nil {
		return "", settingsErr("read packager info", err)
	}
	if info.DevToolsPort == 0 {
		return "", nil
	}
	return "http://localhost:" + strconv.Itoa(info.DevToolsPort), nil
}

func (c *Controller) launchBrowser(url string) {
	c.detach("open devtools", func(ctx context.Context) error {
		return c.ops.Browser.OpenURL(url)
	})
}

func (c *Controller) toggleDevToolsAtStartup() error {
	enabled, err := c.ops.Settings.Bool(config.KeyOpenDevToolsAtStartup, true)
	if err != nil {
		return settingsErr("read "+config.KeyOpenDevToolsAtStartup, err)
	}
	enabled = !enabled
	if err := c.ops.Settings.Set(config.KeyOpenDevToolsAtStartup, enabled); err != nil {
		return settingsErr("write "+config.KeyOpenDevToolsAtStartup, err)
	}

	if enabled {
		c.console.Notice("Automatically opening DevTools at startup is now enabled.")
	} else {
		c.console.Notice("Automatically opening DevTools at startup is now disabled.")
	}
	return nil
}

func (c *Controller) toggleDevMode() error {
	settings, err := c.ops.Projects.ReadProjectSettings(c.dir)
	if err != nil {
		return settingsErr("read project settings", err)
	}
	settings.Dev = !settings.Dev
	settings.Minify = !settings.Dev
	if err := c.ops.Projects.WriteProjectSettings(c.dir, settings); err != nil {
		return settingsErr("write project settings", err)
	}

	c.console.Notice(fmt.Sprintf("Bundler is now running in %s mode.", ui.ModeName(settings.Dev)))
	c.console.Info("Please reload the project in the app for the change to take effect.")
	return nil
}

func (c *Controller) restartBundler(reset bool) error {
	c.detach("restart bundler", func(ctx context.Context) error {
		return c.ops.Bundler.Restart(ctx, c.dir, reset)
	})
	return nil
}

// startSendLink leaves raw mode and opens the recipient prompt once the
// last recipient has been read.
func (c *Controller) startSendLink() error {
	c.input.Suspend()
	c.async("read recipient", func(ctx context.Context) func() error {
		fallback, err := c.ops.Settings.String(config.KeySendTo, "")
		return func() error {
			if err != nil {
				return settingsErr("read "+config.KeySendTo, err)
			}
			return c.openPrompt(fallback)
		}
	})
	return nil
}

// resolveRecipient applies the fallback to an empty submission and trims
// the result. An empty result means nothing should be sent, so a line of
// only spaces cancels.
func resolveRecipient(submitted, fallback string) string {
	recipient := submitted
	if recipient == "" {
		recipient = fallback
	}
	return strings.TrimSpace(recipient)
}

func (c *Controller) sendLink(recipient string) {
	c.console.Status(fmt.Sprintf("Sending a link to %s...", recipient))
	c.async("send link", func(ctx context.Context) func() error {
		url, err := c.ops.URLs.ShareableURL(c.dir, config.HostTypeTunnel)
		if err == nil {
			err = c.ops.Links.SendLink(ctx, recipient, url)
		}
		return func() error {
			defer c.console.PrintHelp()
			if err != nil {
				c.console.Error("Failed to send link: " + platform.ShortMessage(err))
				return nil
			}
			if err := c.ops.Settings.Set(config.KeySendTo, recipient); err != nil {
				return settingsErr("write "+config.KeySendTo, err)
			}
			c.console.Success(fmt.Sprintf("Sent link to %s.", recipient))
			return nil
		}
	})
}

// toggleSession signs out when signed in, and otherwise hands the terminal
// to the interactive sign-in flow.
func (c *Controller) toggleSession() error {
	c.async("query session", func(ctx context.Context) func() error {
		username, err := c.ops.Auth.Session(ctx)
		return func() error {
			return c.sessionQueried(username, err)
		}
	})
	return nil
}

func (c *Controller) sessionQueried(username string, err error) error {
	if c.input.Mode() != terminal.ModeRawCommand {
		logging.Debug("Session query completed outside raw mode, ignoring",
			zap.String("mode", c.input.Mode().String()))
		return nil
	}
	if err != nil {
		c.console.Error("Failed to check sign-in status: " + platform.ShortMessage(err))
		c.console.PrintHelp()
		return nil
	}

	if username != "" {
		c.async("sign out", func(ctx context.Context) func() error {
			err := c.ops.Auth.Logout(ctx)
			return func() error {
				if c.input.Mode() != terminal.ModeRawCommand {
					return nil
				}
				if err != nil {
					c.console.Error("Failed to sign out: " + platform.ShortMessage(err))
				} else {
					c.console.Success(fmt.Sprintf("Signed out from @%s.", username))
				}
				c.console.PrintHelp()
				return nil
			}
		})
		return nil
	}

	if err := c.input.Release(); err != nil {
		return err
	}
	c.async("sign in", func(ctx context.Context) func() error {
		username, err := c.ops.Auth.InteractiveLogin(ctx)
		return func() error {
			if rawErr := c.enterRaw(); rawErr != nil {
				return rawErr
			}
			if err != nil {
				logging.Error("Sign in failed", zap.Error(err))
				c.console.Error("Sign in failed: " + platform.ShortMessage(err))
			} else {
				c.console.Success(fmt.Sprintf("Signed in as @%s.", username))
			}
			c.console.PrintHelp()
			return nil
		}
	})
	return nil
}
