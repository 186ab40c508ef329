package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/devterm/internal/bundler"
	"github.com/muurk/devterm/internal/config"
	"github.com/muurk/devterm/internal/devices"
	"github.com/muurk/devterm/internal/devserver"
	"github.com/muurk/devterm/internal/discovery"
	"github.com/muurk/devterm/internal/logging"
	"github.com/muurk/devterm/internal/platform"
	"github.com/muurk/devterm/internal/terminal"
	"github.com/muurk/devterm/internal/ui"
	"github.com/muurk/devterm/internal/urls"
	"github.com/muurk/devterm/internal/version"
)

// Command flags
var (
	logLevel    string
	platformURL string
	advertise   bool
	scanTimeout int
)

func init() {
	rootCmd.Flags().StringVar(&platformURL, "platform-url", platform.DefaultBaseURL, "Development platform API URL")
	rootCmd.Flags().BoolVar(&advertise, "advertise", false, "Advertise the session on the local network over mDNS")
	startCmd.Flags().AddFlagSet(rootCmd.Flags())

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(settingsCmd)
}

// startCmd runs the interactive session
var startCmd = &cobra.Command{
	Use:   "start [project-dir]",
	Short: "Start the interactive session (default)",
	Long: `Start the interactive session for a project.

The bundler must be running for the project: devterm reads the ports it
recorded under <project-dir>/.devterm/ to build the project URL.`,
	Example: `  # Session for the current directory
  devterm

  # Session for another project, advertised on the LAN
  devterm start ~/src/myapp --advertise

  # Verbose logs on stderr
  devterm --log-level debug 2> devterm.log`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	// Stderr shares the raw-mode terminal with the console.
	if err := logging.InitializeWithOutput(logLevel, terminal.NewCRLFWriter(os.Stderr)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	projectDir, err := resolveProjectDir(args)
	if err != nil {
		return err
	}
	if !terminal.IsTerminal(os.Stdin) {
		return errors.New("devterm needs an interactive terminal on stdin")
	}

	settings, err := config.DefaultUserSettings()
	if err != nil {
		return err
	}
	sessions, err := config.DefaultSessionStore()
	if err != nil {
		return err
	}
	projects := config.NewProjectStore()
	builder := urls.NewBuilder(projects)
	client := platform.NewClient(platformURL, sessions)

	// The browser helper prints to stdout, which belongs to the console.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard

	var advertised string
	if advertise {
		ad, err := advertiseSession(projects, builder, projectDir)
		if err != nil {
			logging.Warn("Failed to advertise session", zap.Error(err))
		} else {
			defer ad.Shutdown()
			advertised = ad.Instance
		}
	}

	src := terminal.NewTTYSource(os.Stdin)
	if err := src.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("Starting session",
		zap.String("project", projectDir),
		zap.String("version", version.Full()),
	)

	controller := devserver.New(devserver.Options{
		ProjectDir: projectDir,
		Input:      terminal.NewSession(src),
		Console:    ui.NewConsole(terminal.NewCRLFWriter(os.Stdout)),
		Advertised: advertised,
		Ops: devserver.Ops{
			Projects: projects,
			Settings: settings,
			URLs:     builder,
			Auth:     client,
			Links:    client,
			Devices:  devices.NewLauncher(builder),
			Bundler:  bundler.NewClient(projects),
			Browser:  devserver.BrowserFunc(browser.OpenURL),
		},
	})
	return controller.Run(ctx)
}

func resolveProjectDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("invalid project directory %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("invalid project directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}

func advertiseSession(projects *config.ProjectStore, builder *urls.Builder, projectDir string) (*discovery.Advertisement, error) {
	info, err := projects.ReadPackagerInfo(projectDir)
	if err != nil {
		return nil, err
	}
	if info.PackagerPort == 0 {
		return nil, urls.ErrBundlerNotRunning
	}
	projectURL, err := builder.ShareableURL(projectDir, config.HostTypeLAN)
	if err != nil {
		return nil, err
	}
	return discovery.Advertise(projectDir, info.PackagerPort, projectURL, version.Version)
}

// scanCmd lists sessions advertised on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for dev server sessions on the network",
	Long: `Scan for dev server sessions advertised with --advertise.

This command listens for mDNS announcements and prints every session found
with its project name and the URL a device should open.`,
	Example: `  # Scan for 5 seconds (default)
  devterm scan

  # Longer scan for slow networks
  devterm scan --timeout 15`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	fmt.Printf("Scanning for dev server sessions (timeout: %ds)...\n\n", scanTimeout)

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(scanTimeout) * time.Second
	sessions, err := scanner.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Start the session with 'devterm --advertise'")
		fmt.Println("  - Make sure both machines are on the same network")
		fmt.Println("  - Try increasing --timeout for slower networks")
		return nil
	}

	fmt.Printf("Found %d session(s):\n\n", len(sessions))
	for i, s := range sessions {
		fmt.Printf("%d. %s\n", i+1, s.Project)
		fmt.Printf("   Instance: %s\n", s.Instance)
		fmt.Printf("   Address:  %s:%d\n", s.IP, s.Port)
		if s.URL != "" {
			fmt.Printf("   URL:      %s\n", s.URL)
		}
		fmt.Println()
	}
	return nil
}

// settingsCmd shows or changes the persisted user settings
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show user settings",
	Long: `Show the persisted user settings and where they are stored.

Use 'devterm settings set <key> <value>' to change a setting.`,
	Args: cobra.NoArgs,
	RunE: runSettings,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a user setting",
	Example: `  # Do not open DevTools when a session starts
  devterm settings set openDevToolsAtStartup false

  # Default recipient for links
  devterm settings set sendTo jane@example.com`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettings(cmd *cobra.Command, args []string) error {
	settings, err := config.DefaultUserSettings()
	if err != nil {
		return err
	}
	values, err := settings.All()
	if err != nil {
		return err
	}

	fmt.Printf("Settings file: %s\n\n", settings.Path())
	if len(values) == 0 {
		fmt.Println("No settings stored; defaults apply.")
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s: %v\n", k, values[k])
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	settings, err := config.DefaultUserSettings()
	if err != nil {
		return err
	}

	key, raw := args[0], args[1]
	value, err := parseSettingValue(key, raw)
	if err != nil {
		return err
	}
	if err := settings.Set(key, value); err != nil {
		return err
	}
	fmt.Printf("%s = %v\n", key, value)
	return nil
}

// parseSettingValue converts raw to the type the key is read as
func parseSettingValue(key, raw string) (any, error) {
	switch key {
	case config.KeyOpenDevToolsAtStartup:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s expects true or false, got %q", key, raw)
		}
		return v, nil
	case config.KeySendTo:
		return raw, nil
	default:
		return nil, fmt.Errorf("unknown setting %q", key)
	}
}
