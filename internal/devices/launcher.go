package devices

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/muurk/devterm/internal/logging"
	"go.uber.org/zap"
)

// DefaultTimeout bounds each adb or simctl invocation
const DefaultTimeout = 30 * time.Second

// Result is the outcome of opening the project on a device.
type Result struct {
	Success bool
	Err     error
}

// LaunchError describes why the project could not be opened.
type LaunchError struct {
	// Platform is "Android" or "iOS"
	Platform string
	// Message is what the user sees
	Message string
	// Stderr is the tool's stderr output, if any
	Stderr string
	// Underlying error if any
	Err error
}

func (e *LaunchError) Error() string {
	return e.Message
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// URLBuilder builds the URL the device should open.
type URLBuilder interface {
	ShareableURL(projectDir string, hostType string) (string, error)
}

// Runner executes a command and returns its output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

// Run executes name with args
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Launcher opens projects on devices.
type Launcher struct {
	URLs     URLBuilder
	Runner   Runner
	LookPath func(file string) (string, error)
	GOOS     string
	Timeout  time.Duration
}

// NewLauncher creates a launcher that runs the real platform tools
func NewLauncher(urls URLBuilder) *Launcher {
	return &Launcher{
		URLs:     urls,
		Runner:   ExecRunner{},
		LookPath: exec.LookPath,
		GOOS:     runtime.GOOS,
		Timeout:  DefaultTimeout,
	}
}

// OpenAndroid opens the project on the first connected Android device or
// running emulator.
func (l *Launcher) OpenAndroid(ctx context.Context, projectDir string) Result {
	ctx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()

	if _, err := l.LookPath("adb"); err != nil {
		return failed(&LaunchError{
			Platform: "Android",
			Message:  "adb not found in PATH. Install the Android SDK platform tools to open Android devices.",
			Err:      err,
		})
	}

	url, err := l.URLs.ShareableURL(projectDir, "")
	if err != nil {
		return failed(&LaunchError{Platform: "Android", Message: fmt.Sprintf("Could not build the project URL: %v", err), Err: err})
	}

	stdout, stderr, err := l.Runner.Run(ctx, "adb", "devices")
	if err != nil {
		return failed(&LaunchError{Platform: "Android", Message: "Failed to list Android devices.", Stderr: stderr, Err: err})
	}
	serials := parseADBDevices(stdout)
	if len(serials) == 0 {
		return failed(&LaunchError{
			Platform: "Android",
			Message:  "No Android connected device found, and no emulators are running. Start an emulator or connect a device with USB debugging enabled.",
		})
	}

	serial := serials[0]
	logging.Info("Opening project on Android", zap.String("serial", serial), zap.String("url", url))

	_, stderr, err = l.Runner.Run(ctx, "adb", "-s", serial, "shell", "am", "start",
		"-a", "android.intent.action.VIEW", "-d", url)
	if err != nil {
		return failed(&LaunchError{Platform: "Android", Message: fmt.Sprintf("Failed to open %s on %s.", url, serial), Stderr: stderr, Err: err})
	}
	if strings.Contains(stderr, "Error:") {
		return failed(&LaunchError{Platform: "Android", Message: fmt.Sprintf("Failed to open %s on %s: %s", url, serial, strings.TrimSpace(stderr)), Stderr: stderr})
	}

	return Result{Success: true}
}

// OpenIOSSimulator opens the project in the booted iOS simulator. It is only
// available on macOS.
func (l *Launcher) OpenIOSSimulator(ctx context.Context, projectDir string) Result {
	ctx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()

	if l.GOOS != "darwin" {
		return failed(&LaunchError{Platform: "iOS", Message: "The iOS simulator is only available on macOS."})
	}
	if _, err := l.LookPath("xcrun"); err != nil {
		return failed(&LaunchError{
			Platform: "iOS",
			Message:  "xcrun not found in PATH. Install Xcode and its command line tools to use the iOS simulator.",
			Err:      err,
		})
	}

	url, err := l.URLs.ShareableURL(projectDir, "")
	if err != nil {
		return failed(&LaunchError{Platform: "iOS", Message: fmt.Sprintf("Could not build the project URL: %v", err), Err: err})
	}

	logging.Info("Opening project in iOS simulator", zap.String("url", url))

	_, stderr, err := l.Runner.Run(ctx, "xcrun", "simctl", "openurl", "booted", url)
	if err != nil {
		if strings.Contains(stderr, "No devices are booted") {
			return failed(&LaunchError{Platform: "iOS", Message: "No iOS simulator is booted. Open the Simulator app and try again.", Stderr: stderr, Err: err})
		}
		return failed(&LaunchError{Platform: "iOS", Message: fmt.Sprintf("Failed to open %s in the iOS simulator.", url), Stderr: stderr, Err: err})
	}

	return Result{Success: true}
}

// parseADBDevices returns the serials of devices in the "device" state from
// `adb devices` output. Unauthorized and offline devices are skipped.
func parseADBDevices(output string) []string {
	var serials []string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 || fields[1] != "device" {
			continue
		}
		serials = append(serials, fields[0])
	}
	return serials
}

func failed(err *LaunchError) Result {
	logging.Debug("Device launch failed", zap.String("platform", err.Platform), zap.Error(err))
	return Result{Err: err}
}

// Message returns the user-facing message of a result's error.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	var launchErr *LaunchError
	if errors.As(r.Err, &launchErr) {
		return launchErr.Message
	}
	return r.Err.Error()
}
