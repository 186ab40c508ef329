package devices

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls   []call
	outputs map[string]fakeOutput
}

type fakeOutput struct {
	stdout, stderr string
	err            error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	key := name
	if len(args) > 0 {
		key += " " + args[0]
	}
	out := f.outputs[key]
	return out.stdout, out.stderr, out.err
}

type fakeURLs struct {
	url string
	err error
}

func (f fakeURLs) ShareableURL(projectDir, hostType string) (string, error) {
	return f.url, f.err
}

func found(file string) (string, error) { return "/usr/bin/" + file, nil }

func missing(file string) (string, error) { return "", errors.New("executable file not found in $PATH") }

func newTestLauncher(runner *fakeRunner, goos string) *Launcher {
	l := NewLauncher(fakeURLs{url: "exp://192.168.1.20:19000"})
	l.Runner = runner
	l.LookPath = found
	l.GOOS = goos
	return l
}

func TestParseADBDevices(t *testing.T) {
	output := "List of devices attached\n" +
		"emulator-5554\tdevice\n" +
		"R58M123\tunauthorized\n" +
		"0123456789ABCDEF\tdevice\n" +
		"\n"

	got := parseADBDevices(output)
	if len(got) != 2 || got[0] != "emulator-5554" || got[1] != "0123456789ABCDEF" {
		t.Errorf("parseADBDevices() = %v", got)
	}
	if got := parseADBDevices("List of devices attached\n\n"); len(got) != 0 {
		t.Errorf("parseADBDevices(empty) = %v", got)
	}
}

func TestOpenAndroid(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]fakeOutput{
		"adb devices": {stdout: "List of devices attached\nemulator-5554\tdevice\n"},
	}}
	l := newTestLauncher(runner, "linux")

	res := l.OpenAndroid(context.Background(), "/proj")
	if !res.Success || res.Err != nil {
		t.Fatalf("OpenAndroid() = %+v", res)
	}
	if len(runner.calls) != 2 {
		t.Fatalf("calls = %+v", runner.calls)
	}
	args := strings.Join(runner.calls[1].args, " ")
	want := "-s emulator-5554 shell am start -a android.intent.action.VIEW -d exp://192.168.1.20:19000"
	if args != want {
		t.Errorf("adb args = %q, want %q", args, want)
	}
}

func TestOpenAndroidFailures(t *testing.T) {
	tests := []struct {
		name     string
		runner   *fakeRunner
		lookPath func(string) (string, error)
		urls     fakeURLs
		wantMsg  string
	}{
		{
			name:     "adb missing",
			runner:   &fakeRunner{},
			lookPath: missing,
			urls:     fakeURLs{url: "exp://x"},
			wantMsg:  "adb not found",
		},
		{
			name:     "no devices",
			runner:   &fakeRunner{outputs: map[string]fakeOutput{"adb devices": {stdout: "List of devices attached\n"}}},
			lookPath: found,
			urls:     fakeURLs{url: "exp://x"},
			wantMsg:  "No Android connected device found",
		},
		{
			name:     "bundler not running",
			runner:   &fakeRunner{},
			lookPath: found,
			urls:     fakeURLs{err: errors.New("bundler is not running for this project")},
			wantMsg:  "Could not build the project URL",
		},
		{
			name: "am start reports an error",
			runner: &fakeRunner{outputs: map[string]fakeOutput{
				"adb devices": {stdout: "emulator-5554\tdevice\n"},
				"adb -s":      {stderr: "Error: Activity not started, unable to resolve Intent"},
			}},
			lookPath: found,
			urls:     fakeURLs{url: "exp://x"},
			wantMsg:  "unable to resolve Intent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLauncher(tt.urls)
			l.Runner = tt.runner
			l.LookPath = tt.lookPath

			res := l.OpenAndroid(context.Background(), "/proj")
			if res.Success {
				t.Fatal("OpenAndroid() should fail")
			}
			var launchErr *LaunchError
			if !errors.As(res.Err, &launchErr) || launchErr.Platform != "Android" {
				t.Fatalf("Err = %v, want *LaunchError for Android", res.Err)
			}
			if !strings.Contains(res.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want it to contain %q", res.Message(), tt.wantMsg)
			}
		})
	}
}

func TestOpenIOSSimulator(t *testing.T) {
	runner := &fakeRunner{}
	l := newTestLauncher(runner, "darwin")

	res := l.OpenIOSSimulator(context.Background(), "/proj")
	if !res.Success {
		t.Fatalf("OpenIOSSimulator() = %+v", res)
	}
	got := runner.calls[0].name + " " + strings.Join(runner.calls[0].args, " ")
	if got != "xcrun simctl openurl booted exp://192.168.1.20:19000" {
		t.Errorf("command = %q", got)
	}
}

func TestOpenIOSSimulatorFailures(t *testing.T) {
	t.Run("not macOS", func(t *testing.T) {
		runner := &fakeRunner{}
		res := newTestLauncher(runner, "linux").OpenIOSSimulator(context.Background(), "/proj")
		if res.Success || !strings.Contains(res.Message(), "only available on macOS") {
			t.Errorf("result = %+v", res)
		}
		if len(runner.calls) != 0 {
			t.Errorf("no commands should run, got %+v", runner.calls)
		}
	})

	t.Run("no booted simulator", func(t *testing.T) {
		runner := &fakeRunner{outputs: map[string]fakeOutput{
			"xcrun simctl": {stderr: "No devices are booted.", err: errors.New("exit status 149")},
		}}
		res := newTestLauncher(runner, "darwin").OpenIOSSimulator(context.Background(), "/proj")
		if res.Success || !strings.Contains(res.Message(), "No iOS simulator is booted") {
			t.Errorf("result = %+v", res)
		}
	})
}
