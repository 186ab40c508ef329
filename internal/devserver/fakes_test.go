package devserver

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/muurk/devterm/internal/config"
	"github.com/muurk/devterm/internal/devices"
	"github.com/muurk/devterm/internal/terminal"
	"github.com/muurk/devterm/internal/ui"
)

const helpText = "to show a list of all available commands"

type fakeProjects struct {
	mu       sync.Mutex
	settings config.ProjectSettings
	info     config.PackagerInfo
	readErr  error
	writeErr error
	writes   int
}

func (f *fakeProjects) ReadProjectSettings(projectDir string) (config.ProjectSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings, f.readErr
}

func (f *fakeProjects) WriteProjectSettings(projectDir string, settings config.ProjectSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.settings = settings
	f.writes++
	return nil
}

func (f *fakeProjects) ReadPackagerInfo(projectDir string) (config.PackagerInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.info, f.readErr
}

type fakeSettings struct {
	mu     sync.Mutex
	values map[string]any
	err    error
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{values: map[string]any{config.KeyOpenDevToolsAtStartup: false}}
}

func (f *fakeSettings) Bool(key string, def bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if v, ok := f.values[key].(bool); ok {
		return v, nil
	}
	return def, nil
}

func (f *fakeSettings) String(key string, def string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if v, ok := f.values[key].(string); ok {
		return v, nil
	}
	return def, nil
}

func (f *fakeSettings) Set(key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.values[key] = value
	return nil
}

func (f *fakeSettings) get(key string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

type fakeURLs struct {
	mu        sync.Mutex
	url       string
	err       error
	hostTypes []string
}

func (f *fakeURLs) ShareableURL(projectDir string, hostType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hostTypes = append(f.hostTypes, hostType)
	return f.url, f.err
}

type fakeAuth struct {
	mu         sync.Mutex
	username   string
	session    string
	sessionErr error
	gate       chan struct{} // when set, Session blocks until it is closed
	loginUser  string
	loginErr   error
	logoutErr  error
	logins     int
	logouts    int
}

func (f *fakeAuth) CurrentUsername() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.username
}

func (f *fakeAuth) Session(ctx context.Context) (string, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, f.sessionErr
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	if f.logoutErr == nil {
		f.username, f.session = "", ""
	}
	return f.logoutErr
}

func (f *fakeAuth) InteractiveLogin(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins++
	if f.loginErr != nil {
		return "", f.loginErr
	}
	f.username, f.session = f.loginUser, f.loginUser
	return f.loginUser, nil
}

type sentLink struct {
	recipient, url string
}

type fakeLinks struct {
	mu   sync.Mutex
	sent []sentLink
	err  error
}

func (f *fakeLinks) SendLink(ctx context.Context, recipient, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentLink{recipient: recipient, url: url})
	return f.err
}

func (f *fakeLinks) all() []sentLink {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentLink(nil), f.sent...)
}

type fakeDevices struct {
	result devices.Result
	gate   chan struct{}
}

func (f *fakeDevices) open() devices.Result {
	if f.gate != nil {
		<-f.gate
	}
	return f.result
}

func (f *fakeDevices) OpenAndroid(ctx context.Context, projectDir string) devices.Result {
	return f.open()
}

func (f *fakeDevices) OpenIOSSimulator(ctx context.Context, projectDir string) devices.Result {
	return f.open()
}

type fakeBundler struct {
	mu       sync.Mutex
	restarts []bool
}

func (f *fakeBundler) Restart(ctx context.Context, projectDir string, reset bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restarts = append(f.restarts, reset)
	return nil
}

type fakeBrowser struct {
	mu     sync.Mutex
	opened []string
}

func (f *fakeBrowser) OpenURL(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, url)
	return nil
}

// harness drives a Controller synchronously: tokens are handled on the test
// goroutine and completions are drained with settle.
type harness struct {
	t     *testing.T
	c     *Controller
	src   *terminal.ChanSource
	input *terminal.Session
	out   *bytes.Buffer

	projects *fakeProjects
	settings *fakeSettings
	urls     *fakeURLs
	auth     *fakeAuth
	links    *fakeLinks
	devices  *fakeDevices
	bundler  *fakeBundler
	browser  *fakeBrowser

	interrupts int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		src:      terminal.NewChanSource(64),
		out:      &bytes.Buffer{},
		projects: &fakeProjects{settings: config.DefaultProjectSettings(), info: config.PackagerInfo{PackagerPort: 19000, DevToolsPort: 19002}},
		settings: newFakeSettings(),
		urls:     &fakeURLs{url: "exp://192.168.1.20:19000"},
		auth:     &fakeAuth{loginUser: "jane"},
		links:    &fakeLinks{},
		devices:  &fakeDevices{result: devices.Result{Success: true}},
		bundler:  &fakeBundler{},
		browser:  &fakeBrowser{},
	}
	h.input = terminal.NewSession(h.src)
	console := ui.NewConsole(h.out).WithPlatform("linux").WithQR(nil)

	h.c = New(Options{
		ProjectDir: "/proj",
		Input:      h.input,
		Console:    console,
		Ops: Ops{
			Projects: h.projects,
			Settings: h.settings,
			URLs:     h.urls,
			Auth:     h.auth,
			Links:    h.links,
			Devices:  h.devices,
			Bundler:  h.bundler,
			Browser:  h.browser,
		},
		Interrupt: func() { h.interrupts++ },
	})
	return h
}

// start starts the controller and discards the startup banner
func (h *harness) start() {
	h.t.Helper()
	if err := h.c.Start(context.Background()); err != nil {
		h.t.Fatalf("Start() error = %v", err)
	}
	h.settle()
	h.out.Reset()
}

func (h *harness) press(tokens ...terminal.Token) {
	h.t.Helper()
	for _, tok := range tokens {
		h.c.handleToken(tok)
		h.checkInvariants()
	}
}

// keys presses every rune of s
func (h *harness) keys(s string) {
	h.t.Helper()
	for _, r := range s {
		h.press(terminal.Rune(r))
	}
}

// settle runs completions until no asynchronous work is pending
func (h *harness) settle() {
	h.t.Helper()
	for h.c.pending > 0 {
		h.completeOne()
	}
	h.c.detached.Wait()
}

func (h *harness) completeOne() {
	h.t.Helper()
	h.c.complete(<-h.c.events)
	h.checkInvariants()
}

func (h *harness) checkInvariants() {
	h.t.Helper()
	command, prompt := h.input.Subscribed()
	if command && prompt {
		h.t.Fatal("raw command and line prompt handlers are subscribed at the same time")
	}
	if h.c.prompt != nil && h.input.Mode() != terminal.ModeLinePrompt {
		h.t.Fatalf("prompt state exists in mode %s", h.input.Mode())
	}
	if h.input.Mode() == terminal.ModeLinePrompt && h.c.prompt == nil {
		h.t.Fatal("line prompt mode without prompt state")
	}
}

func (h *harness) output() string {
	return h.out.String()
}

func (h *harness) helpCount() int {
	return strings.Count(h.out.String(), helpText)
}

func (h *harness) mode() terminal.Mode {
	return h.input.Mode()
}
