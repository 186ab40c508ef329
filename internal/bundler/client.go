package bundler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muurk/devterm/internal/config"
	"github.com/muurk/devterm/internal/logging"
	"go.uber.org/zap"
)

const (
	// MessagePath is the bundler's control channel endpoint
	MessagePath = "/message"

	// ProtocolVersion is the message protocol version the bundler speaks
	ProtocolVersion = 2

	// DefaultTimeout bounds dialing and writing a single message
	DefaultTimeout = 5 * time.Second
)

// ErrNotRunning is returned when the project has no recorded packager port
var ErrNotRunning = errors.New("bundler is not running for this project")

// PackagerReader reads the packager info written by the running bundler
type PackagerReader interface {
	ReadPackagerInfo(projectDir string) (config.PackagerInfo, error)
}

// Message is a control message sent to the bundler
type Message struct {
	Version int    `json:"version"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// RestartParams are the parameters of the restart method
type RestartParams struct {
	Reset bool `json:"reset"`
}

// Client sends control messages to the bundler of a project
type Client struct {
	Projects PackagerReader
	Host     string
	Dialer   *websocket.Dialer
	Timeout  time.Duration
}

// NewClient creates a bundler client for bundlers on localhost
func NewClient(projects PackagerReader) *Client {
	return &Client{
		Projects: projects,
		Host:     "localhost",
		Dialer:   &websocket.Dialer{HandshakeTimeout: DefaultTimeout},
		Timeout:  DefaultTimeout,
	}
}

// Restart asks the bundler to restart. With reset the bundler also clears
// its transform cache.
func (c *Client) Restart(ctx context.Context, projectDir string, reset bool) error {
	return c.Send(ctx, projectDir, Message{
		Version: ProtocolVersion,
		Method:  "restart",
		Params:  RestartParams{Reset: reset},
	})
}

// Send delivers msg to the bundler of the project in projectDir
func (c *Client) Send(ctx context.Context, projectDir string, msg Message) error {
	info, err := c.Projects.ReadPackagerInfo(projectDir)
	if err != nil {
		return err
	}
	if info.PackagerPort == 0 {
		return ErrNotRunning
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	endpoint := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(info.PackagerPort)),
		Path:   MessagePath,
	}
	conn, _, err := c.Dialer.DialContext(ctx, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect to bundler at %s: %w", endpoint.String(), err)
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}

	logging.Info("Sending message to bundler",
		zap.String("method", msg.Method),
		zap.Int("port", info.PackagerPort),
		zap.Any("params", msg.Params),
	)

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send %s: %w", msg.Method, err)
	}

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteMessage(websocket.CloseMessage, closeMsg)
	return nil
}
