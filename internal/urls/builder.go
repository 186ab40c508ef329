package urls

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/muurk/devterm/internal/config"
)

// DefaultScheme is the URL scheme the companion app registers for.
const DefaultScheme = "exp"

// ErrBundlerNotRunning is returned when no packager port has been recorded.
var ErrBundlerNotRunning = errors.New("bundler is not running for this project")

// ProjectReader is the subset of config.ProjectStore the builder needs
type ProjectReader interface {
	ReadProjectSettings(projectDir string) (config.ProjectSettings, error)
	ReadPackagerInfo(projectDir string) (config.PackagerInfo, error)
}

// Builder constructs shareable project URLs.
type Builder struct {
	Projects ProjectReader

	// Scheme is the URL scheme (default "exp", "exps" when the project uses https)
	Scheme string

	// LANAddress resolves the address devices on the LAN can reach.
	// Defaults to the first private IPv4 interface address.
	LANAddress func() (string, error)
}

// NewBuilder creates a builder over the given project store
func NewBuilder(projects ProjectReader) *Builder {
	return &Builder{
		Projects:   projects,
		Scheme:     DefaultScheme,
		LANAddress: PrivateIPv4,
	}
}

// ShareableURL returns the URL for the project in dir. An empty hostType
// uses the host type from the project's settings.
func (b *Builder) ShareableURL(projectDir string, hostType string) (string, error) {
	settings, err := b.Projects.ReadProjectSettings(projectDir)
	if err != nil {
		return "", err
	}
	info, err := b.Projects.ReadPackagerInfo(projectDir)
	if err != nil {
		return "", err
	}

	if hostType == "" {
		hostType = settings.HostType
	}

	scheme := b.Scheme
	if scheme == "" {
		scheme = DefaultScheme
	}
	if settings.HTTPS {
		scheme += "s"
	}

	if hostType == config.HostTypeTunnel && info.TunnelURL != "" {
		tunnel, err := url.Parse(info.TunnelURL)
		if err != nil {
			return "", fmt.Errorf("invalid tunnel URL %q: %w", info.TunnelURL, err)
		}
		if tunnel.Host == "" {
			return "", fmt.Errorf("invalid tunnel URL %q: missing host", info.TunnelURL)
		}
		return (&url.URL{Scheme: scheme, Host: tunnel.Host}).String(), nil
	}

	if info.PackagerPort == 0 {
		return "", ErrBundlerNotRunning
	}

	var host string
	switch hostType {
	case config.HostTypeLocalhost:
		host = "127.0.0.1"
	case config.HostTypeLAN, config.HostTypeTunnel:
		resolve := b.LANAddress
		if resolve == nil {
			resolve = PrivateIPv4
		}
		host, err = resolve()
		if err != nil {
			return "", fmt.Errorf("failed to determine LAN address: %w", err)
		}
	default:
		return "", fmt.Errorf("unknown host type %q", hostType)
	}

	return (&url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, strconv.Itoa(info.PackagerPort)),
	}).String(), nil
}

// PrivateIPv4 returns the first private, non-loopback IPv4 address of the machine.
func PrivateIPv4() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	return firstPrivateIPv4(addrs)
}

func firstPrivateIPv4(addrs []net.Addr) (string, error) {
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipNet.IP.To4()
		if ip == nil || ip.IsLoopback() || !ip.IsPrivate() {
			continue
		}
		return ip.String(), nil
	}
	return "", errors.New("no private IPv4 address found")
}
