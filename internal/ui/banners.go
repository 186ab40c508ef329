package ui

import (
	"fmt"
	"strings"

	"github.com/muurk/devterm/internal/urls"
)

// UsageState holds the dynamic facts shown in the usage legend.
type UsageState struct {
	DevMode               bool
	OpenDevToolsAtStartup bool
	Username              string // empty when signed out
}

// ServerInfo holds what the server-info banner shows.
type ServerInfo struct {
	URL        string // project URL; empty when unavailable
	URLError   string // why URL is empty
	Advertised string // mDNS instance name, if the session is advertised
	Usage      UsageState
}

// HelpLine returns the short help banner.
func HelpLine() string {
	return legendLine("Press %s to show a list of all available commands.", "?")
}

// RenderUsage returns the full key legend. The iOS simulator affordance is
// only listed on darwin.
func RenderUsage(state UsageState, goos string) string {
	var lines []string

	if goos == "darwin" {
		lines = append(lines, legendLine("Press %s to open Android device or emulator, or %s to open iOS simulator.", "a", "i"))
	} else {
		lines = append(lines, legendLine("Press %s to open Android device or emulator.", "a"))
	}
	lines = append(lines, legendLine("Press %s to show info on connecting new devices.", "c"))
	lines = append(lines, legendLine("Press %s to open DevTools in the default web browser.", "d"))

	if state.OpenDevToolsAtStartup {
		lines = append(lines, legendLine("Press %s to disable automatically opening DevTools at startup.", "shift-d"))
	} else {
		lines = append(lines, legendLine("Press %s to enable automatically opening DevTools at startup.", "shift-d"))
	}

	lines = append(lines, legendLine("Press %s to send an app link with email or SMS.", "e"))
	lines = append(lines, legendLine("Press %s to toggle production mode.", "p")+" "+
		NoticeStyle.Render(fmt.Sprintf("(current mode: %s)", ModeName(state.DevMode))))
	lines = append(lines, legendLine("Press %s to restart bundler, or %s to restart and clear cache.", "r", "shift-r"))

	if state.Username != "" {
		lines = append(lines, legendLine("Press %s to sign out.", "s")+" "+
			StatusStyle.Render(fmt.Sprintf("(Signed in as @%s.)", state.Username)))
	} else {
		lines = append(lines, legendLine("Press %s to sign in.", "s"))
	}

	return strings.Join(lines, "\n")
}

// RenderServerInfo returns the server-info banner without the QR code.
func RenderServerInfo(info ServerInfo, goos string) string {
	var lines []string

	if info.URL != "" {
		lines = append(lines, " "+HeadingStyle.Render("Your app is being served at:")+" "+URLStyle.Render(info.URL))
	} else {
		reason := info.URLError
		if reason == "" {
			reason = "unknown error"
		}
		lines = append(lines, " "+ErrorStyle.Render("Project URL unavailable: "+reason))
	}
	lines = append(lines, "")

	lines = append(lines, " "+HeadingStyle.Render("To run the app with live reloading, choose one of:"))
	if info.URL != "" {
		lines = append(lines, item("Scan the QR code above with the companion app (Android) or the Camera app (iOS)."))
	}
	if goos == "darwin" {
		lines = append(lines, item("Press "+KeyStyle.Render("a")+" for Android device or emulator, or "+KeyStyle.Render("i")+" for iOS simulator."))
	} else {
		lines = append(lines, item("Press "+KeyStyle.Render("a")+" for Android device or emulator."))
	}
	lines = append(lines, item("Press "+KeyStyle.Render("e")+" to send a link to your phone with email or SMS."))
	if info.Usage.Username == "" {
		lines = append(lines, item("Press "+KeyStyle.Render("s")+" to sign in and enable more options."))
	}
	lines = append(lines, "")

	if info.Advertised != "" {
		lines = append(lines, " "+StatusStyle.Render(fmt.Sprintf("Advertised on the local network as %q.", info.Advertised)))
	}
	lines = append(lines, " "+StatusStyle.Render("Learn more: "+urls.ConnectingDevices))
	lines = append(lines, "")

	lines = append(lines, RenderUsage(info.Usage, goos))
	return strings.Join(lines, "\n")
}

// ModeName names the build mode
func ModeName(dev bool) string {
	if dev {
		return "development"
	}
	return "production"
}

// legendLine renders " › <format>" with every key argument styled.
func legendLine(format string, keys ...string) string {
	styled := make([]any, len(keys))
	for i, k := range keys {
		styled[i] = KeyStyle.Render(k)
	}
	return " " + BulletStyle.Render(LegendMarker) + " " + fmt.Sprintf(format, styled...)
}

func item(text string) string {
	return "  " + BulletStyle.Render(ItemMarker) + " " + text
}
