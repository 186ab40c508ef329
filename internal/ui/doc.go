// Package ui renders the devterm console.
//
// Rendering is stateless: every function takes the facts it needs and
// returns or writes text. There are three banners:
//
//   - Help: the single "Press ? to show a list of all available commands"
//     line printed after every command.
//   - Usage: the full key legend, parameterized by the current build mode,
//     whether DevTools opens at startup and the signed-in username.
//   - Server info: a QR code of the project URL, the ways to connect a
//     device and the usage legend. The sign-in hint only appears when
//     signed out.
//
// Styles come from Lipgloss. When the output is not a terminal Lipgloss
// drops colors, so the rendered text is stable enough to assert on in tests.
//
// The Console writes through an io.Writer. In raw mode the caller wraps
// stdout in terminal.CRLFWriter so line feeds return the cursor.
package ui
