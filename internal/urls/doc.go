// Package urls builds the project URLs devterm shares with devices.
//
// A shareable URL points a companion app at the running bundler. Its host
// depends on the host type:
//
//   - lan: the machine's first private IPv4 address and the packager port
//   - localhost: 127.0.0.1 and the packager port (simulators on this machine)
//   - tunnel: the public tunnel URL recorded by the bundler, falling back
//     to lan when no tunnel is running
//
// The package also holds the documentation links printed by the console.
package urls
