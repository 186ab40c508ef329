// Package discovery advertises running dev server sessions over mDNS and
// scans the local network for them.
//
// A session registers itself as a "_devterm._tcp" service. The instance name
// is derived from the project directory and the TXT records carry the
// project name and the URL a device should open:
//
//	project=myapp
//	url=exp://192.168.1.20:19000
//	version=1.2.0
//
// # Network Requirements
//
//   - Requires multicast support on the network interface
//   - Sessions must be on the same local network segment
//   - Firewall must allow mDNS (UDP port 5353)
package discovery
