// Package discovery finds manual lookup services on the local network.
//
// Services advertise themselves over multicast DNS as "_techguide._tcp" in
// the "local." domain. TXT records carry optional metadata:
//   - path: base path prepended to the API endpoints (e.g., "path=/manuals")
//   - scheme: "http" (default) or "https"
//   - version: service version string
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	scanner.Timeout = 3 * time.Second
//	servers, err := scanner.Scan(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, s := range servers {
//	    fmt.Println(s.Instance, s.BaseURL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Firewall must allow mDNS (UDP port 5353)
package discovery
