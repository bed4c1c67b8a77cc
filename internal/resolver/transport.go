package resolver

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

// sharedAddressSpace is RFC 6598 carrier-grade NAT space, not covered by
// netip.Addr.IsPrivate.
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// isBlockedAddr reports whether addr must never be fetched on behalf of a user.
func isBlockedAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return !addr.IsValid() ||
		addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsInterfaceLocalMulticast() ||
		addr.IsMulticast() ||
		addr.IsUnspecified() ||
		sharedAddressSpace.Contains(addr)
}

// guardControl runs after DNS resolution, right before connect, so the check
// applies to the address actually dialed (including every redirect hop).
func guardControl(_ string, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrBlockedTarget, address)
	}
	addr, err := netip.ParseAddr(host)
	if err != nil || isBlockedAddr(addr) {
		return fmt.Errorf("%w: %s", domain.ErrBlockedTarget, host)
	}
	return nil
}

// NewGuardedTransport returns a transport that refuses to connect to
// loopback, private, link-local and similar addresses unless allowPrivate is set.
// Proxies from the environment are ignored: the guard must see the real target.
func NewGuardedTransport(allowPrivate bool) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	if !allowPrivate {
		dialer.Control = guardControl
	}

	return &http.Transport{
		Proxy:                 nil,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}
}
