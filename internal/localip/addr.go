package localip

import "net/netip"

// usableAddr reports whether addr can be published as the machine's LAN
// address: an IPv4 address that is neither loopback (127.0.0.0/8) nor
// link-local (169.254.0.0/16).
func usableAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	if !addr.IsValid() || !addr.Is4() {
		return false
	}

	return !addr.IsLoopback() && !addr.IsLinkLocalUnicast()
}
