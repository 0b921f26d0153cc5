package localip

import (
	"net/netip"
	"strings"
)

// ethernetPrefix matches the conventional naming of ethernet-like
// interfaces on BSD systems (en0, en1, ...).
const ethernetPrefix = "en"

// parseIfconfig extracts the first usable inet address bound to an
// ethernet-like interface from ifconfig output. Returns the zero Addr when
// nothing matches.
func parseIfconfig(out string) netip.Addr {
	var current string
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)

		// Interface blocks start at column zero: "en0: flags=...".
		if line != "" && line[0] != ' ' && line[0] != '\t' {
			current = strings.SplitN(trimmed, ":", 2)[0]
			continue
		}

		if !strings.HasPrefix(current, ethernetPrefix) {
			continue
		}

		if !strings.HasPrefix(trimmed, "inet ") {
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			continue
		}

		addr, err := netip.ParseAddr(fields[1])
		if err != nil {
			continue
		}

		if usableAddr(addr) {
			return addr
		}
	}

	return netip.Addr{}
}
