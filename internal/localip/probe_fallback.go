//go:build !linux && !darwin

package localip

import (
	"context"
	"net"
	"net/netip"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func platformProbes() []Probe {
	return []Probe{
		newIfaceProbe(),
	}
}

var _ Probe = (*ifaceProbe)(nil)

// ifaceProbe enumerates all interface addresses and takes the first usable
// one.
type ifaceProbe struct {
	log zerolog.Logger
}

func newIfaceProbe() *ifaceProbe {
	return &ifaceProbe{
		log: log.With().
			Str("source", "localip").
			Str("probe", "iface").
			Logger(),
	}
}

func (p *ifaceProbe) Name() string { return "iface" }

func (p *ifaceProbe) Probe(_ context.Context) (netip.Addr, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		p.log.Debug().Err(err).Msg("interface enumeration failed")
		return netip.Addr{}, nil
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}

		if ip, ok := netip.AddrFromSlice(ipNet.IP); ok && usableAddr(ip) {
			return ip.Unmap(), nil
		}
	}

	return netip.Addr{}, nil
}
