//go:build linux

package localip

import (
	"context"
	"net"
	"net/netip"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vishvananda/netlink"
)

// probeTarget is a distant, known-reachable address. No packets are sent,
// it only anchors the routing lookup.
var probeTarget = net.IPv4(8, 8, 8, 8)

func platformProbes() []Probe {
	return []Probe{
		newRouteProbe(),
		newNetlinkProbe(),
	}
}

var _ Probe = (*routeProbe)(nil)

// routeProbe asks the kernel which source address it would use to reach
// probeTarget.
type routeProbe struct {
	log zerolog.Logger
}

func newRouteProbe() *routeProbe {
	return &routeProbe{
		log: log.With().
			Str("source", "localip").
			Str("probe", "route").
			Logger(),
	}
}

func (p *routeProbe) Name() string { return "route" }

func (p *routeProbe) Probe(_ context.Context) (netip.Addr, error) {
	routes, err := netlink.RouteGet(probeTarget)
	if err != nil {
		p.log.Debug().Err(err).Msg("route lookup failed")
		return netip.Addr{}, nil
	}

	for _, route := range routes {
		if src, ok := netip.AddrFromSlice(route.Src); ok && usableAddr(src) {
			return src.Unmap(), nil
		}
	}

	return netip.Addr{}, nil
}

var _ Probe = (*netlinkProbe)(nil)

// netlinkProbe enumerates links and takes the first usable IPv4 address on
// a non-loopback interface.
type netlinkProbe struct {
	log zerolog.Logger
}

func newNetlinkProbe() *netlinkProbe {
	return &netlinkProbe{
		log: log.With().
			Str("source", "localip").
			Str("probe", "iface").
			Logger(),
	}
}

func (p *netlinkProbe) Name() string { return "iface" }

func (p *netlinkProbe) Probe(_ context.Context) (netip.Addr, error) {
	links, err := netlink.LinkList()
	if err != nil {
		p.log.Debug().Err(err).Msg("link enumeration failed")
		return netip.Addr{}, nil
	}

	for _, link := range links {
		if link.Attrs().Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
		if err != nil {
			p.log.Debug().Err(err).Str("link", link.Attrs().Name).Msg("address listing failed")
			continue
		}

		for _, addr := range addrs {
			if ip, ok := netip.AddrFromSlice(addr.IP); ok && usableAddr(ip) {
				return ip.Unmap(), nil
			}
		}
	}

	return netip.Addr{}, nil
}
