package localip

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// hostGateway is the name container runtimes conventionally map to the
	// physical host.
	hostGateway = "host.docker.internal"

	dockerEnvPath = "/.dockerenv"
	cgroupPath    = "/proc/1/cgroup"
)

var _ Probe = (*containerProbe)(nil)

// containerProbe detects container isolation and, when detected, publishes
// the host gateway address instead of anything bound inside the container.
// An unresolvable gateway is a hard error: no other probe can produce a
// meaningful answer from inside a container.
type containerProbe struct {
	markerPath string
	cgroupPath string
	resolver   *net.Resolver
	log        zerolog.Logger
}

func newContainerProbe() *containerProbe {
	return &containerProbe{
		markerPath: dockerEnvPath,
		cgroupPath: cgroupPath,
		resolver:   net.DefaultResolver,
		log: log.With().
			Str("source", "localip").
			Str("probe", "container").
			Logger(),
	}
}

func (p *containerProbe) Name() string { return "container" }

func (p *containerProbe) Probe(ctx context.Context) (netip.Addr, error) {
	if !p.inContainer() {
		return netip.Addr{}, nil
	}

	p.log.Info().Msg("container detected, resolving host gateway")
	addrs, err := p.resolver.LookupNetIP(ctx, "ip4", hostGateway)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("resolve %s: %w", hostGateway, err)
	}

	if len(addrs) == 0 {
		return netip.Addr{}, fmt.Errorf("resolve %s: no addresses", hostGateway)
	}

	return addrs[0], nil
}

// inContainer checks the runtime marker file first, then the root control
// group membership. Read errors mean "not containerized", never a failed
// probe.
func (p *containerProbe) inContainer() bool {
	if _, err := os.Stat(p.markerPath); err == nil {
		return true
	}

	data, err := os.ReadFile(p.cgroupPath)
	if err != nil {
		return false
	}

	content := string(data)
	return strings.Contains(content, "docker") || strings.Contains(content, "containerd")
}
