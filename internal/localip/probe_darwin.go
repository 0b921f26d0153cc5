//go:build darwin

package localip

import (
	"bytes"
	"context"
	"net/netip"
	"os/exec"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func platformProbes() []Probe {
	return []Probe{
		newIfconfigProbe(),
	}
}

var _ Probe = (*ifconfigProbe)(nil)

// ifconfigProbe shells out to ifconfig and takes the first usable inet
// address bound to an ethernet-like (en*) interface.
type ifconfigProbe struct {
	log zerolog.Logger
}

func newIfconfigProbe() *ifconfigProbe {
	return &ifconfigProbe{
		log: log.With().
			Str("source", "localip").
			Str("probe", "ifconfig").
			Logger(),
	}
}

func (p *ifconfigProbe) Name() string { return "ifconfig" }

func (p *ifconfigProbe) Probe(ctx context.Context) (netip.Addr, error) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, "ifconfig")
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		p.log.Debug().Err(err).Msg("ifconfig failed")
		return netip.Addr{}, nil
	}

	return parseIfconfig(stdout.String()), nil
}
