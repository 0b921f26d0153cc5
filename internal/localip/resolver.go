package localip

import (
	"context"
	"errors"
	"fmt"
	"net/netip"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrNoAddress is returned when every probe in the chain comes up empty.
var ErrNoAddress = errors.New("no local address found")

// Probe is a single strategy for discovering the machine's network-facing
// address. A zero Addr with a nil error means the probe has nothing to offer
// and the next one in the chain should be tried. A non-nil error stops the
// chain.
type Probe interface {
	Name() string
	Probe(ctx context.Context) (netip.Addr, error)
}

// Resolver walks an ordered probe chain and returns the first usable
// address. Probes only inspect the system, they never mutate it.
type Resolver struct {
	probes []Probe
	log    zerolog.Logger
}

// NewResolver builds the default chain: container detection first, then the
// platform strategies in priority order.
func NewResolver() *Resolver {
	return NewResolverWithProbes(append([]Probe{newContainerProbe()}, platformProbes()...)...)
}

func NewResolverWithProbes(probes ...Probe) *Resolver {
	return &Resolver{
		probes: probes,
		log: log.With().
			Str("source", "localip").
			Logger(),
	}
}

func (r *Resolver) Resolve(ctx context.Context) (netip.Addr, error) {
	for _, p := range r.probes {
		addr, err := p.Probe(ctx)
		if err != nil {
			return netip.Addr{}, fmt.Errorf("%s probe: %w", p.Name(), err)
		}

		if !addr.IsValid() {
			r.log.Debug().Str("probe", p.Name()).Msg("no address")
			continue
		}

		if !usableAddr(addr) {
			r.log.Debug().Str("probe", p.Name()).Stringer("addr", addr).Msg("rejected unusable address")
			continue
		}

		r.log.Info().Str("probe", p.Name()).Stringer("addr", addr.Unmap()).Msg("local address found")
		return addr.Unmap(), nil
	}

	return netip.Addr{}, ErrNoAddress
}
