package rewriter

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/buglloc/adguard-rewriter/internal/hostname"
)

// ErrNoHostnames is returned when a reconciliation run is started with
// nothing to reconcile.
var ErrNoHostnames = errors.New("no hostnames to reconcile")

// Store is the rewrite rule store the reconciler drives.
type Store interface {
	List(ctx context.Context) ([]Rule, error)
	Add(ctx context.Context, r Rule) error
	Delete(ctx context.Context, domain string) error
}

// HostResult is the outcome for a single hostname.
type HostResult struct {
	Hostname string
	Err      error
}

// Outcome aggregates per-hostname results of a single run.
type Outcome struct {
	Hosts []HostResult
}

func (o *Outcome) Succeeded() int {
	var n int
	for _, h := range o.Hosts {
		if h.Err == nil {
			n++
		}
	}
	return n
}

func (o *Outcome) Total() int {
	return len(o.Hosts)
}

// OK reports whether the run counts as successful: at least one hostname
// reconciled. Hostnames are independent, so a single failure must not mask
// the addresses that were published for the rest.
func (o *Outcome) OK() bool {
	return o.Succeeded() > 0
}

func (o *Outcome) Full() bool {
	return o.Succeeded() == o.Total()
}

// Reconciler brings the remote rewrite rules in line with a target IP.
type Reconciler struct {
	store Store
	log   zerolog.Logger
}

func NewReconciler(store Store) *Reconciler {
	return &Reconciler{
		store: store,
		log: log.With().
			Str("source", "reconciler").
			Logger(),
	}
}

// Reconcile processes hostnames in order against a single rule snapshot
// fetched up front. The snapshot is not refreshed mid-run: every decision
// in one run is made against the state observed at its start. Per-hostname
// failures are recorded and the loop continues.
func (r *Reconciler) Reconcile(ctx context.Context, hostnames []string, targetIP string) (*Outcome, error) {
	if len(hostnames) == 0 {
		return nil, ErrNoHostnames
	}

	snapshot, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch rewrite rules: %w", err)
	}

	existing := make(map[string]string, len(snapshot))
	for _, rule := range snapshot {
		if _, ok := existing[rule.Domain]; !ok {
			existing[rule.Domain] = rule.Answer
		}
	}

	out := &Outcome{
		Hosts: make([]HostResult, 0, len(hostnames)),
	}
	for _, name := range hostnames {
		err := r.reconcileHost(ctx, existing, name, targetIP)
		if err != nil {
			r.log.Error().Err(err).Str("hostname", name).Msg("reconcile failed")
		}

		out.Hosts = append(out.Hosts, HostResult{
			Hostname: name,
			Err:      err,
		})
	}

	return out, nil
}

func (r *Reconciler) reconcileHost(ctx context.Context, existing map[string]string, name, targetIP string) error {
	if err := hostname.Validate(name); err != nil {
		return fmt.Errorf("invalid hostname: %w", err)
	}

	answer, ok := existing[name]
	switch {
	case ok && answer == targetIP:
		r.log.Info().Str("hostname", name).Str("answer", targetIP).Msg("rewrite is up to date")
		return nil

	case ok:
		r.log.Info().
			Str("hostname", name).
			Str("old", answer).
			Str("new", targetIP).
			Msg("rewrite answer changed")
		if err := r.store.Delete(ctx, name); err != nil {
			return fmt.Errorf("delete stale rewrite: %w", err)
		}
	}

	if err := r.store.Add(ctx, Rule{Domain: name, Answer: targetIP}); err != nil {
		return fmt.Errorf("add rewrite: %w", err)
	}

	r.log.Info().Str("hostname", name).Str("answer", targetIP).Msg("rewrite updated")
	return nil
}
